package seotools

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhk-seo/seotools/access"
)

// The login is a stub: any well-formed email signs the session in. There is
// no password and no account store.

func (a *App) handleLoginPage(c echo.Context) error {
	if SignedInEmail(c) != "" {
		return c.Redirect(http.StatusSeeOther, "/dashboard/")
	}
	return Render(c, a.Views.Login(a.loginMeta(), false, CsrfToken(c)))
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email, err := access.NormalizeEmail(c.FormValue("email"))
	if err != nil {
		a.loginLimiter.Record(c.RealIP())
		return RenderStatus(c, http.StatusBadRequest, a.Views.Login(a.loginMeta(), true, CsrfToken(c)))
	}
	if err := setUserSession(c, email); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard/")
}

func handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleDashboard lists the tools. The tools themselves do not require a
// session; the dashboard only greets a signed-in user.
func (a *App) handleDashboard(c echo.Context) error {
	meta := a.pageMeta("Dashboard | "+a.Config.Name, "Analyze your website's SEO.", BuildURL(a.Config.URL, "dashboard"), "website")
	return Render(c, a.Views.Dashboard(meta, SignedInEmail(c), Tools, CsrfToken(c)))
}

func (a *App) loginMeta() PageMeta {
	return a.pageMeta("Log in | "+a.Config.Name, "Log in to BHK SEO Tools.", BuildURL(a.Config.URL, "login"), "website")
}
