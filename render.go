package seotools

import (
	"encoding/xml"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// RenderXML writes v as an XML document with the given content type.
func RenderXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(c.Response())
	enc.Indent("", "  ")
	return enc.Encode(v)
}

// renderError writes err as a JSON body {"error": message} with the status
// of its failure kind.
func renderError(c echo.Context, err error) error {
	return c.JSON(StatusOf(err), errorBody{Error: apperr.Message(err)})
}

type errorBody struct {
	Error   string                   `json:"error"`
	Details []*schema.ValidationError `json:"details,omitempty"`
}
