// Package lookup answers the non-AI network questions of the dashboard: DNS
// records of a domain, geolocation of an IP address, and the registrable
// domain of a URL.
package lookup

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/bhk-seo/seotools/apperr"
)

var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(true),
	idna.StrictDomainName(false),
)

// NormalizeHost reduces user input to an ASCII hostname. It accepts bare
// domains, URLs with a scheme, and domains followed by a path or port.
func NormalizeHost(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", apperr.InvalidInput("Please enter a domain name.")
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Hostname() == "" {
			return "", apperr.InvalidInput("Please enter a valid domain name.")
		}
		s = u.Hostname()
	} else {
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		if host, _, err := net.SplitHostPort(s); err == nil {
			s = host
		}
	}

	s = strings.TrimSuffix(strings.ToLower(s), ".")
	if ip := net.ParseIP(s); ip != nil {
		return s, nil
	}

	ascii, err := hostProfile.ToASCII(s)
	if err != nil || ascii == "" || strings.ContainsAny(ascii, " \t@") {
		return "", apperr.InvalidInput("Please enter a valid domain name.")
	}
	return ascii, nil
}

// RegistrableDomain returns the eTLD+1 of input, e.g. example.co.uk for
// https://www.example.co.uk/page. IP addresses are returned unchanged.
func RegistrableDomain(input string) (string, error) {
	host, err := NormalizeHost(input)
	if err != nil {
		return "", err
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", apperr.Wrapf(apperr.ErrInvalidInput, err, "Please enter a valid domain name.")
	}
	return domain, nil
}
