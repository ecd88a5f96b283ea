package lookup

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/bhk-seo/seotools/apperr"
)

type fakeResolver struct {
	ips   []net.IPAddr
	cname string
	mx    []*net.MX
	ns    []*net.NS
	txt   []string
	err   error
}

func (f fakeResolver) LookupIPAddr(context.Context, string) ([]net.IPAddr, error) {
	return f.ips, f.err
}

func (f fakeResolver) LookupCNAME(_ context.Context, host string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.cname == "" {
		return host + ".", nil
	}
	return f.cname, nil
}

func (f fakeResolver) LookupMX(context.Context, string) ([]*net.MX, error) { return f.mx, f.err }
func (f fakeResolver) LookupNS(context.Context, string) ([]*net.NS, error) { return f.ns, f.err }
func (f fakeResolver) LookupTXT(context.Context, string) ([]string, error)  { return f.txt, f.err }

func intPtr(v int) *int { return &v }

func TestDNSLookupCollectsRecords(t *testing.T) {
	r := fakeResolver{
		ips:   []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}, {IP: net.ParseIP("2606:2800:220:1::248")}},
		cname: "edge.example.net.",
		mx:    []*net.MX{{Host: "mail.example.com.", Pref: 10}},
		ns:    []*net.NS{{Host: "ns1.example.com."}},
		txt:   []string{"v=spf1 -all"},
	}
	c := NewDNSClient(r, zerolog.Nop())

	got := c.Lookup(context.Background(), "https://Example.com/some/path")
	want := DNSResult{Records: []DNSRecord{
		{Type: "A", Address: "93.184.216.34"},
		{Type: "AAAA", Address: "2606:2800:220:1::248"},
		{Type: "CNAME", Value: "edge.example.net"},
		{Type: "MX", Exchange: "mail.example.com", Priority: intPtr(10)},
		{Type: "NS", Value: "ns1.example.com"},
		{Type: "TXT", Value: "v=spf1 -all"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}
}

func TestDNSLookupNotFound(t *testing.T) {
	r := fakeResolver{err: &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}}
	got := NewDNSClient(r, zerolog.Nop()).Lookup(context.Background(), "nope.invalid")
	if got.Error != msgNoRecords {
		t.Errorf("Error = %q, want %q", got.Error, msgNoRecords)
	}
	if got.Records == nil || len(got.Records) != 0 {
		t.Errorf("Records = %v, want empty non-nil", got.Records)
	}
}

func TestDNSLookupUnexpectedFailure(t *testing.T) {
	r := fakeResolver{err: &net.DNSError{Err: "server misbehaving", Name: "example.com", IsTemporary: true}}
	got := NewDNSClient(r, zerolog.Nop()).Lookup(context.Background(), "example.com")
	if got.Error != msgUnexpected {
		t.Errorf("Error = %q, want %q", got.Error, msgUnexpected)
	}

	got = NewDNSClient(fakeResolver{}, zerolog.Nop()).Lookup(context.Background(), "   ")
	if got.Error != msgUnexpected {
		t.Errorf("blank domain Error = %q, want %q", got.Error, msgUnexpected)
	}
}

func TestDNSLookupPartialAnswer(t *testing.T) {
	r := partialResolver{fakeResolver{ips: []net.IPAddr{{IP: net.ParseIP("10.0.0.1")}}}}
	got := NewDNSClient(r, zerolog.Nop()).Lookup(context.Background(), "example.com")
	if got.Error != "" || len(got.Records) != 1 {
		t.Errorf("got %+v, want a single A record and no error", got)
	}
}

// partialResolver answers addresses only; every other type fails.
type partialResolver struct{ fakeResolver }

func (p partialResolver) LookupMX(context.Context, string) ([]*net.MX, error) {
	return nil, errors.New("timeout")
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"  EXAMPLE.com.  ", "example.com"},
		{"https://www.example.com/a?b=c", "www.example.com"},
		{"example.com/path", "example.com"},
		{"example.com:8080", "example.com"},
		{"bücher.de", "xn--bcher-kva.de"},
		{"93.184.216.34", "93.184.216.34"},
	}
	for _, tt := range tests {
		got, err := NormalizeHost(tt.in)
		if err != nil {
			t.Errorf("NormalizeHost(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "exa mple.com", "user@example.com", "https://"} {
		if _, err := NormalizeHost(bad); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("NormalizeHost(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := map[string]string{
		"https://www.example.co.uk/page": "example.co.uk",
		"blog.example.com":               "example.com",
		"example.com":                    "example.com",
		"10.0.0.1":                       "10.0.0.1",
	}
	for in, want := range tests {
		got, err := RegistrableDomain(in)
		if err != nil {
			t.Errorf("RegistrableDomain(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := RegistrableDomain("com"); err == nil {
		t.Error("a bare public suffix should fail")
	}
}

func TestIPLookup(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/json/8.8.8.8":
			w.Write([]byte(`{"status":"success","country":"United States","countryCode":"US","city":"Mountain View","lat":37.4,"lon":-122.1,"isp":"Google LLC","query":"8.8.8.8"}`))
		case "/json/":
			w.Write([]byte(`{"status":"success","query":"203.0.113.7"}`))
		case "/json/10.0.0.1":
			w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	c := NewIPClient(srv.URL+"/json/", zerolog.Nop()).WithHTTPClient(srv.Client())
	ctx := context.Background()

	info := c.Lookup(ctx, "8.8.8.8")
	if info.Status != "success" || info.CountryCode != "US" || info.Lat == nil || *info.Lat != 37.4 {
		t.Errorf("Lookup(8.8.8.8) = %+v", info)
	}

	info = c.Lookup(ctx, "")
	if gotPath != "/json/" || info.Query != "203.0.113.7" {
		t.Errorf("self lookup path = %q, info = %+v", gotPath, info)
	}

	info = c.Lookup(ctx, "10.0.0.1")
	if info.Status != "fail" || info.Message != "private range" {
		t.Errorf("Lookup(10.0.0.1) = %+v", info)
	}

	info = c.Lookup(ctx, "1.1.1.1")
	if info.Status != "fail" || info.Message != "HTTP error! status: 429" {
		t.Errorf("Lookup(1.1.1.1) = %+v", info)
	}

	gotPath = ""
	info = c.Lookup(ctx, "not-an-ip")
	if info.Status != "fail" || gotPath != "" {
		t.Errorf("invalid ip should fail locally, got %+v (path %q)", info, gotPath)
	}
}
