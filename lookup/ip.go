package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultIPLookupURL is the ip-api.com JSON endpoint.
const DefaultIPLookupURL = "http://ip-api.com/json"

// IPInfo is the geolocation record of an address, in ip-api.com's shape.
// Status is "success" or "fail"; on failure Message says why.
type IPInfo struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Region      string   `json:"region,omitempty"`
	RegionName  string   `json:"regionName,omitempty"`
	City        string   `json:"city,omitempty"`
	Zip         string   `json:"zip,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	ISP         string   `json:"isp,omitempty"`
	Org         string   `json:"org,omitempty"`
	AS          string   `json:"as,omitempty"`
	Query       string   `json:"query,omitempty"`
}

// IPClient queries an ip-api.com compatible service.
type IPClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewIPClient creates a client. An empty baseURL uses DefaultIPLookupURL.
func NewIPClient(baseURL string, log zerolog.Logger) *IPClient {
	if baseURL == "" {
		baseURL = DefaultIPLookupURL
	}
	return &IPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// WithHTTPClient returns a copy of c using hc.
func (c *IPClient) WithHTTPClient(hc *http.Client) *IPClient {
	cp := *c
	cp.httpClient = hc
	return &cp
}

// Lookup geolocates ip. An empty ip asks the service about the caller's own
// address. Failures are reported as Status "fail", never as a Go error.
func (c *IPClient) Lookup(ctx context.Context, ip string) IPInfo {
	ip = strings.TrimSpace(ip)
	if ip != "" && net.ParseIP(ip) == nil {
		return IPInfo{Status: "fail", Message: "invalid query", Query: ip}
	}

	info, err := c.fetch(ctx, ip)
	if err != nil {
		c.log.Warn().Err(err).Str("ip", ip).Msg("ip lookup failed")
		return IPInfo{Status: "fail", Message: err.Error()}
	}
	if info.Status == "" {
		info.Status = "fail"
		if info.Message == "" {
			info.Message = "An unexpected error occurred during the IP lookup."
		}
	}
	return info
}

func (c *IPClient) fetch(ctx context.Context, ip string) (IPInfo, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return IPInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return IPInfo{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return IPInfo{}, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return IPInfo{}, fmt.Errorf("read response: %w", err)
	}
	var info IPInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return IPInfo{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return info, nil
}
