package lookup

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	msgNoRecords  = "No DNS records found for this domain or the domain does not exist."
	msgUnexpected = "An unexpected error occurred during the DNS lookup. The domain may not be valid."
)

// Resolver is the subset of *net.Resolver used for DNS lookups.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// DNSRecord is one resolved record. Only the fields meaningful for Type are set.
type DNSRecord struct {
	Type     string `json:"type"`
	Address  string `json:"address,omitempty"`
	Value    string `json:"value,omitempty"`
	Priority *int   `json:"priority,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Name     string `json:"name,omitempty"`
	TTL      *int   `json:"ttl,omitempty"`
}

// DNSResult is the boundary shape of a DNS lookup: failures travel as text.
type DNSResult struct {
	Records []DNSRecord `json:"records"`
	Error   string      `json:"error,omitempty"`
}

// DNSClient resolves the common record types of a domain.
type DNSClient struct {
	resolver Resolver
	log      zerolog.Logger
}

// NewDNSClient creates a client. A nil resolver uses net.DefaultResolver.
func NewDNSClient(resolver Resolver, log zerolog.Logger) *DNSClient {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &DNSClient{resolver: resolver, log: log}
}

// Lookup resolves A/AAAA, CNAME, MX, NS and TXT records for domain
// concurrently. Records come back grouped in that order. It never returns a
// Go error: an empty answer or a failure is described in DNSResult.Error.
func (c *DNSClient) Lookup(ctx context.Context, domain string) DNSResult {
	host, err := NormalizeHost(domain)
	if err != nil {
		return DNSResult{Records: []DNSRecord{}, Error: msgUnexpected}
	}

	lookups := []func(context.Context, string) ([]DNSRecord, error){
		c.addresses,
		c.cname,
		c.mx,
		c.ns,
		c.txt,
	}
	results := make([][]DNSRecord, len(lookups))
	errs := make([]error, len(lookups))

	var g errgroup.Group
	for i, fn := range lookups {
		g.Go(func() error {
			results[i], errs[i] = fn(ctx, host)
			return nil
		})
	}
	_ = g.Wait()

	records := []DNSRecord{}
	for _, r := range results {
		records = append(records, r...)
	}
	if len(records) > 0 {
		return DNSResult{Records: records}
	}

	for _, err := range errs {
		if err != nil && !isNotFound(err) {
			c.log.Error().Err(err).Str("domain", host).Msg("dns lookup failed")
			return DNSResult{Records: []DNSRecord{}, Error: msgUnexpected}
		}
	}
	return DNSResult{Records: []DNSRecord{}, Error: msgNoRecords}
}

func (c *DNSClient) addresses(ctx context.Context, host string) ([]DNSRecord, error) {
	addrs, err := c.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	var out []DNSRecord
	for _, a := range addrs {
		typ := "AAAA"
		if a.IP.To4() != nil {
			typ = "A"
		}
		out = append(out, DNSRecord{Type: typ, Address: a.IP.String()})
	}
	return out, nil
}

func (c *DNSClient) cname(ctx context.Context, host string) ([]DNSRecord, error) {
	target, err := c.resolver.LookupCNAME(ctx, host)
	if err != nil {
		return nil, err
	}
	target = strings.TrimSuffix(target, ".")
	// A host without an alias resolves to itself.
	if target == "" || strings.EqualFold(target, host) {
		return nil, nil
	}
	return []DNSRecord{{Type: "CNAME", Value: target}}, nil
}

func (c *DNSClient) mx(ctx context.Context, host string) ([]DNSRecord, error) {
	mxs, err := c.resolver.LookupMX(ctx, host)
	if err != nil {
		return nil, err
	}
	var out []DNSRecord
	for _, mx := range mxs {
		pref := int(mx.Pref)
		out = append(out, DNSRecord{
			Type:     "MX",
			Exchange: strings.TrimSuffix(mx.Host, "."),
			Priority: &pref,
		})
	}
	return out, nil
}

func (c *DNSClient) ns(ctx context.Context, host string) ([]DNSRecord, error) {
	nss, err := c.resolver.LookupNS(ctx, host)
	if err != nil {
		return nil, err
	}
	var out []DNSRecord
	for _, ns := range nss {
		out = append(out, DNSRecord{Type: "NS", Value: strings.TrimSuffix(ns.Host, ".")})
	}
	return out, nil
}

func (c *DNSClient) txt(ctx context.Context, host string) ([]DNSRecord, error) {
	txts, err := c.resolver.LookupTXT(ctx, host)
	if err != nil {
		return nil, err
	}
	var out []DNSRecord
	for _, txt := range txts {
		out = append(out, DNSRecord{Type: "TXT", Value: txt})
	}
	return out, nil
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound
	}
	return false
}
