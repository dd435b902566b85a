package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// DNSChecker asks a resolver whether a domain exists at all.
type DNSChecker struct {
	client   *dns.Client
	resolver string
}

// NewDNSChecker creates a checker that queries resolver ("host:port").
func NewDNSChecker(resolver string, timeout time.Duration) *DNSChecker {
	return &DNSChecker{
		client:   &dns.Client{Timeout: timeout},
		resolver: resolver,
	}
}

// Exists reports false on NXDOMAIN and true on NOERROR. Other rcodes and
// transport failures are returned as errors.
func (d *DNSChecker) Exists(ctx context.Context, domain string) (bool, error) {
	m := dns.Msg{}
	m.SetQuestion(dns.Fqdn(domain), dns.TypeNS)
	in, _, err := d.client.ExchangeContext(ctx, &m, d.resolver)
	if err != nil {
		return false, err
	}
	switch in.Rcode {
	case dns.RcodeNameError:
		return false, nil
	case dns.RcodeSuccess:
		return true, nil
	default:
		return false, fmt.Errorf("resolver answered %s", dns.RcodeToString[in.Rcode])
	}
}
