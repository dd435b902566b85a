package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phishfeatures/pkg/common"
	"phishfeatures/pkg/features"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// RegistrationLookup fetches the registration record for a URL authority.
type RegistrationLookup interface {
	Lookup(ctx context.Context, authority string) (*features.Registration, error)
}

var (
	ErrNoSuchDomain   = errors.New("domain does not resolve")
	ErrNoDomainRecord = errors.New("whois response has no domain section")
)

// WhoisLookup queries WHOIS for the apex domain of an authority.
type WhoisLookup struct {
	client *whois.Client
	dns    *DNSChecker // nil disables the NXDOMAIN pre-check
}

// NewWhoisLookup creates a WHOIS-backed RegistrationLookup.
func NewWhoisLookup(timeout time.Duration, dns *DNSChecker) *WhoisLookup {
	client := whois.NewClient()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &WhoisLookup{client: client, dns: dns}
}

// Keys under which registries report the two dates, lower-cased.
var (
	creationKeys = map[string]bool{
		"creation date": true, "created": true, "created on": true,
		"registered on": true, "registration time": true,
		"domain registration date": true, "registered": true,
	}
	expirationKeys = map[string]bool{
		"registry expiry date": true, "registrar registration expiration date": true,
		"expiration date": true, "expiry date": true, "expires": true,
		"expires on": true, "paid-till": true, "expiration time": true,
	}
)

// Lookup implements RegistrationLookup.
func (w *WhoisLookup) Lookup(ctx context.Context, authority string) (reg *features.Registration, err error) {
	apexDomain, err := common.ApexDomain(authority)
	if err != nil {
		return nil, err
	}

	if w.dns != nil {
		exists, err := w.dns.Exists(ctx, apexDomain)
		if err != nil {
			return nil, fmt.Errorf("dns pre-check for '%s' failed: %w", apexDomain, err)
		}
		if !exists {
			return nil, fmt.Errorf("%s: %w", apexDomain, ErrNoSuchDomain)
		}
	}

	// The parser library has been seen to panic on odd responses.
	defer func() {
		if r := recover(); r != nil {
			reg = nil
			err = fmt.Errorf("recovered from panic in whoisparser for domain %s: %v", apexDomain, r)
		}
	}()

	type whoisResult struct {
		raw string
		err error
	}
	resultChan := make(chan whoisResult, 1)

	go func() {
		raw, err := w.client.Whois(apexDomain)
		resultChan <- whoisResult{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			return nil, fmt.Errorf("whois lookup for '%s' failed: %w", apexDomain, res.err)
		}

		result, parseErr := whoisparser.Parse(res.raw)
		if parseErr != nil {
			return nil, fmt.Errorf("whoisparser for '%s' failed: %w", apexDomain, parseErr)
		}
		if result.Domain == nil {
			return nil, fmt.Errorf("%s: %w", apexDomain, ErrNoDomainRecord)
		}

		return &features.Registration{
			Domain:         apexDomain,
			CreationDate:   registrationDate(result.Domain.CreatedDate, scanDates(res.raw, creationKeys)),
			ExpirationDate: registrationDate(result.Domain.ExpirationDate, scanDates(res.raw, expirationKeys)),
		}, nil
	}
}

// registrationDate combines the parser's value with every distinct date
// found in the raw response. Disagreeing sources come back as a list.
func registrationDate(parsed string, raw []time.Time) features.RegistrationDate {
	if len(raw) > 1 {
		return features.ListDate(raw...)
	}
	if t, ok := common.ParseWhoisDate(parsed); ok {
		return features.SingleDate(t)
	}
	if strings.TrimSpace(parsed) != "" {
		return features.TextDate(strings.TrimSpace(parsed))
	}
	if len(raw) == 1 {
		return features.SingleDate(raw[0])
	}
	return features.MissingDate()
}

// scanDates collects the distinct dates reported under keys in a raw
// WHOIS response, in order of appearance.
func scanDates(raw string, keys map[string]bool) []time.Time {
	var dates []time.Time
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || !keys[strings.ToLower(strings.TrimSpace(key))] {
			continue
		}
		t, ok := common.ParseWhoisDate(value)
		if !ok {
			continue
		}
		seen := false
		for _, d := range dates {
			if d.Equal(t) {
				seen = true
				break
			}
		}
		if !seen {
			dates = append(dates, t)
		}
	}
	return dates
}
