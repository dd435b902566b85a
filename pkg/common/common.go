package common

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var yyyymmdd = regexp.MustCompile(`(\d{8})`)

// ParseWhoisDate tries multiple common layouts to parse a date string.
func ParseWhoisDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	// First, try to find a YYYYMMDD format anywhere in the string.
	if match := yyyymmdd.FindStringSubmatch(raw); len(match) > 1 {
		if t, err := time.Parse("20060102", match[1]); err == nil {
			return t, true
		}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02-Jan-2006",
		"2006/01/02",
		"2006.01.02",
		"02.01.2006",
		"2006-01-02 15:04:05 MST",
		time.RFC1123,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FloorDays returns the whole days in d, rounded towards negative infinity.
func FloorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

// ApexDomain reduces a netloc to the registrable domain used for WHOIS and
// rank lookups: userinfo and port are dropped, IDNs go to ASCII.
func ApexDomain(netloc string) (string, error) {
	host := Hostname(netloc)
	if host == "" {
		return "", fmt.Errorf("empty host in %q", netloc)
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("idna conversion of %q failed: %w", host, err)
	}
	apex, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		return "", fmt.Errorf("could not determine apex domain for %q: %w", ascii, err)
	}
	return apex, nil
}
