package features

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lookupOf(created, expires RegistrationDate) Lookup {
	return Lookup{Record: &Registration{Domain: "example.com", CreationDate: created, ExpirationDate: expires}}
}

var errLookup = errors.New("whois: no match")

func TestDNSRecord(t *testing.T) {
	if got := DNSRecord(Lookup{Err: errLookup}); got != 1 {
		t.Errorf("failed lookup: DNSRecord = %d, want 1", got)
	}
	if got := DNSRecord(Lookup{}); got != 1 {
		t.Errorf("empty lookup: DNSRecord = %d, want 1", got)
	}
	if got := DNSRecord(lookupOf(MissingDate(), MissingDate())); got != 0 {
		t.Errorf("successful lookup: DNSRecord = %d, want 0", got)
	}
}

func TestWebTraffic(t *testing.T) {
	tests := []struct {
		rank int
		err  error
		want int
	}{
		{50, nil, 1},
		{99999, nil, 1},
		{100000, nil, 0},
		{1500000, nil, 0},
		{0, errors.New("rank unavailable"), 1},
	}
	for _, tt := range tests {
		if got := WebTraffic(tt.rank, tt.err); got != tt.want {
			t.Errorf("WebTraffic(%d, %v) = %d, want %d", tt.rank, tt.err, got, tt.want)
		}
	}
}

func TestDomainAge(t *testing.T) {
	tests := []struct {
		name   string
		lookup Lookup
		want   int
	}{
		{"lookup failed", Lookup{Err: errLookup}, 1},
		{"old domain", lookupOf(SingleDate(day(2010, 1, 1)), SingleDate(day(2030, 1, 1))), 0},
		{"two months", lookupOf(SingleDate(day(2024, 1, 1)), SingleDate(day(2024, 3, 1))), 1},
		{"exactly 180 days", lookupOf(SingleDate(day(2024, 1, 1)), SingleDate(day(2024, 6, 29))), 0},
		{"179 days", lookupOf(SingleDate(day(2024, 1, 1)), SingleDate(day(2024, 6, 28))), 1},
		{"reversed dates", lookupOf(SingleDate(day(2030, 1, 1)), SingleDate(day(2020, 1, 1))), 0},
		{"list creation", lookupOf(ListDate(day(2010, 1, 1), day(2011, 1, 1)), SingleDate(day(2030, 1, 1))), 1},
		{"missing expiry", lookupOf(SingleDate(day(2010, 1, 1)), MissingDate()), 1},
		{"text dates", lookupOf(TextDate("2010-01-01"), TextDate("2030-01-01")), 0},
		{"short text dates", lookupOf(TextDate("2024-01-01"), TextDate("2024-02-01")), 1},
		{"text with time", lookupOf(TextDate("2010-01-01 00:00:00"), TextDate("2030-01-01")), 1},
		{"text and time mixed", lookupOf(TextDate("2010-01-01"), SingleDate(day(2030, 1, 1))), 1},
		{"text and missing", lookupOf(MissingDate(), TextDate("2030-01-01")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainAge(tt.lookup); got != tt.want {
				t.Errorf("DomainAge = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDomainEnd(t *testing.T) {
	now := day(2025, 1, 1)
	tests := []struct {
		name   string
		lookup Lookup
		want   int
	}{
		{"lookup failed", Lookup{Err: errLookup}, 1},
		{"expires soon", lookupOf(MissingDate(), SingleDate(day(2025, 3, 1))), 0},
		{"expires in two years", lookupOf(MissingDate(), SingleDate(day(2027, 1, 1))), 1},
		{"expired long ago", lookupOf(MissingDate(), SingleDate(day(2020, 1, 1))), 1},
		{"expired last month", lookupOf(MissingDate(), SingleDate(day(2024, 12, 1))), 0},
		{"text soon", lookupOf(MissingDate(), TextDate("2025-02-01")), 0},
		{"text far", lookupOf(MissingDate(), TextDate("2030-02-01")), 1},
		{"text unparseable", lookupOf(MissingDate(), TextDate("01/02/2025")), 1},
		{"list", lookupOf(MissingDate(), ListDate(day(2025, 2, 1), day(2025, 3, 1))), 1},
		{"missing", lookupOf(SingleDate(day(2010, 1, 1)), MissingDate()), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainEnd(tt.lookup, now); got != tt.want {
				t.Errorf("DomainEnd = %d, want %d", got, tt.want)
			}
		})
	}
}
