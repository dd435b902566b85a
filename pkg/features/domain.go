package features

import (
	"time"

	"phishfeatures/pkg/common"
)

// DateKind tells how a registry reported a date.
type DateKind int

const (
	DateMissing DateKind = iota
	DateSingle
	DateList
	DateText
)

// RegistrationDate is one date field of a registration record. Registries
// may omit it, give one value, give several, or give text we could not parse.
type RegistrationDate struct {
	Kind DateKind
	Time time.Time   // DateSingle
	List []time.Time // DateList
	Text string      // DateText
}

func MissingDate() RegistrationDate             { return RegistrationDate{} }
func SingleDate(t time.Time) RegistrationDate   { return RegistrationDate{Kind: DateSingle, Time: t} }
func ListDate(ts ...time.Time) RegistrationDate { return RegistrationDate{Kind: DateList, List: ts} }
func TextDate(s string) RegistrationDate        { return RegistrationDate{Kind: DateText, Text: s} }

// Registration is the part of a WHOIS record the age features read.
type Registration struct {
	Domain         string
	CreationDate   RegistrationDate
	ExpirationDate RegistrationDate
}

// Lookup is the outcome of a registration lookup.
type Lookup struct {
	Record *Registration
	Err    error
}

// OK reports whether the lookup produced a record.
func (l Lookup) OK() bool {
	return l.Err == nil && l.Record != nil
}

const (
	// rankThreshold: ranks below this are flagged.
	rankThreshold = 100000
	monthDays     = 30
	sixMonths     = 6
)

const textDateLayout = "2006-01-02"

// DNSRecord is 1 when the registration lookup failed.
func DNSRecord(l Lookup) int {
	if l.OK() {
		return 0
	}
	return 1
}

// WebTraffic is 1 when the rank is unavailable or below 100000.
func WebTraffic(rank int, err error) int {
	if err != nil || rank < rankThreshold {
		return 1
	}
	return 0
}

// DomainAge is 1 when the registration spans less than six months, or when
// the dates cannot be used.
func DomainAge(l Lookup) int {
	if !l.OK() {
		return 1
	}
	created, expires := l.Record.CreationDate, l.Record.ExpirationDate

	// Text on either side means both must be plain YYYY-MM-DD text.
	if created.Kind == DateText || expires.Kind == DateText {
		if created.Kind != DateText || expires.Kind != DateText {
			return 1
		}
		c, err := time.Parse(textDateLayout, created.Text)
		if err != nil {
			return 1
		}
		e, err := time.Parse(textDateLayout, expires.Text)
		if err != nil {
			return 1
		}
		created, expires = SingleDate(c), SingleDate(e)
	}

	if created.Kind != DateSingle || expires.Kind != DateSingle {
		return 1
	}
	age := abs(common.FloorDays(expires.Time.Sub(created.Time)))
	if float64(age)/monthDays < sixMonths {
		return 1
	}
	return 0
}

// DomainEnd looks at the time left until expiry. Less than six months is 0
// and six months or more is 1; this polarity is intentional.
func DomainEnd(l Lookup, now time.Time) int {
	if !l.OK() {
		return 1
	}
	expires := l.Record.ExpirationDate
	if expires.Kind == DateText {
		e, err := time.Parse(textDateLayout, expires.Text)
		if err != nil {
			return 1
		}
		expires = SingleDate(e)
	}
	if expires.Kind != DateSingle {
		return 1
	}
	end := abs(common.FloorDays(expires.Time.Sub(now)))
	if float64(end)/monthDays < sixMonths {
		return 0
	}
	return 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
