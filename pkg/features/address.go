// Package features holds the per-URL heuristics of the dataset. Every
// function is a pure predicate over the URL string or over an
// already-obtained lookup/fetch result; none of them perform I/O.
package features

import (
	"net/netip"
	"strings"
	"unicode/utf8"

	"phishfeatures/pkg/common"
)

// LongURLThreshold is the character count from which a URL counts as long.
const LongURLThreshold = 54

// Domain returns the URL's netloc with one leading "www." removed.
func Domain(url string) string {
	return strings.TrimPrefix(common.Split(url).Netloc, "www.")
}

// HaveIP is 1 when the URL is itself an IP literal or its host is one.
func HaveIP(url string) int {
	if isIP(url) || isIP(common.Hostname(common.Split(url).Netloc)) {
		return 1
	}
	return 0
}

func isIP(s string) bool {
	if s == "" {
		return false
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// HaveAt is 1 when "@" appears anywhere in the URL.
func HaveAt(url string) int {
	if strings.Contains(url, "@") {
		return 1
	}
	return 0
}

// URLLength is 1 for URLs of at least LongURLThreshold characters.
func URLLength(url string) int {
	if utf8.RuneCountInString(url) < LongURLThreshold {
		return 0
	}
	return 1
}

// URLDepth counts the non-empty path segments.
func URLDepth(url string) int {
	depth := 0
	for _, seg := range strings.Split(common.Split(url).Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// Redirection is 1 when the last "//" sits past the scheme separator,
// i.e. at a character position greater than 7.
func Redirection(url string) int {
	pos := strings.LastIndex(url, "//")
	if pos < 0 {
		return 0
	}
	if utf8.RuneCountInString(url[:pos]) > 7 {
		return 1
	}
	return 0
}

// HTTPSDomain is 1 when "https" is part of the netloc.
func HTTPSDomain(url string) int {
	if strings.Contains(common.Split(url).Netloc, "https") {
		return 1
	}
	return 0
}

// PrefixSuffix is 1 when the netloc contains a dash.
func PrefixSuffix(url string) int {
	if strings.Contains(common.Split(url).Netloc, "-") {
		return 1
	}
	return 0
}
