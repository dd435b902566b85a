package features

import (
	"strings"
)

// DefaultShorteners lists the URL shortening services flagged by TinyURL.
var DefaultShorteners = []string{
	"bit.ly", "goo.gl", "shorte.st", "go2l.ink", "x.co", "ow.ly", "t.co",
	"tinyurl", "tr.im", "is.gd", "cli.gs", "yfrog.com", "migre.me", "ff.im",
	"tiny.cc", "url4.eu", "twit.ac", "su.pr", "twurl.nl", "snipurl.com",
	"short.to", "BudURL.com", "ping.fm", "post.ly", "Just.as", "bkite.com",
	"snipr.com", "fic.kr", "loopt.us", "doiop.com", "short.ie", "kl.am",
	"wp.me", "rubyurl.com", "om.ly", "to.ly", "bit.do", "lnkd.in", "db.tt",
	"qr.ae", "adf.ly", "bitly.com", "cur.lv", "tinyurl.com", "ity.im",
	"q.gs", "po.st", "bc.vc", "twitthis.com", "u.to", "j.mp", "buzurl.com",
	"cutt.us", "u.bb", "yourls.org", "prettylinkpro.com", "scrnch.me",
	"filoops.info", "vzturl.com", "qr.net", "1url.com", "tweez.me", "v.gd",
	"link.zip.net",
}

// ShortenerSet matches URLs against shortening services. Matching is a
// case-insensitive substring test over the whole URL, so "t.co" also hits
// "microsoft.com".
type ShortenerSet struct {
	needles []string
}

// NewShortenerSet builds a set from hosts. Duplicates and blanks are dropped.
func NewShortenerSet(hosts []string) *ShortenerSet {
	seen := make(map[string]bool, len(hosts))
	s := &ShortenerSet{}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		s.needles = append(s.needles, h)
	}
	return s
}

// Len returns the number of distinct entries.
func (s *ShortenerSet) Len() int {
	return len(s.needles)
}

// TinyURL is 1 when url mentions any shortening service in the set.
func (s *ShortenerSet) TinyURL(url string) int {
	lower := strings.ToLower(url)
	for _, n := range s.needles {
		if strings.Contains(lower, n) {
			return 1
		}
	}
	return 0
}
