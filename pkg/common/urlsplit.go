package common

import (
	"strings"
)

// SplitURL holds the parts of a URL as the address bar features see them.
type SplitURL struct {
	Scheme   string
	Netloc   string
	Path     string
	Params   string
	Query    string
	Fragment string
}

const schemeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-."

// Schemes whose last path segment may carry ";params".
var paramSchemes = map[string]bool{
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true,
	"imap": true, "https": true, "shttp": true, "rtsp": true, "rtsps": true,
	"rtspu": true, "sip": true, "sips": true, "mms": true, "sftp": true,
	"tel": true,
}

// Split breaks raw into its components. It never fails: input that is not
// a URL comes back with an empty Netloc and everything in Path. A netloc is
// only recognised after "//", so "example.com/a" has no netloc at all.
func Split(raw string) SplitURL {
	var u SplitURL

	s := strings.TrimLeftFunc(raw, func(r rune) bool { return r <= ' ' })
	s = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(s)

	if i := strings.IndexByte(s, ':'); i > 0 && isASCIILetter(s[0]) {
		if strings.Trim(s[:i], schemeChars) == "" {
			u.Scheme = strings.ToLower(s[:i])
			s = s[i+1:]
		}
	}

	if strings.HasPrefix(s, "//") {
		s = s[2:]
		end := strings.IndexAny(s, "/?#")
		if end < 0 {
			end = len(s)
		}
		u.Netloc, s = s[:end], s[end:]
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, u.Fragment = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s, u.Query = s[:i], s[i+1:]
	}

	if paramSchemes[u.Scheme] && strings.Contains(s, ";") {
		s, u.Params = splitParams(s)
	}
	u.Path = s
	return u
}

func splitParams(path string) (string, string) {
	var i int
	if slash := strings.LastIndexByte(path, '/'); slash >= 0 {
		i = strings.IndexByte(path[slash:], ';')
		if i < 0 {
			return path, ""
		}
		i += slash
	} else {
		i = strings.IndexByte(path, ';')
	}
	return path[:i], path[i+1:]
}

// Hostname extracts the lower-cased host from a netloc, without userinfo,
// port or IPv6 brackets.
func Hostname(netloc string) string {
	host := netloc
	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		host = host[at+1:]
	}
	if strings.HasPrefix(host, "[") {
		if end := strings.IndexByte(host, ']'); end >= 0 {
			host = host[1:end]
		} else {
			host = host[1:]
		}
	} else if colon := strings.IndexByte(host, ':'); colon >= 0 {
		host = host[:colon]
	}
	return strings.ToLower(host)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
