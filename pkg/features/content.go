package features

import (
	"regexp"
)

// Page is a fetched webpage.
type Page struct {
	StatusCode int
	Body       string
	Redirects  int // length of the redirect history
}

// PageResult is the outcome of fetching a URL.
type PageResult struct {
	Page *Page
	Err  error
}

// OK reports whether a page was fetched.
func (r PageResult) OK() bool {
	return r.Err == nil && r.Page != nil
}

var (
	// A character class, not a tag match: any of <iframe>|<frameBorder> hits.
	iframePattern     = regexp.MustCompile(`[<iframe>|<frameBorder>]`)
	mouseOverPattern  = regexp.MustCompile(`<script>.+onmouseover.+</script>`)
	rightClickPattern = regexp.MustCompile(`event.button ?== ?2`)
)

// maxForwards is the most redirects a legitimate page is allowed.
const maxForwards = 2

// IFrame is 0 when the iframe pattern matches the body, 1 otherwise or
// when nothing was fetched.
func IFrame(r PageResult) int {
	if !r.OK() {
		return 1
	}
	if iframePattern.MatchString(r.Page.Body) {
		return 0
	}
	return 1
}

// MouseOver is 1 when a script block handles onmouseover, or when nothing
// was fetched.
func MouseOver(r PageResult) int {
	if !r.OK() {
		return 1
	}
	if mouseOverPattern.MatchString(r.Page.Body) {
		return 1
	}
	return 0
}

// RightClick is 0 when the page checks for the right mouse button, 1
// otherwise or when nothing was fetched.
func RightClick(r PageResult) int {
	if !r.OK() {
		return 1
	}
	if rightClickPattern.MatchString(r.Page.Body) {
		return 0
	}
	return 1
}

// WebForwards is 1 after more than two redirects, or when nothing was fetched.
func WebForwards(r PageResult) int {
	if !r.OK() {
		return 1
	}
	if r.Page.Redirects <= maxForwards {
		return 0
	}
	return 1
}
