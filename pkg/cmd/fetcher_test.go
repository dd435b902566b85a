package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func redirectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	// /hop/N redirects N more times before landing on /page.
	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.Error(w, "bad hop", http.StatusBadRequest)
			return
		}
		if n <= 0 {
			http.Redirect(w, r, "/page", http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", n-1), http.StatusFound)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<script>document.onmouseover=function(){}</script>`)
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("caf\xe9"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_RedirectHistory(t *testing.T) {
	srv := redirectServer(t)
	f := NewHTTPFetcher(5*time.Second, false, "phishfeatures-test")

	tests := []struct {
		path string
		want int
	}{
		{"/page", 0},
		{"/hop/0", 1},
		{"/hop/2", 3},
	}
	for _, tt := range tests {
		page, err := f.Fetch(context.Background(), srv.URL+tt.path)
		if err != nil {
			t.Fatalf("Fetch(%s) failed: %v", tt.path, err)
		}
		if page.Redirects != tt.want {
			t.Errorf("Fetch(%s) redirects = %d, want %d", tt.path, page.Redirects, tt.want)
		}
		if !strings.Contains(page.Body, "onmouseover") {
			t.Errorf("Fetch(%s) body = %q", tt.path, page.Body)
		}
	}
}

func TestHTTPFetcher_TooManyRedirects(t *testing.T) {
	srv := redirectServer(t)
	f := NewHTTPFetcher(5*time.Second, false, "")
	_, err := f.Fetch(context.Background(), srv.URL+"/hop/40")
	if !errors.Is(err, errTooManyRedirects) {
		t.Errorf("expected errTooManyRedirects, got %v", err)
	}
}

func TestHTTPFetcher_StatusIsNotAnError(t *testing.T) {
	srv := redirectServer(t)
	f := NewHTTPFetcher(5*time.Second, false, "")
	page, err := f.Fetch(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", page.StatusCode)
	}
}

func TestHTTPFetcher_DecodesCharset(t *testing.T) {
	srv := redirectServer(t)
	f := NewHTTPFetcher(5*time.Second, false, "")
	page, err := f.Fetch(context.Background(), srv.URL+"/latin1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.Body != "café" {
		t.Errorf("Body = %q, want %q", page.Body, "café")
	}
}

func TestHTTPFetcher_Failures(t *testing.T) {
	f := NewHTTPFetcher(time.Second, false, "")
	for _, url := range []string{"example.com/no-scheme", "http://127.0.0.1:1/", "ftp://example.com/"} {
		if _, err := f.Fetch(context.Background(), url); err == nil {
			t.Errorf("Fetch(%q) succeeded, want error", url)
		}
	}
}
