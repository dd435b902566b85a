package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
)

// openSource opens a local file or downloads an http(s) URL.
func openSource(ctx context.Context, src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create download request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download of %s failed: %w", src, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("download of %s returned %s", src, resp.Status)
		}
		return resp.Body, nil
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	return file, nil
}

func newLenientReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// LoadPhishingURLs reads a PhishTank-style CSV and returns its url column.
// With requireVerified only rows marked verified and online are kept.
func LoadPhishingURLs(ctx context.Context, src string, requireVerified bool) ([]string, error) {
	rc, err := openSource(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadPhishingURLs(rc, requireVerified)
}

// ReadPhishingURLs is LoadPhishingURLs over an open reader.
func ReadPhishingURLs(r io.Reader, requireVerified bool) ([]string, error) {
	reader := newLenientReader(r)

	// Find the column indexes from the header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header row: %w", err)
	}

	colIndex := make(map[string]int)
	for i, colName := range header {
		colIndex[strings.TrimSpace(colName)] = i
	}

	requiredCols := []string{"url"}
	if requireVerified {
		requiredCols = append(requiredCols, "verified", "online")
	}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("required column '%s' not found in CSV header", col)
		}
	}

	field := func(record []string, col string) string {
		i := colIndex[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var urls []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}

		if requireVerified && (field(record, "verified") != "yes" || field(record, "online") != "yes") {
			continue
		}
		if url := field(record, "url"); url != "" {
			urls = append(urls, url)
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("file contained no phishing URLs")
	}
	return urls, nil
}

// LoadLegitimateURLs reads the first column of a URL list. With hasHeader
// the first row is treated as a column name and skipped.
func LoadLegitimateURLs(ctx context.Context, src string, hasHeader bool) ([]string, error) {
	rc, err := openSource(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadLegitimateURLs(rc, hasHeader)
}

// ReadLegitimateURLs is LoadLegitimateURLs over an open reader.
func ReadLegitimateURLs(r io.Reader, hasHeader bool) ([]string, error) {
	reader := newLenientReader(r)

	var urls []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		if first {
			first = false
			if hasHeader {
				continue
			}
		}
		if len(record) > 0 && record[0] != "" {
			urls = append(urls, record[0])
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("file contained no legitimate URLs")
	}
	return urls, nil
}

// Sample picks n URLs without replacement. The same seed and input always
// give the same sample. Asking for more than there are returns all of them,
// shuffled.
func Sample(urls []string, n int, seed uint64) []string {
	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(len(urls))
	if n > len(urls) {
		log.Printf("Requested %d URLs but only %d are available; using all of them.", n, len(urls))
		n = len(urls)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = urls[perm[i]]
	}
	return out
}
