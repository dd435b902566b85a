package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"phishfeatures/pkg/common"

	"github.com/PuerkitoBio/goquery"
)

// RankProvider returns a popularity rank for a URL.
type RankProvider interface {
	Rank(ctx context.Context, url string) (int, error)
}

// ErrRankNotFound means the provider has no rank for the URL.
var ErrRankNotFound = errors.New("rank not found")

// NoRank is used when no ranking source is configured.
type NoRank struct{}

func (NoRank) Rank(context.Context, string) (int, error) { return 0, ErrRankNotFound }

// AlexaRank reads REACH/@RANK from an Alexa-style XML endpoint.
type AlexaRank struct {
	endpoint   string
	httpClient *http.Client
}

func NewAlexaRank(endpoint string, timeout time.Duration) *AlexaRank {
	return &AlexaRank{endpoint: endpoint, httpClient: &http.Client{Timeout: timeout}}
}

// Rank implements RankProvider.
func (a *AlexaRank) Rank(ctx context.Context, url string) (int, error) {
	target := a.endpoint + "?cli=10&dat=s&url=" + neturl.QueryEscape(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create rank request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rank request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rank endpoint returned %s", resp.Status)
	}

	// The HTML parser lower-cases element and attribute names.
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("could not parse rank response: %w", err)
	}
	raw, ok := doc.Find("reach").First().Attr("rank")
	if !ok {
		return 0, ErrRankNotFound
	}
	rank, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid rank %q: %w", raw, err)
	}
	return rank, nil
}

// ListRank looks URLs up in a Tranco-style "rank,domain" list.
type ListRank struct {
	ranks map[string]int
}

// LoadRankList reads a rank list from path. Rows whose first column is not
// a number (a header, say) are skipped.
func LoadRankList(path string) (*ListRank, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open rank list: %w", err)
	}
	defer file.Close()
	return ReadRankList(file)
}

// ReadRankList parses a rank list from r.
func ReadRankList(r io.Reader) (*ListRank, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	ranks := make(map[string]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading rank list: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		rank, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		domain := strings.ToLower(strings.TrimSpace(record[1]))
		if prev, ok := ranks[domain]; !ok || rank < prev {
			ranks[domain] = rank
		}
	}
	if len(ranks) == 0 {
		return nil, fmt.Errorf("rank list contained no entries")
	}
	return &ListRank{ranks: ranks}, nil
}

// Rank implements RankProvider. The host is tried as given, without "www.",
// then as its apex domain.
func (l *ListRank) Rank(_ context.Context, url string) (int, error) {
	netloc := common.Split(url).Netloc
	if netloc == "" {
		// Schemeless URL: the host is the first path segment.
		netloc = common.Split("//" + url).Netloc
	}
	host := common.Hostname(netloc)
	for _, candidate := range []string{host, strings.TrimPrefix(host, "www.")} {
		if rank, ok := l.ranks[candidate]; ok {
			return rank, nil
		}
	}
	if apex, err := common.ApexDomain(netloc); err == nil {
		if rank, ok := l.ranks[apex]; ok {
			return rank, nil
		}
	}
	return 0, ErrRankNotFound
}
