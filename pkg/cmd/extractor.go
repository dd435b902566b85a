package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"phishfeatures/pkg/common"
	"phishfeatures/pkg/config"
	"phishfeatures/pkg/features"

	"golang.org/x/time/rate"
)

// Extractor holds the collaborators used to compute feature vectors.
type Extractor struct {
	Registry   RegistrationLookup
	Fetcher    PageFetcher
	Ranks      RankProvider
	Shorteners *features.ShortenerSet

	// Limiter paces every network call; nil means unlimited.
	Limiter *rate.Limiter
	// URLTimeout bounds all lookups for one URL; zero means no bound.
	URLTimeout time.Duration
	Now        func() time.Time
	Logger     *log.Logger
}

// NewExtractor wires the production collaborators described by s.
func NewExtractor(s *config.Settings) (*Extractor, error) {
	var dnsChecker *DNSChecker
	if s.Network.DNSPrecheck {
		dnsChecker = NewDNSChecker(s.Network.Resolver, s.Network.WhoisTimeout)
	}

	var ranks RankProvider
	switch s.Rank.Provider {
	case config.RankProviderAlexa:
		ranks = NewAlexaRank(s.Rank.Endpoint, s.Network.HTTPTimeout)
	case config.RankProviderList:
		list, err := LoadRankList(s.Rank.ListPath)
		if err != nil {
			return nil, err
		}
		ranks = list
	case config.RankProviderNone:
		ranks = NoRank{}
	default:
		return nil, fmt.Errorf("unknown rank provider %q", s.Rank.Provider)
	}

	shorteners := features.DefaultShorteners
	if len(s.Shorteners) > 0 {
		shorteners = s.Shorteners
	}

	var limiter *rate.Limiter
	if s.Network.RequestsPerSecond > 0 {
		burst := int(s.Network.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.Network.RequestsPerSecond), burst)
	}

	return &Extractor{
		Registry:   NewWhoisLookup(s.Network.WhoisTimeout, dnsChecker),
		Fetcher:    NewHTTPFetcher(s.Network.HTTPTimeout, s.Network.InsecureSkipVerify, s.Network.UserAgent),
		Ranks:      ranks,
		Shorteners: features.NewShortenerSet(shorteners),
		Limiter:    limiter,
		URLTimeout: s.Network.URLTimeout,
		Now:        time.Now,
		Logger:     log.New(io.Discard, "", 0),
	}, nil
}

// ExtractFeatures computes the feature vector for one URL. Lookup and fetch
// failures are folded into the vector; it never fails.
func (e *Extractor) ExtractFeatures(ctx context.Context, rec config.URLRecord) config.FeatureVector {
	if e.URLTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.URLTimeout)
		defer cancel()
	}

	url := rec.URL
	fv := config.FeatureVector{URL: url}

	// Address bar based features
	fv.Domain = features.Domain(url)
	fv.HaveIP = features.HaveIP(url)
	fv.HaveAt = features.HaveAt(url)
	fv.URLLength = features.URLLength(url)
	fv.URLDepth = features.URLDepth(url)
	fv.Redirection = features.Redirection(url)
	fv.HTTPSDomain = features.HTTPSDomain(url)
	fv.TinyURL = e.shorteners().TinyURL(url)
	fv.PrefixSuffix = features.PrefixSuffix(url)

	// Domain based features
	lookup := e.lookup(ctx, common.Split(url).Netloc)
	rank, rankErr := e.rank(ctx, url)
	fv.DNSRecord = features.DNSRecord(lookup)
	fv.WebTraffic = features.WebTraffic(rank, rankErr)
	fv.DomainAge = features.DomainAge(lookup)
	fv.DomainEnd = features.DomainEnd(lookup, e.now())

	// HTML & JavaScript based features
	page := e.fetch(ctx, url)
	fv.IFrame = features.IFrame(page)
	fv.MouseOver = features.MouseOver(page)
	fv.RightClick = features.RightClick(page)
	fv.WebForwards = features.WebForwards(page)

	fv.Label = rec.Label
	return fv
}

func (e *Extractor) lookup(ctx context.Context, authority string) features.Lookup {
	if err := e.wait(ctx); err != nil {
		return features.Lookup{Err: err}
	}
	reg, err := e.Registry.Lookup(ctx, authority)
	if err != nil {
		e.logf("registration lookup for %q failed: %v", authority, err)
	}
	return features.Lookup{Record: reg, Err: err}
}

func (e *Extractor) rank(ctx context.Context, url string) (int, error) {
	if e.Ranks == nil {
		return 0, ErrRankNotFound
	}
	if err := e.wait(ctx); err != nil {
		return 0, err
	}
	rank, err := e.Ranks.Rank(ctx, url)
	if err != nil {
		e.logf("rank for %q unavailable: %v", url, err)
	}
	return rank, err
}

func (e *Extractor) fetch(ctx context.Context, url string) features.PageResult {
	if err := e.wait(ctx); err != nil {
		return features.PageResult{Err: err}
	}
	page, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		e.logf("fetch of %q failed: %v", url, err)
	}
	return features.PageResult{Page: page, Err: err}
}

func (e *Extractor) wait(ctx context.Context) error {
	if e.Limiter == nil {
		return ctx.Err()
	}
	return e.Limiter.Wait(ctx)
}

func (e *Extractor) shorteners() *features.ShortenerSet {
	if e.Shorteners == nil {
		return features.NewShortenerSet(features.DefaultShorteners)
	}
	return e.Shorteners
}

func (e *Extractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Extractor) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}
