package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"

	"phishfeatures/pkg/config"

	"golang.org/x/sync/errgroup"
)

// Output file names, written in this order.
const (
	LegitimateFile = "legitimate.csv"
	PhishingFile   = "phishing.csv"
	CombinedFile   = "urldata.csv"
)

const progressEvery = 500

// Dataset is the two labelled tables of a run.
type Dataset struct {
	Legitimate []config.FeatureVector
	Phishing   []config.FeatureVector
}

// Combined returns the legitimate rows followed by the phishing rows.
func (d *Dataset) Combined() []config.FeatureVector {
	rows := make([]config.FeatureVector, 0, len(d.Legitimate)+len(d.Phishing))
	rows = append(rows, d.Legitimate...)
	return append(rows, d.Phishing...)
}

// Records labels every URL in urls.
func Records(urls []string, label int) []config.URLRecord {
	recs := make([]config.URLRecord, len(urls))
	for i, u := range urls {
		recs[i] = config.URLRecord{URL: u, Label: label}
	}
	return recs
}

// ExtractAll runs ExtractFeatures over records with at most workers in
// flight. Output order matches input order. The only error is the
// context's.
func (e *Extractor) ExtractAll(ctx context.Context, records []config.URLRecord, workers int) ([]config.FeatureVector, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]config.FeatureVector, len(records))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.ExtractFeatures(gctx, rec)
			if n := done.Add(1); n%progressEvery == 0 {
				log.Printf("Extracted features for %d/%d URLs", n, len(records))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildDataset extracts the legitimate table, then the phishing table.
func BuildDataset(ctx context.Context, e *Extractor, legitimate, phishing []string, workers int) (*Dataset, error) {
	legit, err := e.ExtractAll(ctx, Records(legitimate, config.LabelLegitimate), workers)
	if err != nil {
		return nil, fmt.Errorf("legitimate extraction interrupted: %w", err)
	}
	phish, err := e.ExtractAll(ctx, Records(phishing, config.LabelPhishing), workers)
	if err != nil {
		return nil, fmt.Errorf("phishing extraction interrupted: %w", err)
	}
	return &Dataset{Legitimate: legit, Phishing: phish}, nil
}

// WriteCSV writes header and rows to path, replacing any existing file.
func WriteCSV(path string, rows []config.FeatureVector) (err error) {
	cw, err := CreateCSVWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cw.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := cw.WriteHeader(config.FeatureVector{}.GetCSVHeader()); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := cw.WriteVectors(rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	return nil
}

// WriteDataset writes the three output files into dir.
func WriteDataset(dir string, d *Dataset) error {
	files := []struct {
		name string
		rows []config.FeatureVector
	}{
		{LegitimateFile, d.Legitimate},
		{PhishingFile, d.Phishing},
		{CombinedFile, d.Combined()},
	}
	for _, f := range files {
		if err := WriteCSV(filepath.Join(dir, f.name), f.rows); err != nil {
			return err
		}
	}
	return nil
}
