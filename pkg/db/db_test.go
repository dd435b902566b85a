package db

import (
	"context"
	"path/filepath"
	"testing"

	"phishfeatures/pkg/config"
)

func sampleRows() []config.FeatureVector {
	a := config.FeatureVector{URL: "http://example.com/a"}
	a.Domain = "example.com"
	a.URLDepth = 1
	a.IFrame = 1

	b := config.FeatureVector{URL: "http://192.168.0.1/x-y", Label: config.LabelPhishing}
	b.Domain = "192.168.0.1"
	b.HaveIP = 1
	b.DNSRecord, b.DomainAge, b.DomainEnd = 1, 1, 1
	return []config.FeatureVector{a, b}
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"Prefix/Suffix": "prefix_suffix",
		"https_Domain":  "https_domain",
		"URL_Depth":     "url_depth",
		"iFrame":        "iframe",
	}
	for in, want := range tests {
		if got := columnName(in); got != want {
			t.Errorf("columnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFeatureProps(t *testing.T) {
	props := featureProps(sampleRows()[1])
	if len(props) != len(config.FeatureNames)+1 {
		t.Fatalf("got %d props, want %d", len(props), len(config.FeatureNames)+1)
	}
	if props["have_ip"] != 1 || props["label"] != 1 || props["prefix_suffix"] != 0 {
		t.Errorf("unexpected props: %v", props)
	}
}

func TestGraphRows(t *testing.T) {
	rows := graphRows(sampleRows())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	first := rows[0].(map[string]any)
	if first["url"] != "http://example.com/a" || first["domain"] != "example.com" {
		t.Errorf("unexpected row: %v", first)
	}
	feats := first["features"].(map[string]any)
	if _, ok := feats["url"]; ok {
		t.Error("url must not be duplicated into node properties")
	}
	if feats["url_depth"] != 1 {
		t.Errorf("url_depth = %v, want 1", feats["url_depth"])
	}
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "features.db")

	sink, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer sink.Close(ctx)

	rows := sampleRows()
	if err := sink.Write(ctx, "run-1", rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Write(ctx, "run-2", rows[:1]); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := sink.Rows(ctx, "run-1")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], rows[i])
		}
	}

	other, err := sink.Rows(ctx, "run-2")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("run-2 has %d rows, want 1", len(other))
	}
}
