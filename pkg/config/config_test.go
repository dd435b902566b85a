package config

import (
	"encoding/json"
	"strconv"
	"testing"
)

func TestToCSVRowFollowsHeader(t *testing.T) {
	fv := FeatureVector{URL: "http://bit.ly/x", Label: LabelPhishing}
	fv.Domain = "bit.ly"
	fv.TinyURL = 1
	fv.URLLength = 0
	fv.DNSRecord = 1
	fv.WebForwards = 1

	row := fv.ToCSVRow()
	header := fv.GetCSVHeader()
	if len(row) != len(header) || len(header) != 18 {
		t.Fatalf("row has %d columns, header %d", len(row), len(header))
	}
	if row[0] != "bit.ly" {
		t.Errorf("Domain column = %q", row[0])
	}
	for i, v := range fv.Values() {
		if row[i+1] != strconv.Itoa(v) {
			t.Errorf("column %s = %s, Values() has %d", header[i+1], row[i+1], v)
		}
	}
}

func TestFeatureVectorJSONUsesColumnNames(t *testing.T) {
	fv := FeatureVector{URL: "http://example.com"}
	fv.PrefixSuffix = 1
	data, err := json.Marshal(fv)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, name := range FeatureNames {
		if _, ok := m[name]; !ok {
			t.Errorf("JSON is missing %q", name)
		}
	}
	if m["Prefix/Suffix"] != float64(1) || m["url"] != "http://example.com" {
		t.Errorf("unexpected JSON: %s", data)
	}
}
