// Package db persists dataset rows outside the CSV files.
package db

import (
	"context"

	"phishfeatures/pkg/config"
)

// Sink stores the rows of one run.
type Sink interface {
	Write(ctx context.Context, runID string, rows []config.FeatureVector) error
	Close(ctx context.Context) error
}

// featureProps maps a row to column/property names.
func featureProps(fv config.FeatureVector) map[string]any {
	props := map[string]any{
		"url":    fv.URL,
		"domain": fv.Domain,
	}
	for i, v := range fv.Values() {
		props[columnName(config.FeatureNames[i+1])] = v
	}
	return props
}

// columnName turns a CSV header into a SQL/Cypher-safe identifier.
func columnName(header string) string {
	b := make([]byte, 0, len(header))
	for i := 0; i < len(header); i++ {
		c := header[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b = append(b, c+('a'-'A'))
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	return string(b)
}
