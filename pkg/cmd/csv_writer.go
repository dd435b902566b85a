package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	"phishfeatures/pkg/config"
)

// CSVWriter wraps the standard csv.Writer to provide a clean interface.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens filePath for appending, creating it if needed. The
// returned bool reports whether the file is new and so needs a header.
func NewCSVWriter(filePath string) (*CSVWriter, bool, error) {
	_, err := os.Stat(filePath)
	isNewFile := os.IsNotExist(err)

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open or create CSV file: %w", err)
	}

	return &CSVWriter{file: file, writer: csv.NewWriter(file)}, isNewFile, nil
}

// CreateCSVWriter truncates or creates filePath.
func CreateCSVWriter(filePath string) (*CSVWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	return &CSVWriter{file: file, writer: csv.NewWriter(file)}, nil
}

// WriteHeader writes the header row to the CSV file.
func (cw *CSVWriter) WriteHeader(header []string) error {
	return cw.writer.Write(header)
}

// WriteRow writes a single data row to the CSV file.
func (cw *CSVWriter) WriteRow(row []string) error {
	return cw.writer.Write(row)
}

// WriteVectors writes one row per feature vector.
func (cw *CSVWriter) WriteVectors(rows []config.FeatureVector) error {
	for _, fv := range rows {
		if err := cw.writer.Write(fv.ToCSVRow()); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered data to the file and closes it.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	flushErr := cw.writer.Error()
	closeErr := cw.file.Close()

	if flushErr != nil {
		return fmt.Errorf("error flushing CSV writer: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("error closing CSV file: %w", closeErr)
	}
	return nil
}
