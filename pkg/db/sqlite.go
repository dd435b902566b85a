package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"phishfeatures/pkg/config"

	_ "modernc.org/sqlite"
)

const sqliteTable = "url_features"

// SQLiteSink appends rows to a url_features table.
type SQLiteSink struct {
	db      *sql.DB
	columns []string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA encoding = 'UTF-8'"); err != nil {
		db.Close()
		return nil, err
	}

	columns := []string{"domain"}
	for _, name := range config.FeatureNames[1:] {
		columns = append(columns, columnName(name))
	}

	var defs []string
	for _, c := range columns[1:] {
		defs = append(defs, c+" INTEGER NOT NULL")
	}
	createStmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    url TEXT NOT NULL,
    domain TEXT,
    %s,
    created_at TEXT NOT NULL
);
`, sqliteTable, strings.Join(defs, ",\n    "))
	indexStmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_run ON %s (run_id)", sqliteTable, sqliteTable)

	for _, stmt := range []string{createStmt, indexStmt} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("could not create %s table: %w", sqliteTable, err)
		}
	}

	return &SQLiteSink{db: db, columns: columns}, nil
}

// Write inserts rows in one transaction.
func (s *SQLiteSink) Write(ctx context.Context, runID string, rows []config.FeatureVector) error {
	cols := append([]string{"run_id", "url"}, s.columns...)
	cols = append(cols, "created_at")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sqliteTable, strings.Join(cols, ", "), placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, fv := range rows {
		args := []any{runID, fv.URL, fv.Domain}
		for _, v := range fv.Values() {
			args = append(args, v)
		}
		args = append(args, createdAt)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert of %q failed: %w", fv.URL, err)
		}
	}
	return tx.Commit()
}

// Rows reads back the rows of a run in insertion order.
func (s *SQLiteSink) Rows(ctx context.Context, runID string) ([]config.FeatureVector, error) {
	query := fmt.Sprintf("SELECT url, %s FROM %s WHERE run_id = ? ORDER BY id", strings.Join(s.columns, ", "), sqliteTable)
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []config.FeatureVector
	for rows.Next() {
		var fv config.FeatureVector
		dest := []any{
			&fv.URL, &fv.Domain,
			&fv.HaveIP, &fv.HaveAt, &fv.URLLength, &fv.URLDepth,
			&fv.Redirection, &fv.HTTPSDomain, &fv.TinyURL, &fv.PrefixSuffix,
			&fv.DNSRecord, &fv.WebTraffic, &fv.DomainAge, &fv.DomainEnd,
			&fv.IFrame, &fv.MouseOver, &fv.RightClick, &fv.WebForwards,
			&fv.Label,
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, fv)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close(context.Context) error {
	return s.db.Close()
}
