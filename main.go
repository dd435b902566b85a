package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"phishfeatures/pkg/cmd"
	"phishfeatures/pkg/config"
	"phishfeatures/pkg/db"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	log.SetOutput(os.Stderr)

	configPath := flag.String("config", "", "Path to a YAML settings file")
	initConfig := flag.String("init-config", "", "Write the default settings to this path and exit")
	phishSrc := flag.String("phish", "", "PhishTank CSV (path or URL); overrides the settings file")
	legitSrc := flag.String("legit", "", "Legitimate URL list (path or URL); overrides the settings file")
	sampleSize := flag.Int("n", -1, "Number of URLs to sample from each source")
	seed := flag.Int64("seed", -1, "Sampling seed")
	outDir := flag.String("out", "", "Directory for legitimate.csv, phishing.csv and urldata.csv")
	workers := flag.Int("w", 0, "Number of concurrent workers")
	rankList := flag.String("rank-list", "", "Use a local rank,domain list instead of the rank endpoint")
	sqlitePath := flag.String("sqlite", "", "Also store the rows in this SQLite database")
	useNeo4j := flag.Bool("neo4j", false, "Also store the rows in Neo4j (NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD)")
	urlStr := flag.String("url", "", "Extract the features of a single URL and exit")
	isPhishingFlag := flag.Bool("isphish", false, "When used with -url, label the URL as phishing")
	outputJSON := flag.Bool("opjs", true, "With -url, print the feature vector as JSON to stdout")
	saveCSV := flag.String("savecsv", "", "With -url, append the row to this CSV file")
	verbose := flag.Bool("v", false, "Log every failed lookup and fetch")
	flag.Parse()

	if *initConfig != "" {
		if err := config.WriteDefaultSettings(*initConfig); err != nil {
			log.Fatalf("Failed to write default settings: %v", err)
		}
		log.Printf("Default settings written to %s", *initConfig)
		return
	}

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	applyFlags(settings, *phishSrc, *legitSrc, *sampleSize, *seed, *outDir, *workers, *rankList, *sqlitePath)
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	extractor, err := cmd.NewExtractor(settings)
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
	}
	if *verbose {
		extractor.Logger = log.New(os.Stderr, "[extract] ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *urlStr != "" {
		label := config.LabelLegitimate
		if *isPhishingFlag {
			log.Println("NOTE: -isphish flag is active. This URL will be labeled as phishing.")
			label = config.LabelPhishing
		}
		if err := runSingle(ctx, extractor, config.URLRecord{URL: *urlStr, Label: label}, *outputJSON, *saveCSV); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := runDataset(ctx, extractor, settings, *useNeo4j); err != nil {
		log.Fatalf("%v", err)
	}
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(s *config.Settings, phish, legit string, n int, seed int64, out string, workers int, rankList, sqlitePath string) {
	if phish != "" {
		s.Input.PhishingSource = phish
	}
	if legit != "" {
		s.Input.LegitimateSource = legit
	}
	if n >= 0 {
		s.Input.SampleSize = n
	}
	if seed >= 0 {
		s.Input.Seed = uint64(seed)
	}
	if out != "" {
		s.Output.Dir = out
	}
	if workers > 0 {
		s.Workers = workers
	}
	if rankList != "" {
		s.Rank.Provider = config.RankProviderList
		s.Rank.ListPath = rankList
	}
	if sqlitePath != "" {
		s.Output.SQLitePath = sqlitePath
	}
}

func runSingle(ctx context.Context, e *cmd.Extractor, rec config.URLRecord, outputJSON bool, csvPath string) error {
	log.Printf("Starting in single URL mode: %s", rec.URL)
	fv := e.ExtractFeatures(ctx, rec)

	if outputJSON {
		jsonData, err := json.MarshalIndent(fv, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode features: %w", err)
		}
		fmt.Println(string(jsonData))
	}

	if csvPath != "" {
		writer, isNew, err := cmd.NewCSVWriter(csvPath)
		if err != nil {
			return fmt.Errorf("failed to initialize CSV writer: %w", err)
		}
		if isNew {
			writer.WriteHeader(fv.GetCSVHeader())
		}
		writer.WriteRow(fv.ToCSVRow())
		if err := writer.Close(); err != nil {
			return err
		}
		log.Printf("Saved features to %s", csvPath)
	}
	return nil
}

func runDataset(ctx context.Context, e *cmd.Extractor, s *config.Settings, useNeo4j bool) error {
	start := time.Now()
	runID := uuid.New().String()
	log.Printf("Starting dataset run %s", runID)

	phishURLs, err := cmd.LoadPhishingURLs(ctx, s.Input.PhishingSource, s.Input.RequireVerified)
	if err != nil {
		return fmt.Errorf("error reading phishing URLs: %w", err)
	}
	legitURLs, err := cmd.LoadLegitimateURLs(ctx, s.Input.LegitimateSource, s.Input.LegitimateHasHeader)
	if err != nil {
		return fmt.Errorf("error reading legitimate URLs: %w", err)
	}
	log.Printf("Loaded %d phishing and %d legitimate URLs", len(phishURLs), len(legitURLs))

	phishURLs = cmd.Sample(phishURLs, s.Input.SampleSize, s.Input.Seed)
	legitURLs = cmd.Sample(legitURLs, s.Input.SampleSize, s.Input.Seed)

	dataset, err := cmd.BuildDataset(ctx, e, legitURLs, phishURLs, s.Workers)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Output.Dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	if err := cmd.WriteDataset(s.Output.Dir, dataset); err != nil {
		return err
	}

	var sinks []db.Sink
	if s.Output.SQLitePath != "" {
		sink, err := db.OpenSQLite(s.Output.SQLitePath)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}
	if useNeo4j {
		sink, err := db.OpenNeo4j(ctx, s.Neo4j.URI, s.Neo4j.User, s.Neo4j.Password, s.Neo4j.Database)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}
	rows := dataset.Combined()
	for _, sink := range sinks {
		if err := sink.Write(ctx, runID, rows); err != nil {
			sink.Close(ctx)
			return err
		}
		if err := sink.Close(ctx); err != nil {
			log.Printf("Failed to close sink: %v", err)
		}
	}

	printSummary(s.Output.Dir, runID, dataset, time.Since(start))
	return nil
}

func printSummary(dir, runID string, d *cmd.Dataset, elapsed time.Duration) {
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	green.Fprintf(os.Stderr, "Dataset run %s finished in %s\n", runID, elapsed.Round(time.Second))
	cyan.Fprintf(os.Stderr, "  %-16s %d rows\n", cmd.LegitimateFile, len(d.Legitimate))
	cyan.Fprintf(os.Stderr, "  %-16s %d rows\n", cmd.PhishingFile, len(d.Phishing))
	cyan.Fprintf(os.Stderr, "  %-16s %d rows\n", cmd.CombinedFile, len(d.Legitimate)+len(d.Phishing))

	failed := 0
	for _, fv := range d.Combined() {
		if fv.DNSRecord == 1 {
			failed++
		}
	}
	if failed > 0 {
		yellow.Fprintf(os.Stderr, "  %d URLs had no registration record\n", failed)
	}
	yellow.Fprintf(os.Stderr, "  written to %s\n", filepath.Clean(dir))
}
