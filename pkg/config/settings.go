package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings controls a dataset run. It is read from YAML, then environment
// variables (optionally from a .env file), then command line flags.
type Settings struct {
	Input struct {
		PhishingSource      string `yaml:"phishing_source"`
		LegitimateSource    string `yaml:"legitimate_source"`
		LegitimateHasHeader bool   `yaml:"legitimate_has_header"`
		RequireVerified     bool   `yaml:"require_verified"`
		SampleSize          int    `yaml:"sample_size"`
		Seed                uint64 `yaml:"seed"`
	} `yaml:"input"`

	Output struct {
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"output"`

	Network struct {
		HTTPTimeout        time.Duration `yaml:"http_timeout"`
		WhoisTimeout       time.Duration `yaml:"whois_timeout"`
		URLTimeout         time.Duration `yaml:"url_timeout"`
		RequestsPerSecond  float64       `yaml:"requests_per_second"`
		InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
		UserAgent          string        `yaml:"user_agent"`
		DNSPrecheck        bool          `yaml:"dns_precheck"`
		Resolver           string        `yaml:"resolver"`
	} `yaml:"network"`

	Rank struct {
		Provider string `yaml:"provider"` // alexa, list or none
		Endpoint string `yaml:"endpoint"`
		ListPath string `yaml:"list_path"`
	} `yaml:"rank"`

	Neo4j struct {
		URI      string `yaml:"uri"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"neo4j"`

	Workers    int      `yaml:"workers"`
	Shorteners []string `yaml:"shorteners,omitempty"` // empty means the built-in list
}

const (
	RankProviderAlexa = "alexa"
	RankProviderList  = "list"
	RankProviderNone  = "none"
)

// DefaultSettings describes the reference collection run: 5000 URLs from each
// source, seed 12, sequential processing.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.Input.PhishingSource = "online-valid.csv"
	s.Input.LegitimateSource = "Benign_list_big_final.csv"
	s.Input.LegitimateHasHeader = true
	s.Input.SampleSize = 5000
	s.Input.Seed = 12
	s.Output.Dir = "."
	s.Network.HTTPTimeout = 20 * time.Second
	s.Network.WhoisTimeout = 15 * time.Second
	s.Network.URLTimeout = 60 * time.Second
	s.Network.Resolver = "8.8.8.8:53"
	s.Rank.Provider = RankProviderAlexa
	s.Rank.Endpoint = "http://data.alexa.com/data"
	s.Workers = 1
	return s
}

// LoadSettings reads the YAML file at path on top of the defaults. An empty
// path skips the file. Environment overrides are applied afterwards.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("could not parse settings file %s: %w", path, err)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("PHISHFEAT_PHISHING_SOURCE", &s.Input.PhishingSource)
	setString("PHISHFEAT_LEGITIMATE_SOURCE", &s.Input.LegitimateSource)
	setString("PHISHFEAT_OUTPUT_DIR", &s.Output.Dir)
	setString("PHISHFEAT_SQLITE_PATH", &s.Output.SQLitePath)
	setString("PHISHFEAT_RANK_LIST", &s.Rank.ListPath)
	setString("NEO4J_URI", &s.Neo4j.URI)
	setString("NEO4J_USER", &s.Neo4j.User)
	setString("NEO4J_PASSWORD", &s.Neo4j.Password)
	setString("NEO4J_DATABASE", &s.Neo4j.Database)

	if v := os.Getenv("PHISHFEAT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PHISHFEAT_WORKERS: %w", err)
		}
		s.Workers = n
	}
	return nil
}

// Validate reports settings that cannot produce a run.
func (s *Settings) Validate() error {
	var errs []error
	if s.Input.SampleSize < 0 {
		errs = append(errs, fmt.Errorf("sample_size must be >= 0, got %d", s.Input.SampleSize))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", s.Workers))
	}
	if s.Network.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must be >= 0"))
	}
	switch s.Rank.Provider {
	case RankProviderAlexa, RankProviderNone:
	case RankProviderList:
		if s.Rank.ListPath == "" {
			errs = append(errs, fmt.Errorf("rank provider %q needs list_path", RankProviderList))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rank provider %q", s.Rank.Provider))
	}
	return errors.Join(errs...)
}

// WriteDefaultSettings writes the default settings as YAML to path.
func WriteDefaultSettings(path string) error {
	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("could not encode default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write settings file: %w", err)
	}
	return nil
}
