package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/indiesemi/gate2jira/internal/duedate"
	"github.com/indiesemi/gate2jira/internal/gate"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "gate2jira"
	configFileName = "config.yaml"
)

// DefaultBaseURL is the Jira server gate checklists are imported into.
const DefaultBaseURL = "https://jira.indiesemi.com:8443"

// FieldNames are the display names of the custom fields a run requires.
type FieldNames struct {
	EpicLink string `yaml:"epic_link"`
	EpicName string `yaml:"epic_name"`
	Risk     string `yaml:"risk"`
}

// Config holds the settings shared by every command.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	DueDate     string        `yaml:"due_date"`     // duedate expression, "" leaves it unset
	SheetPrefix string        `yaml:"sheet_prefix"` // gate sheets start with this
	Fields      FieldNames    `yaml:"fields"`
	Layout      gate.Layout   `yaml:"layout"`
	Timeout     time.Duration `yaml:"timeout"`
	ListenAddr  string        `yaml:"listen_addr"`
	MaxUpload   int64         `yaml:"max_upload"` // bytes accepted by the web upload form
	LogFormat   string        `yaml:"log_format"` // "text" (default) or "json"
	LogLevel    string        `yaml:"log_level"`  // "debug", "info", "warn" (default), "error"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		DueDate:     "2025-12-31",
		SheetPrefix: "G",
		Fields: FieldNames{
			EpicLink: "Epic Link",
			EpicName: "Epic Name",
			Risk:     "Risk level",
		},
		Layout:     gate.DefaultLayout(),
		Timeout:    30 * time.Second,
		ListenAddr: ":8501",
		MaxUpload:  20 << 20,
		LogFormat:  "text",
		LogLevel:   "warn",
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/gate2jira/config.yaml or ~/.config/gate2jira/config.yaml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configDirName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// Load builds the configuration: defaults, then the YAML file at path
// (the default location when path is empty), then environment variables.
// A missing file at the default location is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GATE2JIRA_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("GATE2JIRA_DUE_DATE"); ok {
		cfg.DueDate = v
	}
	if v := os.Getenv("GATE2JIRA_SHEET_PREFIX"); v != "" {
		cfg.SheetPrefix = v
	}
	if v := os.Getenv("GATE2JIRA_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GATE2JIRA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("GATE2JIRA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("GATE2JIRA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the settings a run cannot work without.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if _, err := duedate.Resolve(c.DueDate); err != nil {
		return fmt.Errorf("invalid due_date: %w", err)
	}
	if strings.TrimSpace(c.Fields.EpicLink) == "" ||
		strings.TrimSpace(c.Fields.EpicName) == "" ||
		strings.TrimSpace(c.Fields.Risk) == "" {
		return errors.New("fields: epic_link, epic_name and risk names are required")
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	return nil
}

// ResolvedDueDate returns the due date for a run started now.
func (c Config) ResolvedDueDate() (string, error) {
	return duedate.Resolve(c.DueDate)
}

// Mapper returns the row mapper for this configuration.
func (c Config) Mapper(dueDate string) gate.Mapper {
	return gate.Mapper{Layout: c.Layout, BaseURL: c.BaseURL, DueDate: dueDate}
}
