package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Storage struct {
	Backend string `yaml:"backend"` // sqlite|file|memory
	Path    string `yaml:"path"`
}

type Server struct {
	Addr      string  `yaml:"addr"`
	DBPath    string  `yaml:"db_path"`
	UploadRPS float64 `yaml:"upload_rps"`
}

type Export struct {
	Format string `yaml:"format"` // csv|json|xlsx
	Out    string `yaml:"out"`
}

type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	Offline    bool          `yaml:"offline"`
	LocalCSV   string        `yaml:"local_csv"` // offline data source
	Follow     string        `yaml:"follow"`    // CSV file to tail for new leads
	Theme      Theme         `yaml:"theme"`
	Storage    Storage       `yaml:"storage"`
	Server     Server        `yaml:"server"`
	Export     Export        `yaml:"export"`

	// Internal
	File string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := dataDir()
	return &Config{
		APIBaseURL: "http://127.0.0.1:5000",
		Timeout:    30 * time.Second,
		Theme:      ThemeDark,
		Storage:    Storage{Backend: "sqlite", Path: filepath.Join(dir, "table.db")},
		Server: Server{
			Addr:      "127.0.0.1:5000",
			DBPath:    filepath.Join(dir, "applicants.db"),
			UploadRPS: 1,
		},
		Export: Export{Format: "csv"},
	}
}

func dataDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "crmdash")
	}
	return filepath.Join(os.TempDir(), "crmdash")
}

// DefaultFile is the config file looked up when none is given.
func DefaultFile() string { return filepath.Join(dataDir(), "config.yaml") }

// Load builds the configuration: defaults, then the YAML file, then CRMDASH_*
// environment variables, then flags that were set on fs. A missing file is
// only an error when it was named explicitly.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		cfg.File = path
	}
	cfg.applyEnv()
	if fs != nil {
		if err := cfg.applyFlags(fs); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getenvDefault("CRMDASH_API_BASE_URL", c.APIBaseURL)
	c.Offline = getenvDefaultBool("CRMDASH_OFFLINE", c.Offline)
	c.LocalCSV = getenvDefault("CRMDASH_LOCAL_CSV", c.LocalCSV)
	c.Theme = Theme(getenvDefault("CRMDASH_THEME", string(c.Theme)))
	c.Storage.Backend = getenvDefault("CRMDASH_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Path = getenvDefault("CRMDASH_STORAGE_PATH", c.Storage.Path)
	c.Server.Addr = getenvDefault("CRMDASH_SERVER_ADDR", c.Server.Addr)
	c.Server.DBPath = getenvDefault("CRMDASH_DB_PATH", c.Server.DBPath)
	if v := os.Getenv("CRMDASH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// BindFlags registers the flags understood by Load on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("api-base-url", d.APIBaseURL, "backend base URL")
	fs.Duration("timeout", d.Timeout, "backend request timeout")
	fs.Bool("offline", false, "serve data from local CSV files instead of the backend")
	fs.String("local-csv", "", "CSV file loaded by refresh in offline mode")
	fs.String("follow", "", "tail this CSV file and append new leads")
	fs.String("theme", string(d.Theme), "theme: dark|light")
	fs.String("storage", d.Storage.Backend, "table storage backend: sqlite|file|memory")
	fs.String("storage-path", d.Storage.Path, "table storage location")
}

// BindServerFlags registers the serve command flags.
func BindServerFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("addr", d.Server.Addr, "listen address")
	fs.String("db", d.Server.DBPath, "applicant database path")
	fs.Float64("upload-rps", d.Server.UploadRPS, "uploads per second allowed per client")
}

// BindExportFlags registers the export command flags.
func BindExportFlags(fs *pflag.FlagSet) {
	fs.String("format", "csv", "export format: csv|json|xlsx")
	fs.String("out", "", "output path for export")
}

func (c *Config) applyFlags(fs *pflag.FlagSet) error {
	var firstErr error
	fs.Visit(func(f *pflag.Flag) {
		v := f.Value.String()
		var err error
		switch f.Name {
		case "api-base-url":
			c.APIBaseURL = v
		case "timeout":
			c.Timeout, err = time.ParseDuration(v)
		case "offline":
			c.Offline, err = strconv.ParseBool(v)
		case "local-csv":
			c.LocalCSV = v
		case "follow":
			c.Follow = v
		case "theme":
			c.Theme = Theme(v)
		case "storage":
			c.Storage.Backend = v
		case "storage-path":
			c.Storage.Path = v
		case "addr":
			c.Server.Addr = v
		case "db":
			c.Server.DBPath = v
		case "upload-rps":
			c.Server.UploadRPS, err = strconv.ParseFloat(v, 64)
		case "format":
			c.Export.Format = v
		case "out":
			c.Export.Out = v
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("--%s: %w", f.Name, err)
		}
	})
	return firstErr
}

func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	switch c.Storage.Backend {
	case "sqlite", "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %s needs a path", c.Storage.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Export.Format {
	case "csv", "json", "xlsx":
	default:
		return fmt.Errorf("unknown export format %q", c.Export.Format)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("api=%s offline=%v storage=%s:%s theme=%s follow=%s", c.APIBaseURL, c.Offline, c.Storage.Backend, c.Storage.Path, c.Theme, c.Follow)
}
