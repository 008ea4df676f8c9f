// Package config loads scraper settings from an optional YAML file with
// CASESCRAPE_* environment overrides.
package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/casescrape"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CASESCRAPE_DELAY.
const EnvPrefix = "CASESCRAPE"

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Default output file names per format, relative to the output root.
const (
	DefaultCSVFile    = "ultrasound_cases_detailed.csv"
	DefaultSQLiteFile = "casescrape.db"
)

// Config holds all settings of a scraper run.
type Config struct {
	SiteURL       string        `mapstructure:"site_url"`
	OutputRoot    string        `mapstructure:"output_root"`
	OutputFile    string        `mapstructure:"output_file"`
	Format        string        `mapstructure:"format"`
	Delay         time.Duration `mapstructure:"delay"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	AssetTimeout  time.Duration `mapstructure:"asset_timeout"`
	AssetRPS      float64       `mapstructure:"asset_rps"`
	MaxPages      int           `mapstructure:"max_pages"`
	Wait          string        `mapstructure:"wait"`
	Headless      bool          `mapstructure:"headless"`
}

// Load reads the YAML file at path, if any, over the defaults and applies
// environment overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, casescrape.Errorf(casescrape.ECONFIG, "reading config file %s: %v", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, casescrape.Errorf(casescrape.ECONFIG, "decoding config: %v", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site_url", "https://www.ultrasoundcases.info/")
	v.SetDefault("output_root", ".")
	v.SetDefault("output_file", "")
	v.SetDefault("format", FormatCSV)
	v.SetDefault("delay", 2*time.Second)
	v.SetDefault("render_timeout", 60*time.Second)
	v.SetDefault("asset_timeout", 30*time.Second)
	v.SetDefault("asset_rps", 2.0)
	v.SetDefault("max_pages", 75)
	v.SetDefault("wait", string(casescrape.WaitNetworkIdle))
	v.SetDefault("headless", true)
}

// Validate reports the first invalid setting as an ECONFIG error.
func (c *Config) Validate() error {
	u, err := url.Parse(c.SiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return casescrape.Errorf(casescrape.ECONFIG, "site_url must be an absolute http(s) URL: %q", c.SiteURL)
	}
	if c.OutputRoot == "" {
		return casescrape.Errorf(casescrape.ECONFIG, "output_root required")
	}
	switch c.Format {
	case FormatCSV, FormatSQLite:
	default:
		return casescrape.Errorf(casescrape.ECONFIG, "format must be %q or %q, got %q", FormatCSV, FormatSQLite, c.Format)
	}
	switch casescrape.WaitCondition(c.Wait) {
	case casescrape.WaitNetworkIdle, casescrape.WaitLoad:
	default:
		return casescrape.Errorf(casescrape.ECONFIG, "wait must be %q or %q, got %q", casescrape.WaitNetworkIdle, casescrape.WaitLoad, c.Wait)
	}
	switch {
	case c.Delay < 0:
		return casescrape.Errorf(casescrape.ECONFIG, "delay must not be negative")
	case c.RenderTimeout <= 0:
		return casescrape.Errorf(casescrape.ECONFIG, "render_timeout must be positive")
	case c.AssetTimeout <= 0:
		return casescrape.Errorf(casescrape.ECONFIG, "asset_timeout must be positive")
	case c.AssetRPS <= 0:
		return casescrape.Errorf(casescrape.ECONFIG, "asset_rps must be positive")
	case c.MaxPages < 1:
		return casescrape.Errorf(casescrape.ECONFIG, "max_pages must be at least 1")
	}
	return nil
}

// WaitCondition returns the configured page wait condition.
func (c *Config) WaitCondition() casescrape.WaitCondition {
	return casescrape.WaitCondition(c.Wait)
}

// OutputPath returns OutputFile resolved against OutputRoot. An empty
// OutputFile selects the default file name of the configured format.
func (c *Config) OutputPath() string {
	name := c.OutputFile
	if name == "" {
		name = DefaultCSVFile
		if c.Format == FormatSQLite {
			name = DefaultSQLiteFile
		}
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputRoot, name)
}
