// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Places PlacesConfig `yaml:"places" mapstructure:"places"`
	Dir411 Dir411Config `yaml:"dir411" mapstructure:"dir411"`
	RDAP   RDAPConfig   `yaml:"rdap" mapstructure:"rdap"`
	Enrich EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
	Filter FilterConfig `yaml:"filter" mapstructure:"filter"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// Dir411Config holds 411 directory scraper settings.
type Dir411Config struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	MaxPages int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// RDAPConfig holds domain registration lookup settings.
type RDAPConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EnrichConfig holds the enrichment heuristic constants.
type EnrichConfig struct {
	RevenuePerEmployeeMin int64   `yaml:"revenue_per_employee_min" mapstructure:"revenue_per_employee_min"`
	RevenuePerEmployeeMax int64   `yaml:"revenue_per_employee_max" mapstructure:"revenue_per_employee_max"`
	KeywordConfidence     float64 `yaml:"keyword_confidence" mapstructure:"keyword_confidence"`
	DomainAgeConfidence   float64 `yaml:"domain_age_confidence" mapstructure:"domain_age_confidence"`
}

// FilterConfig holds the default filter criteria.
type FilterConfig struct {
	RevenueMin      int64    `yaml:"revenue_min" mapstructure:"revenue_min"`
	RevenueMax      int64    `yaml:"revenue_max" mapstructure:"revenue_max"`
	YearsMin        int      `yaml:"years_min" mapstructure:"years_min"`
	YearsMax        int      `yaml:"years_max" mapstructure:"years_max"`
	EmployeeMax     int      `yaml:"employee_max" mapstructure:"employee_max"`
	MinScore        float64  `yaml:"min_score" mapstructure:"min_score"`
	ExcludeKeywords []string `yaml:"exclude_keywords" mapstructure:"exclude_keywords"`
}

// SearchConfig configures searcher behavior.
type SearchConfig struct {
	DelayMillis  int     `yaml:"delay_millis" mapstructure:"delay_millis"`
	MaxResults   int     `yaml:"max_results" mapstructure:"max_results"`
	DefaultScore float64 `yaml:"default_score" mapstructure:"default_score"`
}

// ExportConfig configures output artifact writing.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig configures the read-only review server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Delay returns the fixed inter-request pause for sequential searcher calls.
func (s SearchConfig) Delay() time.Duration {
	return time.Duration(s.DelayMillis) * time.Millisecond
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "prospect.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("dir411.base_url", "https://www.411.ca")
	v.SetDefault("dir411.max_pages", 5)
	v.SetDefault("rdap.base_url", "https://rdap.org")
	v.SetDefault("rdap.timeout_secs", 10)
	v.SetDefault("enrich.revenue_per_employee_min", 50_000)
	v.SetDefault("enrich.revenue_per_employee_max", 100_000)
	v.SetDefault("enrich.keyword_confidence", 0.5)
	v.SetDefault("enrich.domain_age_confidence", 0.8)
	v.SetDefault("filter.revenue_min", 500_000)
	v.SetDefault("filter.revenue_max", 10_000_000)
	v.SetDefault("filter.years_min", 3)
	v.SetDefault("filter.years_max", 100)
	v.SetDefault("filter.employee_max", 200)
	v.SetDefault("filter.exclude_keywords", []string{
		"non-profit", "nonprofit", "charity", "franchise", "retail",
	})
	v.SetDefault("search.delay_millis", 1000)
	v.SetDefault("search.max_results", 60)
	v.SetDefault("search.default_score", 0.5)
	v.SetDefault("export.output_dir", "output")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
