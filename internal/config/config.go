package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	CompaniesHouse CompaniesHouseConfig `yaml:"companies_house" mapstructure:"companies_house"`
	Search         SearchConfig         `yaml:"search" mapstructure:"search"`
	Geo            GeoConfig            `yaml:"geo" mapstructure:"geo"`
	Crawl          CrawlConfig          `yaml:"crawl" mapstructure:"crawl"`
	Score          ScoreConfig          `yaml:"score" mapstructure:"score"`
	Sources        SourcesConfig        `yaml:"sources" mapstructure:"sources"`
	Batch          BatchConfig          `yaml:"batch" mapstructure:"batch"`
	Server         ServerConfig         `yaml:"server" mapstructure:"server"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// CompaniesHouseConfig holds UK registry API settings.
type CompaniesHouseConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SearchConfig holds web search API settings.
type SearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Count   int    `yaml:"count" mapstructure:"count"`
}

// GeoConfig configures postcode resolution.
type GeoConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	BasePostcode string `yaml:"base_postcode" mapstructure:"base_postcode"`
	CacheSize    int    `yaml:"cache_size" mapstructure:"cache_size"`
}

// CrawlConfig configures the website crawl stage.
type CrawlConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ScoreConfig configures lead scoring.
type ScoreConfig struct {
	WeightsFile string `yaml:"weights_file" mapstructure:"weights_file"`
}

// SourcesConfig toggles the optional enrichment sources.
type SourcesConfig struct {
	Whois      bool `yaml:"whois" mapstructure:"whois"`
	WebArchive bool `yaml:"web_archive" mapstructure:"web_archive"`
	Dorking    bool `yaml:"dorking" mapstructure:"dorking"`
	SocialScan bool `yaml:"social_scan" mapstructure:"social_scan"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency    int `yaml:"concurrency" mapstructure:"concurrency"`
	BatchSize      int `yaml:"batch_size" mapstructure:"batch_size"`
	BatchDelaySecs int `yaml:"batch_delay_secs" mapstructure:"batch_delay_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields a given mode needs. Modes are the command
// names: enrich, batch, serve, export, leads.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "enrich", "batch", "serve":
		if c.CompaniesHouse.Key == "" {
			errs = append(errs, "companies_house.key is required")
		}
		if c.Search.Key == "" {
			errs = append(errs, "search.key is required")
		}
	case "export", "leads":
		// Store-only commands.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required for the postgres driver")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 50 {
		errs = append(errs, "batch.concurrency must be between 1 and 50")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leads.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("companies_house.base_url", "https://api.company-information.service.gov.uk")
	v.SetDefault("companies_house.rate_limit", 2)
	v.SetDefault("search.base_url", "https://api.sells-search.dev")
	v.SetDefault("search.count", 10)
	v.SetDefault("geo.base_url", "https://api.postcodes.io")
	v.SetDefault("geo.cache_size", 1024)
	v.SetDefault("crawl.timeout_secs", 30)
	v.SetDefault("crawl.user_agent", "leadgen/1.0 (+https://sells-group.co.uk)")
	v.SetDefault("sources.whois", true)
	v.SetDefault("sources.web_archive", false)
	v.SetDefault("sources.dorking", false)
	v.SetDefault("sources.social_scan", true)
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.batch_size", 10)
	v.SetDefault("batch.batch_delay_secs", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
