package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Floor enforced on the ProxySign client timeout
const MinProxySignTimeout = 5 * time.Second

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Security    SecurityConfig    `mapstructure:"security"`
	DocsMarshal DocsMarshalConfig `mapstructure:"docsmarshal"`
	ProxySign   ProxySignConfig   `mapstructure:"proxysign"`
	Watermark   WatermarkConfig   `mapstructure:"watermark"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type SecurityConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type DocsMarshalConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// SessionID is sent on every DMDocuments call
	SessionID            string `mapstructure:"session_id"`
	InputFieldExternalID string `mapstructure:"input_field_external_id"`
	// OutputFieldExternalID is optional; writes fall back to InputFieldExternalID
	OutputFieldExternalID string        `mapstructure:"output_field_external_id"`
	RaiseWorkflowEvents   bool          `mapstructure:"raise_workflow_events"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

// WriteFieldExternalID returns the field selector used for SetProfileDocument.
func (d *DocsMarshalConfig) WriteFieldExternalID() string {
	if strings.TrimSpace(d.OutputFieldExternalID) == "" {
		return d.InputFieldExternalID
	}
	return d.OutputFieldExternalID
}

type ProxySignConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// AutoContext is the path segment for automatic signing, e.g. "auto"
	AutoContext string        `mapstructure:"auto_context"`
	Language    string        `mapstructure:"language"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type WatermarkConfig struct {
	LogoPath            string  `mapstructure:"logo_path"`
	LeftMarginPt        float64 `mapstructure:"left_margin_pt"`
	BelowCenterOffsetPt float64 `mapstructure:"below_center_offset_pt"`
	FontSize            float64 `mapstructure:"font_size"`
	Opacity             float64 `mapstructure:"opacity"`
	IconSizePt          float64 `mapstructure:"icon_size_pt"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("app.name", "middleware-infocert")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.env", "production")
	viper.SetDefault("docsmarshal.timeout", 30)
	viper.SetDefault("docsmarshal.raise_workflow_events", true)
	viper.SetDefault("proxysign.auto_context", "auto")
	viper.SetDefault("proxysign.language", "it")
	viper.SetDefault("proxysign.timeout", 60)
	viper.SetDefault("watermark.left_margin_pt", 18)
	viper.SetDefault("watermark.below_center_offset_pt", -300)
	viper.SetDefault("watermark.font_size", 7.5)
	viper.SetDefault("watermark.opacity", 0.65)
	viper.SetDefault("watermark.icon_size_pt", 42)
	viper.SetDefault("database.driver", "postgres")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DocsMarshal.Timeout = normalizeTimeout(cfg.DocsMarshal.Timeout)
	cfg.ProxySign.Timeout = normalizeTimeout(cfg.ProxySign.Timeout)
	if cfg.ProxySign.Timeout < MinProxySignTimeout {
		cfg.ProxySign.Timeout = MinProxySignTimeout
	}

	return &cfg, nil
}

// normalizeTimeout accepts both "30s" style values, which viper decodes as a
// real duration, and bare integers, which decode as nanoseconds and are taken
// to mean seconds.
func normalizeTimeout(d time.Duration) time.Duration {
	if d > 0 && d < time.Millisecond {
		return d * time.Second
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
