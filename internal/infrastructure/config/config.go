package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/erp/checkout-fields/internal/businessfields"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Log            LogConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	HTTP           HTTPConfig
	BusinessFields BusinessFieldsConfig
	VAT            VATConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings for the VAT result cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// BusinessFieldsConfig holds the extension's option table
type BusinessFieldsConfig struct {
	Enabled         bool
	NameRequirement string // required, optional
	IDRequirement   string // required, optional, no
	VATRequirement  string // required, optional, no
	TaxRequirement  string // required, optional, no
	ValidateEUVAT   bool
}

// VATConfig holds VAT validation service settings
type VATConfig struct {
	BaseURL        string
	TimeoutSeconds int
	CacheTTL       time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CHECKOUT_ prefix (e.g., CHECKOUT_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The master switch defaults on; all other defaults are applied after
	// the struct is built so zero values can be told apart from absent keys.
	v.SetDefault("business_fields.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		BusinessFields: BusinessFieldsConfig{
			Enabled:         v.GetBool("business_fields.enabled"),
			NameRequirement: v.GetString("business_fields.name_requirement"),
			IDRequirement:   v.GetString("business_fields.id_requirement"),
			VATRequirement:  v.GetString("business_fields.vat_requirement"),
			TaxRequirement:  v.GetString("business_fields.tax_requirement"),
			ValidateEUVAT:   v.GetBool("business_fields.validate_eu_vat"),
		},
		VAT: VATConfig{
			BaseURL:        v.GetString("vat.base_url"),
			TimeoutSeconds: v.GetInt("vat.timeout_seconds"),
			CacheTTL:       v.GetDuration("vat.cache_ttl"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "checkout-fields"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "checkout"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.BusinessFields.NameRequirement == "" {
		cfg.BusinessFields.NameRequirement = "required"
	}
	if cfg.BusinessFields.IDRequirement == "" {
		cfg.BusinessFields.IDRequirement = "optional"
	}
	if cfg.BusinessFields.VATRequirement == "" {
		cfg.BusinessFields.VATRequirement = "optional"
	}
	if cfg.BusinessFields.TaxRequirement == "" {
		cfg.BusinessFields.TaxRequirement = "optional"
	}
	if cfg.VAT.TimeoutSeconds == 0 {
		cfg.VAT.TimeoutSeconds = 10
	}
	if cfg.VAT.CacheTTL == 0 {
		cfg.VAT.CacheTTL = 24 * time.Hour
	}
	// VAT.BaseURL defaults inside the client so tests can point it at a stub
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if _, err := c.BusinessFields.Settings(); err != nil {
		return err
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// Settings converts the raw option table into extension settings
func (c *BusinessFieldsConfig) Settings() (businessfields.Settings, error) {
	name, err := businessfields.ParseRequirementLevel(c.NameRequirement)
	if err != nil {
		return businessfields.Settings{}, fmt.Errorf("business_fields.name_requirement: %w", err)
	}
	id, err := businessfields.ParseRequirementLevel(c.IDRequirement)
	if err != nil {
		return businessfields.Settings{}, fmt.Errorf("business_fields.id_requirement: %w", err)
	}
	vat, err := businessfields.ParseRequirementLevel(c.VATRequirement)
	if err != nil {
		return businessfields.Settings{}, fmt.Errorf("business_fields.vat_requirement: %w", err)
	}
	tax, err := businessfields.ParseRequirementLevel(c.TaxRequirement)
	if err != nil {
		return businessfields.Settings{}, fmt.Errorf("business_fields.tax_requirement: %w", err)
	}

	settings := businessfields.Settings{
		Enabled:         c.Enabled,
		NameRequirement: name,
		IDRequirement:   id,
		VATRequirement:  vat,
		TaxRequirement:  tax,
		ValidateEUVAT:   c.ValidateEUVAT,
	}
	if err := settings.Validate(); err != nil {
		return businessfields.Settings{}, err
	}
	return settings, nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port address for the Redis connection
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
