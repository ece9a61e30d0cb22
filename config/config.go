package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CatalogStatic  = "static"
	CatalogMariaDB = "mariadb"

	PolicyAllow  = "allow"
	PolicyReject = "reject"
)

type Config struct {
	AppEnv          string   `mapstructure:"APP_ENV"`
	Port            string   `mapstructure:"PORT"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	LogFormat       string   `mapstructure:"LOG_FORMAT"`
	Specialties     []string `mapstructure:"-"`
	DuplicatePolicy string   `mapstructure:"DUPLICATE_POLICY"`
	CatalogSource   string   `mapstructure:"CATALOG_SOURCE"`
	DBUser          string   `mapstructure:"DB_USER"`
	DBPassword      string   `mapstructure:"DB_PASSWORD"`
	DBHost          string   `mapstructure:"DB_HOST"`
	DBPort          string   `mapstructure:"DB_PORT"`
	DBName          string   `mapstructure:"DB_NAME"`
}

// Load reads .env (if present) into the environment and then resolves the
// configuration from environment variables with defaults.
func Load() (*Config, error) {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SPECIALTIES", "")
	v.SetDefault("DUPLICATE_POLICY", PolicyAllow)
	v.SetDefault("CATALOG_SOURCE", CatalogStatic)
	v.SetDefault("DB_PORT", "3306")

	for _, key := range []string{
		"APP_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT", "SPECIALTIES",
		"DUPLICATE_POLICY", "CATALOG_SOURCE",
		"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DuplicatePolicy = strings.ToLower(strings.TrimSpace(cfg.DuplicatePolicy))
	cfg.CatalogSource = strings.ToLower(strings.TrimSpace(cfg.CatalogSource))
	// Empty means the dispatch manager's built-in catalog.
	cfg.Specialties = splitList(v.GetString("SPECIALTIES"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "development"
}

// Validate rejects values that would otherwise surface as confusing failures
// at startup.
func (c *Config) Validate() error {
	switch c.DuplicatePolicy {
	case PolicyAllow, PolicyReject:
	default:
		return fmt.Errorf("DUPLICATE_POLICY must be %q or %q, got %q", PolicyAllow, PolicyReject, c.DuplicatePolicy)
	}
	switch c.CatalogSource {
	case CatalogStatic:
	case CatalogMariaDB:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("CATALOG_SOURCE=mariadb requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogStatic, CatalogMariaDB, c.CatalogSource)
	}
	return nil
}

// DSN builds the go-sql-driver/mysql data source name.
// Format: username:password@tcp(host:port)/dbname?parseTime=true
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
