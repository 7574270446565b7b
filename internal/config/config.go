package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Values come from the
// YAML config file, with the CANTEEN_* environment variables named in the
// envconfig tags taking precedence.
type Config struct {
	Port        int    `yaml:"port" envconfig:"CANTEEN_PORT"`
	MetricsPort int    `yaml:"metrics_port" envconfig:"CANTEEN_METRICS_PORT"`
	LogLevel    string `yaml:"log_level" envconfig:"CANTEEN_LOG_LEVEL"`

	Database struct {
		Dialect string `yaml:"dialect" envconfig:"CANTEEN_DB_DIALECT"`
		DSN     string `yaml:"dsn" envconfig:"CANTEEN_DB_DSN"`
	} `yaml:"database"`

	Auth struct {
		Secret        string `yaml:"secret" envconfig:"CANTEEN_AUTH_SECRET"`
		TokenTTLHours int    `yaml:"token_ttl_hours" envconfig:"CANTEEN_AUTH_TOKEN_TTL_HOURS"`
	} `yaml:"auth"`

	Canteen struct {
		CutoffHour    int    `yaml:"cutoff_hour" envconfig:"CANTEEN_CUTOFF_HOUR"`
		Timezone      string `yaml:"timezone" envconfig:"CANTEEN_TIMEZONE"`
		DefaultStatus string `yaml:"default_status" envconfig:"CANTEEN_DEFAULT_STATUS"`
		DefaultExtra  int    `yaml:"default_extra" envconfig:"CANTEEN_DEFAULT_EXTRA"`
	} `yaml:"canteen"`

	Roster []StaffSeed `yaml:"roster"`
}

// StaffSeed is one roster entry from configuration. A missing ID is filled
// in at provisioning time.
type StaffSeed struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Department string `yaml:"department"`
}

// Default returns the built-in configuration: SQLite storage, the 08:00
// cutoff, and everyone registered as eating when a day is first seeded.
func Default() *Config {
	cfg := &Config{}
	cfg.Port = 8080
	cfg.MetricsPort = 9090
	cfg.LogLevel = "info"
	cfg.Database.Dialect = "sqlite3"
	cfg.Database.DSN = "canteen.db"
	cfg.Auth.Secret = "dev-only-secret"
	cfg.Auth.TokenTTLHours = 24
	cfg.Canteen.CutoffHour = 8
	cfg.Canteen.Timezone = ""
	cfg.Canteen.DefaultStatus = "yes"
	cfg.Canteen.DefaultExtra = 0
	return cfg
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error so the service can
// run from environment alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := envconfig.Process("canteen", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured timezone, defaulting to system local.
func (c *Config) Location() (*time.Location, error) {
	if c.Canteen.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Canteen.Timezone)
}
