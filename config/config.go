package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // japanese-chat
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type FileStorage struct {
	DataDir string `yaml:"dataDir"`
}

type PostgresStorage struct {
	DSN string `yaml:"dsn"`
}

type Storage struct {
	Backend  string          `yaml:"backend"` // file|postgres
	File     FileStorage     `yaml:"file"`
	Postgres PostgresStorage `yaml:"postgres"`
}

type Presence struct {
	LogoutGrace     string `yaml:"logoutGrace"`     // e.g. 2s
	RoomDeleteGrace string `yaml:"roomDeleteGrace"` // e.g. 10s
}

type Security struct {
	JWTSecret     string `yaml:"jwtSecret"`
	AdminID       string `yaml:"adminId"`
	AdminPassword string `yaml:"adminPassword"`
	BcryptCost    int    `yaml:"bcryptCost"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Storage  Storage  `yaml:"storage"`
	Presence Presence `yaml:"presence"`
	Security Security `yaml:"security"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3000"
	}
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = "file"
	case "file", "postgres":
	default:
		return errors.New("storage.backend must be file or postgres")
	}
	if c.Storage.Backend == "postgres" && c.Storage.Postgres.DSN == "" {
		return errors.New("storage.postgres.dsn is required")
	}
	if c.Storage.File.DataDir == "" {
		c.Storage.File.DataDir = "./data"
	}
	if c.Security.JWTSecret == "" {
		return errors.New("security.jwtSecret is required")
	}
	if c.Security.AdminID == "" {
		c.Security.AdminID = "admin"
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "japanese-chat"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

// LogoutGrace is the delay between a user's last connection dropping and
// the logout broadcast.
func (c *Config) LogoutGrace() time.Duration {
	return parseDurationOr(2*time.Second, c.Presence.LogoutGrace)
}

// RoomDeleteGrace is the delay between a room emptying implicitly and its
// deletion.
func (c *Config) RoomDeleteGrace() time.Duration {
	return parseDurationOr(10*time.Second, c.Presence.RoomDeleteGrace)
}

func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
