package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port"`
	ReadTimeoutSec    int      `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int      `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int      `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec"`
	MaxBodyBytes      int64    `mapstructure:"max_body_bytes"`
	RateLimitRPS      float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst    int      `mapstructure:"rate_limit_burst"`
	RateLimitPerIP    bool     `mapstructure:"rate_limit_per_ip"`
	MaxConcurrent     int64    `mapstructure:"max_concurrent"`
	CORSOrigins       []string `mapstructure:"cors_origins"`
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	HTTP HTTP   `mapstructure:"http"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
)

// Auth selects how the caller's user id is obtained before the role check.
type Auth struct {
	Mode   string `mapstructure:"mode"`
	Header string `mapstructure:"header"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Usage struct {
	ExcludeAdmins bool `mapstructure:"exclude_admins"`
}

type Config struct {
	App   App   `mapstructure:"app"`
	Log   Log   `mapstructure:"log"`
	Auth  Auth  `mapstructure:"auth"`
	JWT   JWT   `mapstructure:"jwt"`
	DB    DB    `mapstructure:"db"`
	Usage Usage `mapstructure:"usage"`
}

const defaultPath = "./configs/config.local.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "roombooking")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.request_timeout_sec", 10)
	v.SetDefault("app.http.max_body_bytes", 1<<20)
	v.SetDefault("app.http.rate_limit_rps", 200)
	v.SetDefault("app.http.rate_limit_burst", 400)
	v.SetDefault("app.http.rate_limit_per_ip", false)
	v.SetDefault("app.http.max_concurrent", 300)
	v.SetDefault("app.http.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/roombooking.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("auth.mode", AuthModeHeader)
	v.SetDefault("auth.header", "user-id")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "roombooking")
	v.SetDefault("jwt.access_token_ttl_min", 60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:roombooking.db?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("usage.exclude_admins", false)
}

// Read loads path (or CONFIG_PATH, or the local default) with APP_* env
// overrides. A missing file is not an error when only defaults and env are used.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeHeader:
		if strings.TrimSpace(c.Auth.Header) == "" {
			return errors.New("auth.header must not be empty")
		}
	case AuthModeJWT:
		if c.JWT.Secret == "" {
			return errors.New("jwt.secret is required when auth.mode=jwt")
		}
	default:
		return fmt.Errorf("auth.mode must be %q or %q, got %q", AuthModeHeader, AuthModeJWT, c.Auth.Mode)
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("db.driver must be postgres, mysql or sqlite, got %q", c.DB.Driver)
	}
	return nil
}

// Load is Read for binaries: any error is fatal.
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}
