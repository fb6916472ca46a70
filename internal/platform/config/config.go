// Package config arma la configuración del servicio en tres capas:
// defaults, archivo YAML opcional (CONFIG_FILE) y variables de entorno.
// Cada capa solo pisa lo que define.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	Port            string        `yaml:"-" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
	EnableSwagger   bool          `yaml:"enableSwagger" env:"HTTP_ENABLE_SWAGGER"`
}

// ListenAddr respeta PORT (convención de PaaS) por sobre Addr.
func (h HTTPConfig) ListenAddr() string {
	if p := strings.TrimSpace(h.Port); p != "" {
		return ":" + p
	}
	return h.Addr
}

type StoreConfig struct {
	// Driver: memory | postgres | sqlite
	Driver string `yaml:"driver" env:"STORE_DRIVER"`
	DSN    string `yaml:"dsn" env:"STORE_DSN"`
}

type LedgerConfig struct {
	// Driver: memory | bolt | remote
	Driver   string        `yaml:"driver" env:"LEDGER_DRIVER"`
	BoltPath string        `yaml:"boltPath" env:"LEDGER_BOLT_PATH"`
	URL      string        `yaml:"url" env:"LEDGER_URL"`
	Token    string        `yaml:"token" env:"LEDGER_TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"LEDGER_TIMEOUT"`
}

type AuthConfig struct {
	// Sin secreto el servicio corre en modo dev (X-Debug-User-ID).
	JWTSecret string        `yaml:"jwtSecret" env:"AUTH_JWT_SECRET"`
	Issuer    string        `yaml:"issuer" env:"AUTH_JWT_ISSUER"`
	Audience  string        `yaml:"audience" env:"AUTH_JWT_AUDIENCE"`
	Leeway    time.Duration `yaml:"leeway" env:"AUTH_JWT_LEEWAY"`
}

func (a AuthConfig) DevMode() bool {
	return strings.TrimSpace(a.JWTSecret) == ""
}

type ThrottleConfig struct {
	RequestsPerMinute float64 `yaml:"requestsPerMinute" env:"THROTTLE_RPM"`
	Burst             int     `yaml:"burst" env:"THROTTLE_BURST"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	App        string `yaml:"app" env:"APP_NAME"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"LOG_MAX_AGE_DAYS"`
}

type TelemetryConfig struct {
	ServiceName string `yaml:"serviceName" env:"OTEL_SERVICE_NAME"`
	// Endpoint OTLP/HTTP; vacío = sin tracing.
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_ENDPOINT"`
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Auth      AuthConfig      `yaml:"auth"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			EnableSwagger:   true,
		},
		Store:  StoreConfig{Driver: "memory"},
		Ledger: LedgerConfig{Driver: "memory", BoltPath: "ledger.db", Timeout: 5 * time.Second},
		Throttle: ThrottleConfig{
			RequestsPerMinute: 120,
			Burst:             20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "virtual-pet",
		},
		Telemetry: TelemetryConfig{ServiceName: "virtual-pet"},
	}
}

// Load aplica defaults, después path (si no está vacío) y por último el
// entorno. Load("") lee CONFIG_FILE si está definido.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path = strings.TrimSpace(path); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Ledger.Driver = strings.ToLower(strings.TrimSpace(c.Ledger.Driver))
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTP.ListenAddr() == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	switch c.Store.Driver {
	case "memory":
	case "postgres", "sqlite":
		if strings.TrimSpace(c.Store.DSN) == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}

	switch c.Ledger.Driver {
	case "memory":
	case "bolt":
		if strings.TrimSpace(c.Ledger.BoltPath) == "" {
			errs = append(errs, errors.New("ledger.boltPath is required for driver bolt"))
		}
	case "remote":
		if strings.TrimSpace(c.Ledger.URL) == "" {
			errs = append(errs, errors.New("ledger.url is required for driver remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ledger.driver %q", c.Ledger.Driver))
	}

	if c.Throttle.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("throttle.requestsPerMinute must be >= 0"))
	}

	return errors.Join(errs...)
}
