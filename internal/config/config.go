// Package config provides functionality for managing configuration options
// for the server using command-line flags, a JSON config file and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// TokenKey is the 64 hex character PASETO v4 symmetric key.
	TokenKey string `json:"token_key"`

	// TokenTTL is the lifetime of access tokens and their sessions.
	TokenTTL Duration `json:"token_ttl"`

	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval Duration `json:"cleanup_interval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// LogFile, when set, receives a rotated copy of the logs.
	LogFile string `json:"log_file"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// AllowedOrigins is a comma separated list of CORS origins.
	AllowedOrigins string `json:"allowed_origins"`

	// AuthRateLimit is the per-IP request rate allowed on auth routes.
	AuthRateLimit float64 `json:"auth_rate_limit"`
}

// Duration is a time.Duration that reads "15m" style strings from JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Origins splits AllowedOrigins into a list.
func (o *Options) Origins() []string {
	var out []string
	for _, origin := range strings.Split(o.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// options holds the current configuration values.
var options = defaults()

func defaults() *Options {
	return &Options{
		TokenTTL:        Duration{24 * time.Hour},
		CleanupInterval: Duration{time.Hour},
	}
}

// init initializes command-line flags and sets default values.
func init() {
	register(flag.CommandLine, options)
}

func register(fs *flag.FlagSet, o *Options) {
	fs.StringVar(&o.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&o.Config, "config", "config.json", "path to config file")
	fs.StringVar(&o.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&o.TokenKey, "k", "", "hex PASETO key (64 chars)")
	fs.Var(&o.TokenTTL, "ttl", "access token lifetime")
	fs.Var(&o.CleanupInterval, "cleanup", "expired session cleanup interval")
	fs.StringVar(&o.LogLevel, "l", "info", "log level")
	fs.StringVar(&o.LogFile, "log-file", "", "rotated log file path")
	fs.StringVar(&o.TLSCert, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&o.TLSKey, "tls-key", "", "TLS key file")
	fs.StringVar(&o.AllowedOrigins, "origins", "*", "comma separated CORS origins")
	fs.Float64Var(&o.AuthRateLimit, "auth-rps", 5, "auth requests per second per client IP")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()
	if err := apply(options); err != nil {
		log.Fatal(err)
	}
	return options
}

// apply layers the config file and then the environment over the flag values.
func apply(o *Options) error {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		o.DatabaseDSN = dsn
	}
	if key := os.Getenv("TOKEN_KEY"); key != "" {
		o.TokenKey = key
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		o.LogLevel = level
	}

	return nil
}
