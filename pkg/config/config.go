// Package config wraps viper with functional options and typed helpers so
// client applications can assemble settings from defaults, files, env vars,
// flags and .env files with one call.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the wrapper around viper with extra helpers.
type Config struct {
	*viper.Viper

	sensitiveKeys map[string]struct{}
	onChange      func()
}

// Option is a functional option for New.
type Option func(*Config) error

// New creates a Config instance. Use options to customize behavior.
// Example:
//
//	cfg := config.New(
//	  config.WithDefaults(map[string]any{"api.base_url": "https://api.example.com/"}),
//	  config.WithFile("config.yaml"),
//	  config.WithEnv("APP"),
//	)
func New(opts ...Option) *Config {
	v := viper.New()
	cfg := &Config{
		Viper:         v,
		sensitiveKeys: map[string]struct{}{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			log.Fatalf("config: applying option failed: %v", err)
		}
	}

	// Non-fatal: the caller may rely on env/flags/defaults only.
	if err := cfg.readConfigIfPossible(); err != nil {
		log.Printf("config: read config warning: %v", err)
	}

	return cfg
}

func (c *Config) readConfigIfPossible() error {
	if c.ConfigFileUsed() != "" {
		return c.ReadInConfig()
	}
	// No explicit file: still attempt a read in case name/paths were set.
	return c.ReadInConfig()
}

/* ---------------------------
   Options
----------------------------*/

// WithDefaults sets default values (applied first).
func WithDefaults(defaults map[string]any) Option {
	return func(c *Config) error {
		for k, v := range defaults {
			c.SetDefault(k, v)
		}
		return nil
	}
}

// WithFile sets an exact config file; the extension determines the format.
func WithFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		c.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			c.SetConfigType(ext)
		}
		return nil
	}
}

// WithConfigNamePaths sets the config name (without extension) and search paths.
func WithConfigNamePaths(name string, paths ...string) Option {
	return func(c *Config) error {
		if name != "" {
			c.SetConfigName(name)
		}
		if len(paths) == 0 {
			paths = []string{".", "./env", "/etc/rest-lab"}
		}
		for _, p := range paths {
			c.AddConfigPath(p)
		}
		return nil
	}
}

// WithEnv enables environment variable overrides. prefix "APP" means
// APP_API_BASE_URL overrides api.base_url.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if prefix != "" {
			c.SetEnvPrefix(prefix)
		}
		c.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		c.AutomaticEnv()
		return nil
	}
}

// WithPFlags binds a pflag.FlagSet to viper. Nil binds the default command line.
// The application defines the flags; this only binds whatever is present.
func WithPFlags(flags *pflag.FlagSet) Option {
	return func(c *Config) error {
		if flags == nil {
			flags = pflag.CommandLine
		}
		return c.BindPFlags(flags)
	}
}

// WithAutoPFlags registers the common client flags and binds the command
// line. Use WithPFlags for full control.
func WithAutoPFlags() Option {
	return func(c *Config) error {
		pflag.String("api.base_url", "", "backend base URL")
		pflag.Duration("api.timeout", 0, "per-attempt request timeout")
		pflag.Bool("api.enable_logs", false, "log request/response detail")
		pflag.String("log.level", "", "log level")
		pflag.Parse()
		return WithPFlags(pflag.CommandLine)(c)
	}
}

// WithDotEnv reads key=val lines from a .env file and merges them in.
// A missing file is not an error.
func WithDotEnv(path string) Option {
	return func(c *Config) error {
		if path == "" {
			path = ".env"
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
		envV := viper.New()
		envV.SetConfigFile(path)
		envV.SetConfigType("env")
		if err := envV.ReadInConfig(); err != nil {
			return err
		}
		for _, k := range envV.AllKeys() {
			c.Set(k, envV.Get(k))
		}
		return nil
	}
}

// WithWatch enables hot-reload. onChange runs after a successful reload.
func WithWatch(onChange func()) Option {
	return func(c *Config) error {
		c.WatchConfig()
		c.onChange = onChange
		c.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("config: file changed: %s", e.Name)
			if c.onChange != nil {
				c.onChange()
			}
		})
		return nil
	}
}

// WithSensitiveKeys registers keys redacted by MaskedSettings/Print.
func WithSensitiveKeys(keys ...string) Option {
	return func(c *Config) error {
		for _, k := range keys {
			c.sensitiveKeys[k] = struct{}{}
		}
		return nil
	}
}

/* ---------------------------
   Typed getters with defaults
----------------------------*/

// GetStringD returns the string at key or def.
func (c *Config) GetStringD(key, def string) string {
	if val := c.GetString(key); val != "" {
		return val
	}
	return def
}

// GetIntD returns the int at key or def.
func (c *Config) GetIntD(key string, def int) int {
	if c.IsSet(key) {
		return c.GetInt(key)
	}
	return def
}

// GetBoolD returns the bool at key or def.
func (c *Config) GetBoolD(key string, def bool) bool {
	if c.IsSet(key) {
		return c.GetBool(key)
	}
	return def
}

// GetDurationD returns the duration at key or def.
func (c *Config) GetDurationD(key string, def time.Duration) time.Duration {
	if c.IsSet(key) {
		return c.GetDuration(key)
	}
	return def
}

/* ---------------------------
   Validation & utilities
----------------------------*/

// ValidateRequired ensures keys exist and are non-empty.
func (c *Config) ValidateRequired(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !c.IsSet(k) || c.GetString(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %v", strings.Join(missing, ", "))
	}
	return nil
}

// MaskedSettings returns AllSettings with sensitive keys redacted.
func (c *Config) MaskedSettings() map[string]any {
	all := c.AllSettings()
	redacted := map[string]any{}
	for k, v := range all {
		if _, ok := c.sensitiveKeys[k]; ok {
			redacted[k] = "***REDACTED***"
		} else {
			redacted[k] = v
		}
	}
	return redacted
}
