// Package config loads ldctl settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by ldctl,
// e.g. LDCTL_DIR for the dir key
const EnvPrefix = "LDCTL"

// Config keys
const (
	KeyDir          = "dir"
	KeyLogLevel     = "log_level"
	KeyTimeout      = "timeout"
	KeyPollInterval = "poll_interval"
	KeyConfig       = "config"
)

// Config holds the ldctl settings
type Config struct {
	// Dir is the LDPlayer installation directory containing ldconsole.exe
	Dir string `mapstructure:"dir"`

	// LogLevel is a logrus level name
	LogLevel string `mapstructure:"log_level"`

	// Timeout bounds each ldconsole invocation; zero disables it
	Timeout time.Duration `mapstructure:"timeout"`

	// PollInterval is the listing interval used by watch
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Dir:          "",
		LogLevel:     "info",
		Timeout:      0, // No timeout, ldconsole calls block until the manager exits
		PollInterval: 2 * time.Second,
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault(KeyDir, defaults.Dir)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyTimeout, defaults.Timeout)
	v.SetDefault(KeyPollInterval, defaults.PollInterval)
}

// Init prepares v to read the config file and LDCTL_* environment variables.
// A missing config file is not an error.
func Init(v *viper.Viper) error {
	SetDefaults(v)

	if cfgFile := v.GetString(KeyConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Dir returns the per-user configuration directory for ldctl
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".ldctl")
	}
	return filepath.Join(base, "ldctl")
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ValidationError describes one invalid setting
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every invalid setting found by Validate
type ValidationErrors []ValidationError

// Error joins the individual messages
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Dir == "" {
		errs = append(errs, ValidationError{Field: KeyDir, Message: "LDPlayer installation directory is required"})
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: KeyLogLevel, Message: err.Error()})
	}
	if c.Timeout < 0 {
		errs = append(errs, ValidationError{Field: KeyTimeout, Message: "must not be negative"})
	}
	if c.PollInterval < 0 {
		errs = append(errs, ValidationError{Field: KeyPollInterval, Message: "must not be negative"})
	}

	return errs
}

// Level returns the configured logrus level, falling back to info
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
