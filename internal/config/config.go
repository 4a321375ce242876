// Package config loads crewplan settings from defaults, an optional YAML file
// and CREWPLAN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/spf13/viper"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	DBPath string

	LogLevel    string
	LogFormat   string
	LogUseCases bool

	// DefaultWindowDays is the look-ahead used by conflicts and board when no
	// window is given.
	DefaultWindowDays int

	// File is the config file that was read, empty when none was found.
	File string
}

var validLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Load reads configuration. An explicit path must exist; without one,
// crewplan.yaml is looked up in $HOME/.crewplan and the working directory and
// a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("crewplan")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".crewplan"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// CREWPLAN_DB is a short alias for CREWPLAN_DB_PATH. It is read by hand
	// because automatic env lookup would resolve it as the whole db section.
	if _, set := os.LookupEnv(envPrefix + "_DB_PATH"); !set {
		if alias, ok := os.LookupEnv(envPrefix + "_DB"); ok {
			v.Set("db.path", alias)
		}
	}

	cfg := &Config{
		DBPath:            v.GetString("db.path"),
		LogLevel:          strings.ToLower(v.GetString("log.level")),
		LogFormat:         strings.ToLower(v.GetString("log.format")),
		LogUseCases:       v.GetBool("log.use_cases"),
		DefaultWindowDays: v.GetInt("schedule.default_window_days"),
		File:              v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const envPrefix = "CREWPLAN"

// envKeys are the settings that environment variables may override.
var envKeys = []string{
	"db.path",
	"log.level",
	"log.format",
	"log.use_cases",
	"schedule.default_window_days",
}

// bindEnv binds each key to CREWPLAN_<KEY> with dots replaced by underscores.
func bindEnv(v *viper.Viper) {
	for _, key := range envKeys {
		name := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, name)
	}
}

func setDefaults(v *viper.Viper) {
	dbPath := filepath.Join(".crewplan", "crewplan.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".crewplan", "crewplan.db")
	}
	v.SetDefault("db.path", dbPath)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", FormatText)
	v.SetDefault("log.use_cases", false)
	v.SetDefault("schedule.default_window_days", 30)
}

// Validate returns every invalid setting joined into one error.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db.path must not be empty"))
	}
	if _, ok := validLevels[c.LogLevel]; !ok {
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.LogFormat))
	}
	if c.DefaultWindowDays <= 0 {
		errs = append(errs, fmt.Errorf("schedule.default_window_days must be positive (got %d)", c.DefaultWindowDays))
	}
	return errors.Join(errs...)
}

// InMemory reports whether the database lives only for this process.
func (c *Config) InMemory() bool {
	return c.DBPath == db.MemoryPath
}

// NewLogger builds the slog logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: validLevels[c.LogLevel]}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
