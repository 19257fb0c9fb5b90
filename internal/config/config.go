// Package config loads waterfall settings from .waterfall.yml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/viper"

	"github.com/phobologic/waterfall/internal/order"
)

// FileName is the config file looked up in the inspected root.
const FileName = ".waterfall.yml"

// ErrUnknownFormat is returned by ParseFormat for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Keys under the cop section, as viper stores them.
const (
	keyEnabled                = "enabled"
	keyAllowedRecursion       = "allowedrecursion"
	keySafeAutoCorrect        = "safeautocorrect"
	keySkipCyclicSiblingEdges = "skipcyclicsiblingedges"
	keyExclude                = "exclude"
)

var knownKeys = []string{
	keyEnabled,
	keyAllowedRecursion,
	keySafeAutoCorrect,
	keySkipCyclicSiblingEdges,
	keyExclude,
}

// Config is the loaded configuration.
type Config struct {
	// File is the config file that was read, or empty when defaults are used.
	File    string
	Enabled bool
	Order   order.Config
	Exclude []string

	excluded *ignore.GitIgnore
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Enabled: true, Order: order.DefaultConfig()}
}

// Load reads the config for root. An explicit path must exist; otherwise
// root/.waterfall.yml is used when present and defaults when not.
func Load(root, path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	def := order.DefaultConfig()
	v.SetDefault(key(keyEnabled), true)
	v.SetDefault(key(keyAllowedRecursion), def.AllowedRecursion)
	v.SetDefault(key(keySafeAutoCorrect), def.SafeAutoCorrect)
	v.SetDefault(key(keySkipCyclicSiblingEdges), def.SkipCyclicSiblingEdges)
	v.SetDefault(key(keyExclude), []string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	for k := range v.GetStringMap(order.CopName) {
		if !slices.Contains(knownKeys, k) {
			return nil, &ConfigError{Field: order.CopName + "." + k, Message: "unknown option"}
		}
	}

	cfg := &Config{
		File:    v.ConfigFileUsed(),
		Enabled: v.GetBool(key(keyEnabled)),
		Order: order.Config{
			AllowedRecursion:       v.GetBool(key(keyAllowedRecursion)),
			SafeAutoCorrect:        v.GetBool(key(keySafeAutoCorrect)),
			SkipCyclicSiblingEdges: v.GetBool(key(keySkipCyclicSiblingEdges)),
		},
		Exclude: v.GetStringSlice(key(keyExclude)),
	}
	if len(cfg.Exclude) > 0 {
		cfg.excluded = ignore.CompileIgnoreLines(cfg.Exclude...)
	}
	return cfg, nil
}

// Excluded reports whether rel, a slash- or OS-separated path relative to the
// inspected root, matches an Exclude pattern.
func (c *Config) Excluded(rel string) bool {
	if c.excluded == nil {
		return false
	}
	return c.excluded.MatchesPath(filepath.ToSlash(rel))
}

// Autocorrect reports whether corrections should be applied for the given
// flags: all applies every correction, safe only those marked safe.
func (c *Config) Autocorrect(safe, all bool) bool {
	return all || (safe && c.Order.SafeAutoCorrect)
}

func key(name string) string {
	return strings.ToLower(order.CopName) + "." + name
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// Format selects how offenses are printed.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOON Format = "toon"
)

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatTOON:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want text, json or toon)", ErrUnknownFormat, s)
}
