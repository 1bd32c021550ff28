package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/kerim-dauren/urikit/internal/infrastructure/normalizer"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	listSeparator  = ","
	setSeparator   = ";"
	valueSeparator = "|"
)

// Config holds all library configuration
type Config struct {
	Normalization NormalizationConfig `json:"normalization"`
	Scope         ScopeConfig         `json:"scope"`
	Storage       StorageConfig       `json:"storage"`
	Logging       LoggingConfig       `json:"logging"`
}

// NormalizationConfig selects normalization flags and pattern options
type NormalizationConfig struct {
	Flags                 string   `json:"flags"`
	RemoveIndexFiles      bool     `json:"remove_index_files"`
	RemovePathFiles       []string `json:"remove_path_files"`
	RemoveQueryParameters []string `json:"remove_query_parameters"`
}

// ScopeConfig holds scheme and host equivalence sets
type ScopeConfig struct {
	EquivalentSchemes [][]string `json:"equivalent_schemes"`
	EquivalentHosts   [][]string `json:"equivalent_hosts"`
	PunycodeHosts     bool       `json:"punycode_hosts"`
}

// StorageConfig holds link store sizing
type StorageConfig struct {
	ExpectedLinks int `json:"expected_links"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ScopeRegistrar receives equivalence sets.
type ScopeRegistrar interface {
	AddEquivalentSchemes(schemes ...string)
	AddEquivalentHosts(hosts ...string)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Normalization: NormalizationConfig{
			Flags:                 getEnvString("NORMALIZE_FLAGS", "preserving"),
			RemoveIndexFiles:      getEnvBool("NORMALIZE_REMOVE_INDEX_FILES", false),
			RemovePathFiles:       getEnvList("NORMALIZE_REMOVE_PATH_FILES"),
			RemoveQueryParameters: getEnvList("NORMALIZE_REMOVE_QUERY_PARAMS"),
		},
		Scope: ScopeConfig{
			EquivalentSchemes: getEnvSets("SCOPE_EQUIVALENT_SCHEMES"),
			EquivalentHosts:   getEnvSets("SCOPE_EQUIVALENT_HOSTS"),
			PunycodeHosts:     getEnvBool("SCOPE_PUNYCODE_HOSTS", false),
		},
		Storage: StorageConfig{
			ExpectedLinks: getEnvInt("LINK_STORE_EXPECTED_LINKS", 1000000),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "text"),
		},
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate normalization configuration
	if _, err := normalizer.ParseFlags(c.Normalization.Flags); err != nil {
		return errtrace.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	if _, err := compilePatterns(c.Normalization.RemovePathFiles); err != nil {
		return errtrace.Wrap(fmt.Errorf("%w: invalid path file pattern: %w", ErrInvalidConfig, err))
	}

	if _, err := compilePatterns(c.Normalization.RemoveQueryParameters); err != nil {
		return errtrace.Wrap(fmt.Errorf("%w: invalid query parameter pattern: %w", ErrInvalidConfig, err))
	}

	// Validate scope configuration
	for i, set := range c.Scope.EquivalentSchemes {
		if len(set) < 2 {
			return errtrace.Wrap(fmt.Errorf("%w: equivalent scheme set %d needs at least two schemes", ErrInvalidConfig, i))
		}
	}

	for i, set := range c.Scope.EquivalentHosts {
		if len(set) < 2 {
			return errtrace.Wrap(fmt.Errorf("%w: equivalent host set %d needs at least two hosts", ErrInvalidConfig, i))
		}
	}

	// Validate storage configuration
	if c.Storage.ExpectedLinks <= 0 {
		return errtrace.Wrap(fmt.Errorf("%w: expected link count must be positive", ErrInvalidConfig))
	}

	// Validate logging configuration
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return errtrace.Wrap(err)
	}

	validFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validFormats[c.Logging.Format] {
		return errtrace.Wrap(fmt.Errorf("%w: invalid log format: %s", ErrInvalidConfig, c.Logging.Format))
	}

	return nil
}

// NormalizerFlags parses the configured flag names
func (c *Config) NormalizerFlags() (normalizer.Flags, error) {
	return errtrace.Wrap2(normalizer.ParseFlags(c.Normalization.Flags))
}

// NormalizerOptions compiles the configured patterns. A list left empty
// disables its rule.
func (c *Config) NormalizerOptions() (normalizer.Options, error) {
	var opts normalizer.Options

	pathFiles, err := compilePatterns(c.Normalization.RemovePathFiles)
	if err != nil {
		return opts, errtrace.Wrap(err)
	}
	if c.Normalization.RemoveIndexFiles {
		pathFiles = append(pathFiles, normalizer.IndexFilePattern)
	}
	if len(pathFiles) > 0 {
		opts.RemovePathFilesPatterns = pathFiles
	}

	queryParams, err := compilePatterns(c.Normalization.RemoveQueryParameters)
	if err != nil {
		return opts, errtrace.Wrap(err)
	}
	if len(queryParams) > 0 {
		opts.RemoveQueryParametersPatterns = queryParams
	}

	return opts, nil
}

// ApplyScope registers the configured equivalence sets with r
func (c *Config) ApplyScope(r ScopeRegistrar) {
	for _, set := range c.Scope.EquivalentSchemes {
		r.AddEquivalentSchemes(set...)
	}
	for _, set := range c.Scope.EquivalentHosts {
		r.AddEquivalentHosts(set...)
	}
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Utility functions for reading environment variables

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blank items
func getEnvList(key string) []string {
	return splitNonEmpty(os.Getenv(key), listSeparator)
}

// getEnvSets reads "a|b;c|d" as [[a b] [c d]]
func getEnvSets(key string) [][]string {
	var sets [][]string
	for _, group := range splitNonEmpty(os.Getenv(key), setSeparator) {
		if set := splitNonEmpty(group, valueSeparator); len(set) > 0 {
			sets = append(sets, set)
		}
	}
	return sets
}

func splitNonEmpty(value, sep string) []string {
	var items []string
	for _, item := range strings.Split(value, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
