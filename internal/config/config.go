package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration
const (
	EnvOutput   = "CTXGEN_OUTPUT"
	EnvLogLevel = "CTXGEN_LOG_LEVEL"
	EnvLogDir   = "CTXGEN_LOG_DIR"
	EnvInclude  = "CTXGEN_INCLUDE"
	EnvExclude  = "CTXGEN_EXCLUDE"
	EnvHistory  = "CTXGEN_HISTORY"
)

// DirName is the per-project directory holding config, logs and history
const DirName = ".ctxgen"

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every finished run
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents ctxgen configuration options
type Config struct {
	// Output is the artifact path, relative paths resolve against the working directory
	Output string `yaml:"output"`

	// IncludeSuffixes selects files whose name ends with one of the entries
	IncludeSuffixes []string `yaml:"include"`

	// ExcludePatterns are exact file or directory names to skip
	ExcludePatterns []string `yaml:"exclude"`

	// Sort orders candidates by relative path for reproducible output
	Sort bool `yaml:"sort"`

	// Interactive enables the terminal progress view when a TTY is attached
	Interactive bool `yaml:"interactive"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where logs will be written
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultIncludeSuffixes are the suffixes of a typical Android/Kotlin project
// plus common web and scripting files.
func DefaultIncludeSuffixes() []string {
	return []string{
		".kt", ".java", ".xml", ".gradle", ".kts", ".pro", ".md",
		".json", ".yml", ".yaml", ".py", ".js", ".html", ".css",
	}
}

// DefaultExcludePatterns are build outputs, IDE state, VCS directories and
// ctxgen's own state directory
func DefaultExcludePatterns() []string {
	return []string{
		".git", ".idea", "build", ".gradle", "gradle", "captures",
		"local.properties", ".DS_Store", "__pycache__", "node_modules",
		DirName,
	}
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Output:          "project_context.txt",
		IncludeSuffixes: DefaultIncludeSuffixes(),
		ExcludePatterns: DefaultExcludePatterns(),
		Sort:            false,
		Interactive:     true,
		LogLevel:        "info",
		LogDir:          filepath.Join(DirName, "logs"),
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(DirName, "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Presence decides for booleans and lists, so an explicit
	// "sort: false" or "exclude: []" overrides the default
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = normalizeLevel(fileCfg.LogLevel)
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if _, exists := rawMap["include"]; exists {
		cfg.IncludeSuffixes = fileCfg.IncludeSuffixes
	}
	if _, exists := rawMap["exclude"]; exists {
		cfg.ExcludePatterns = fileCfg.ExcludePatterns
	}
	if _, exists := rawMap["sort"]; exists {
		cfg.Sort = fileCfg.Sort
	}
	if _, exists := rawMap["interactive"]; exists {
		cfg.Interactive = fileCfg.Interactive
	}

	if historySection, exists := rawMap["history"]; exists && historySection != nil {
		historyMap, _ := historySection.(map[string]interface{})
		if _, exists := historyMap["enabled"]; exists {
			cfg.History.Enabled = fileCfg.History.Enabled
		}
		if _, exists := historyMap["db_path"]; exists {
			cfg.History.DBPath = fileCfg.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .ctxgen/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(PathInDir(dir))
}

// PathInDir returns the config file location for a project directory
func PathInDir(dir string) string {
	return filepath.Join(dir, DirName, "config.yaml")
}

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment are not overwritten.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides configuration values with CTXGEN_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvOutput); ok && v != "" {
		c.Output = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = normalizeLevel(v)
	}
	if v, ok := os.LookupEnv(EnvLogDir); ok && v != "" {
		c.LogDir = v
	}
	if v, ok := os.LookupEnv(EnvInclude); ok {
		c.IncludeSuffixes = ParseList(v)
	}
	if v, ok := os.LookupEnv(EnvExclude); ok {
		c.ExcludePatterns = ParseList(v)
	}
	if v, ok := os.LookupEnv(EnvHistory); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvHistory, v, err)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(output *string, include *string, exclude *string, sortCandidates *bool, logLevel *string, logDir *string, noHistory *bool) {
	if output != nil {
		c.Output = *output
	}
	if include != nil {
		c.IncludeSuffixes = ParseList(*include)
	}
	if exclude != nil {
		c.ExcludePatterns = ParseList(*exclude)
	}
	if sortCandidates != nil {
		c.Sort = *sortCandidates
	}
	if logLevel != nil {
		c.LogLevel = normalizeLevel(*logLevel)
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output cannot be empty")
	}

	if len(c.IncludeSuffixes) == 0 {
		return fmt.Errorf("include must list at least one suffix")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}

// normalizeLevel lowercases a log level so "DEBUG" and "debug" are equivalent
func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// ParseList splits a comma-separated list, trimming whitespace and dropping empty items
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
