package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds JIRA connection settings and the rule data that drives the report pipeline.
type Config struct {
	URL   string `yaml:"url"   mapstructure:"url"`
	Email string `yaml:"email" mapstructure:"email"`
	Token string `yaml:"token" mapstructure:"token"`

	Project               string `yaml:"project"         mapstructure:"project"`
	ReportDays            int    `yaml:"report_days"     mapstructure:"report_days"`
	PageSize              int    `yaml:"page_size"       mapstructure:"page_size"`
	RequestTimeoutSeconds int    `yaml:"request_timeout" mapstructure:"request_timeout"`
	LogLevel              string `yaml:"log_level"       mapstructure:"log_level"`

	Cache      CacheConfig       `yaml:"cache"         mapstructure:"cache"`
	Report     ReportConfig      `yaml:"report"        mapstructure:"report"`
	Confluence ConfluenceConfig  `yaml:"confluence"    mapstructure:"confluence"`
	Rules      RulesConfig       `yaml:"rules"         mapstructure:"rules"`
	Templates  map[string]string `yaml:"jql_templates" mapstructure:"jql_templates"`
}

// CacheConfig controls the in-memory query cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"     mapstructure:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// ReportConfig controls report assembly.
type ReportConfig struct {
	Title     string `yaml:"title"      mapstructure:"title"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Weeks     int    `yaml:"weeks"      mapstructure:"weeks"`
	WeekDays  int    `yaml:"week_days"  mapstructure:"week_days"`
}

// ConfluenceConfig locates post-mortem pages.
type ConfluenceConfig struct {
	Space            string `yaml:"space"             mapstructure:"space"`
	PostmortemParent string `yaml:"postmortem_parent" mapstructure:"postmortem_parent"`
	Limit            int    `yaml:"limit"             mapstructure:"limit"`
}

// RulesConfig is the classification rule data. Order of AlertKeywords is significant.
// A priority_map set in the config file replaces the default map as a whole.
type RulesConfig struct {
	Clusters          []string          `yaml:"clusters"           mapstructure:"clusters"`
	Namespaces        []string          `yaml:"namespaces"         mapstructure:"namespaces"`
	ClusterPattern    string            `yaml:"cluster_pattern"    mapstructure:"cluster_pattern"`
	NamespacePattern  string            `yaml:"namespace_pattern"  mapstructure:"namespace_pattern"`
	PriorityMap       map[string]string `yaml:"priority_map"       mapstructure:"priority_map"`
	CancelledKeywords []string          `yaml:"cancelled_keywords" mapstructure:"cancelled_keywords"`
	ExcludedStatuses  []string          `yaml:"excluded_statuses"  mapstructure:"excluded_statuses"`
	DuplicateAssignee string            `yaml:"duplicate_assignee" mapstructure:"duplicate_assignee"`
	IgnoredAuthors    []string          `yaml:"ignored_authors"    mapstructure:"ignored_authors"`
	AlertKeywords     []KeywordRule     `yaml:"alert_keywords"     mapstructure:"alert_keywords"`
	UserRequestTypes  []string          `yaml:"user_request_types" mapstructure:"user_request_types"`
}

// KeywordRule maps a lower-case summary substring to an alert type label.
type KeywordRule struct {
	Match string `yaml:"match" mapstructure:"match"`
	Label string `yaml:"label" mapstructure:"label"`
}

// DefaultPath returns the default config file path (~/.jira-report.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jira-report.yaml"
	}
	return filepath.Join(home, ".jira-report.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path. A .env file in the
// working directory is loaded first; it never overrides variables already set.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	// Env var overrides
	v.BindEnv("url", "JIRA_URL")
	v.BindEnv("email", "JIRA_EMAIL")
	v.BindEnv("token", "JIRA_API_TOKEN", "JIRA_TOKEN")
	v.BindEnv("project", "JIRA_PROJECT")
	v.BindEnv("report_days", "REPORT_DAYS")
	v.BindEnv("page_size", "JIRA_PAGE_SIZE")
	v.BindEnv("request_timeout", "JIRA_REQUEST_TIMEOUT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("cache.enabled", "ENABLE_CACHING")
	v.BindEnv("cache.ttl_seconds", "CACHE_TTL_SECONDS")
	v.BindEnv("report.title", "REPORT_TITLE")
	v.BindEnv("confluence.postmortem_parent", "CONFLUENCE_POSTMORTEM_PARENT")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only ignore file-not-found; other errors (e.g. parse) are real
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	// viper merges nested maps key by key with their defaults.
	if v.InConfig("rules.priority_map") {
		cfg.Rules.PriorityMap = v.GetStringMapString("rules.priority_map")
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any file or env var.
func Default() Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults are static values of the right shape; decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate checks that credentials are present and that the rule data is usable.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("JIRA URL is required (set in config file or JIRA_URL env var)")
	}
	if c.Email == "" {
		return fmt.Errorf("JIRA email is required (set in config file or JIRA_EMAIL env var)")
	}
	if c.Token == "" {
		return fmt.Errorf("JIRA token is required (set in config file or JIRA_API_TOKEN env var)")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return c.ValidateRules()
}

// ValidateRules checks only the rule data. Offline commands (legacy) need no credentials.
func (c Config) ValidateRules() error {
	if _, err := regexp.Compile(c.Rules.ClusterPattern); err != nil {
		return fmt.Errorf("invalid cluster_pattern: %w", err)
	}
	if _, err := regexp.Compile(c.Rules.NamespacePattern); err != nil {
		return fmt.Errorf("invalid namespace_pattern: %w", err)
	}
	if c.Report.Weeks <= 0 || c.Report.WeekDays <= 0 {
		return fmt.Errorf("report weeks and week_days must be positive, got %d and %d", c.Report.Weeks, c.Report.WeekDays)
	}
	for i, r := range c.Rules.AlertKeywords {
		if r.Match == "" || r.Label == "" {
			return fmt.Errorf("alert_keywords[%d]: match and label are required", i)
		}
	}
	return nil
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
