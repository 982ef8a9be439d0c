package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/cache"
	"github.com/dt-pm-tools/jira-report/internal/config"
	"github.com/dt-pm-tools/jira-report/internal/jira"
	"github.com/dt-pm-tools/jira-report/internal/logging"
	"github.com/dt-pm-tools/jira-report/internal/source"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
	logger    = zap.NewNop()
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "jira-report",
	Short: "Weekly operations report from JIRA service-desk tickets",
	Long: `Pulls service-desk tickets from JIRA, classifies them by priority, cluster,
namespace and alert type, and renders the weekly operations report.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jira-report.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// loadConfig loads and validates configuration and sets up the logger.
// Commands that only work on local files pass requireCreds=false.
func loadConfig(requireCreds bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	validate := cfg.ValidateRules
	if requireCreds {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'jira-report config' to set up credentials", err)
	}
	appConfig = cfg

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	l, err := logging.New(level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l
	return nil
}

// pipelineRules maps the rule section of the config onto the pipeline's rule data.
func pipelineRules(cfg config.Config) ticket.Rules {
	keywords := make([]ticket.Keyword, 0, len(cfg.Rules.AlertKeywords))
	for _, k := range cfg.Rules.AlertKeywords {
		keywords = append(keywords, ticket.Keyword{Match: k.Match, Label: k.Label})
	}
	return ticket.Rules{
		ClusterPattern:    cfg.Rules.ClusterPattern,
		NamespacePattern:  cfg.Rules.NamespacePattern,
		PriorityMap:       cfg.Rules.PriorityMap,
		CancelledKeywords: cfg.Rules.CancelledKeywords,
		AlertKeywords:     keywords,
		ExcludedStatuses:  cfg.Rules.ExcludedStatuses,
		DuplicateAssignee: cfg.Rules.DuplicateAssignee,
	}
}

// newSource wires the JIRA client, the optional query cache and the logger.
func newSource(cfg config.Config) *source.Source {
	var c *cache.Cache[[]ticket.Record]
	if cfg.Cache.Enabled {
		c = cache.New[[]ticket.Record](time.Duration(cfg.Cache.TTLSeconds)*time.Second, nil)
	}
	return source.New(jira.NewClient(cfg), source.OptionsFromConfig(cfg), c, logger)
}
