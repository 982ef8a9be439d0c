package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure JIRA connection settings",
	Long: `Interactively set up JIRA URL, email, API token and project. Settings are saved to
~/.jira-report.yaml together with the current rule data, which can then be edited by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Existing values (or built-in defaults) become the prompt defaults
		cfg, err := config.Load(cfgFile)
		if err != nil {
			cfg = config.Default()
		}

		cfg.URL = prompt(reader, "JIRA URL", cfg.URL, "e.g., https://your-org.atlassian.net")
		cfg.Email = prompt(reader, "Email", cfg.Email, "")
		cfg.Project = prompt(reader, "Project key", cfg.Project, "")

		// Token (masked input)
		fmt.Print("API Token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		if token := strings.TrimSpace(string(tokenBytes)); token != "" {
			cfg.Token = token
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func prompt(reader *bufio.Reader, label, current, hint string) string {
	switch {
	case current != "":
		fmt.Printf("%s [%s]: ", label, current)
	case hint != "":
		fmt.Printf("%s (%s): ", label, hint)
	default:
		fmt.Printf("%s: ", label)
	}
	value, _ := reader.ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		return current
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)
}
