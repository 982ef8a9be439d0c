package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadSummary parses the frontmatter of a report produced by Marshal.
func ReadSummary(content string) (*Frontmatter, error) {
	fm, _, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var meta Frontmatter
	if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta.RunID == "" {
		return nil, fmt.Errorf("frontmatter missing required 'runId' field")
	}
	return &meta, nil
}

// splitFrontmatter separates YAML frontmatter from the body.
func splitFrontmatter(content string) (string, string, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "---") {
		return "", "", fmt.Errorf("no YAML frontmatter found (must start with ---)")
	}

	// Find the closing ---
	rest := content[3:]
	rest = strings.TrimLeft(rest, "\n\r")
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", fmt.Errorf("no closing --- for frontmatter")
	}

	fm := rest[:idx]
	body := rest[idx+4:]
	body = strings.TrimLeft(body, "\n\r")

	return fm, body, nil
}
