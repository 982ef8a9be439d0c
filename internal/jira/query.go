package jira

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTemplate means a caller asked for a JQL template that is not configured.
// It signals a code/config mismatch and is never recovered from.
var ErrUnknownTemplate = errors.New("unknown JQL template")

// Templates maps template names to JQL with {placeholder} variables.
type Templates map[string]string

// Render substitutes vars into the named template.
func (t Templates) Render(key string, vars map[string]string) (string, error) {
	tmpl, ok := t[key]
	if !ok || tmpl == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}
