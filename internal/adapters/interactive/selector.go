package interactive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectScenario asks the user to pick one of paths
func (s *SelectorAdapter) SelectScenario(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no scenarios to select from")
	}
	if len(paths) == 1 {
		return paths[0], nil
	}
	if !s.Interactive() {
		return "", fmt.Errorf("%d scenarios found; pass one as an argument", len(paths))
	}

	options := formatScenarioOptions(paths)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, type to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select a scenario",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(paths),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return paths[index], nil
}

// Interactive reports whether prompts can be shown
func (s *SelectorAdapter) Interactive() bool {
	if s.config.NonInteractive || s.config.JSON {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// formatScenarioOptions shows the file name in bold and its directory in blue
func formatScenarioOptions(paths []string) []string {
	options := make([]string, len(paths))
	for i, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		options[i] = fmt.Sprintf("%s (%s)",
			color.New(color.FgWhite, color.Bold).Sprint(name),
			color.New(color.FgBlue).Sprint(filepath.Dir(path)))
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ScenarioSelector = (*SelectorAdapter)(nil)
