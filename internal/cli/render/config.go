package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "No local config at %s\n", getRelativePath(result.ConfigPath))
		fmt.Fprintln(r.out, "Defaults come from flags, PROXYFORGE_* variables and proxyforge.toml")
		return nil
	}

	fmt.Fprintln(r.out, "📋 Current config:")
	rows := make(TableData, 0, len(config.ValidConfigKeys()))
	for _, key := range config.ValidConfigKeys() {
		value := result.Config.Get(key)
		if value == "" {
			value = labelStyle.Sprint("(not set)")
		}
		rows = append(rows, []string{string(key), value})
	}
	fmt.Fprintln(r.out, renderTable(nil, rows))
	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.ConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to: %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.ConfigResult) error {
	if result.Previous == "" {
		fmt.Fprintf(r.out, "%s was not set\n", result.Key)
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (was %s)", result.Key, result.Previous)))
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
