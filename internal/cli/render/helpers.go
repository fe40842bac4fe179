package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle         = color.New(color.Faint)
	addressStyle       = color.New(color.FgWhite)
	nameStyle          = color.New(color.FgCyan, color.Bold)
	okStyle            = color.New(color.FgGreen)
	failStyle          = color.New(color.FgRed)
	warnStyle          = color.New(color.FgYellow)
)

// TableData is rows of pre-formatted cells
type TableData [][]string

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return failStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// WriteJSON writes v as indented JSON
func WriteJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// renderTable renders borderless left-aligned rows
func renderTable(header []string, rows TableData) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = len(header) > 0
	t.Style().Options.SeparateColumns = false
	t.Style().Box.PaddingRight = "   "
	t.Style().Format.Header = text.FormatDefault

	if len(header) > 0 {
		headerRow := make(table.Row, len(header))
		for i, h := range header {
			headerRow[i] = sectionHeaderStyle.Sprint(h)
		}
		t.AppendHeader(headerRow)
	}
	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}
		t.AppendRow(tableRow)
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})
	return t.Render()
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return relPath
}
