/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rewrite

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aymerick/raymond"
	"github.com/beevik/etree"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fulmenhq/tsneat/internal/assets"
	"github.com/fulmenhq/tsneat/internal/rules"
	"github.com/fulmenhq/tsneat/pkg/buildinfo"
)

// OutputFormat represents the format for run report output
type OutputFormat string

const (
	FormatMarkdown   OutputFormat = "markdown"
	FormatJSON       OutputFormat = "json"
	FormatHTML       OutputFormat = "html"
	FormatCheckstyle OutputFormat = "checkstyle"
)

// ParseFormat maps an --output flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatMarkdown, FormatJSON, FormatHTML, FormatCheckstyle:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Formatter renders a run Result
type Formatter struct {
	format     OutputFormat
	targetPath string
}

// NewFormatter creates a new report formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// SetTargetPath sets the target path shown in report headers
func (f *Formatter) SetTargetPath(targetPath string) {
	f.targetPath = targetPath
}

// FormatResult formats a run result according to the configured format
func (f *Formatter) FormatResult(res *Result) (string, error) {
	switch f.format {
	case FormatMarkdown:
		return f.formatMarkdown(res), nil
	case FormatJSON:
		return f.formatJSON(res)
	case FormatHTML:
		return f.formatHTML(res)
	case FormatCheckstyle:
		return f.formatCheckstyle(res)
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

// WriteResult writes a formatted result to the given writer
func (f *Formatter) WriteResult(w io.Writer, res *Result) error {
	output, err := f.FormatResult(res)
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(output))
	return err
}

func (f *Formatter) formatMarkdown(res *Result) string {
	var sb strings.Builder

	mode := "apply"
	if res.DryRun {
		mode = "dry-run"
	}

	sb.WriteString("# TypeScript Rewrite Report\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "**Tool:** tsneat\n")
	fmt.Fprintf(&sb, "**Version:** %s\n", buildinfo.BinaryVersion)
	if f.targetPath != "" {
		fmt.Fprintf(&sb, "**Target:** %s\n", f.targetPath)
	}
	fmt.Fprintf(&sb, "**Execution Time:** %v\n", res.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "**Mode:** %s\n\n", mode)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Files Processed:** %d\n", res.Stats.FilesProcessed)
	fmt.Fprintf(&sb, "- **Files Modified:** %d\n", res.Stats.FilesModified)
	fmt.Fprintf(&sb, "- **Total Changes:** %d\n\n", res.Stats.TotalChanges)

	if res.Interrupted {
		sb.WriteString("> **Note:** the run was interrupted; results are partial.\n\n")
	}

	if len(res.Files) == 0 {
		sb.WriteString("No occurrences of `any` required rewriting.\n")
		return sb.String()
	}

	sb.WriteString("## Changes by File\n\n")
	for _, file := range res.Files {
		fmt.Fprintf(&sb, "### %s (%s, %d changes)\n\n", file.Path, titleContext(file.Context), file.Total)
		sb.WriteString("| Line | Before | After |\n")
		sb.WriteString("|------|--------|-------|\n")
		for _, c := range file.Changes {
			fmt.Fprintf(&sb, "| %d | `%s` | `%s` |\n", c.Line, c.Before, c.After)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

type jsonReport struct {
	Tool          string       `json:"tool"`
	Version       string       `json:"version"`
	GeneratedAt   string       `json:"generated_at"`
	Target        string       `json:"target,omitempty"`
	ExecutionTime string       `json:"execution_time"`
	DryRun        bool         `json:"dry_run"`
	Interrupted   bool         `json:"interrupted,omitempty"`
	Stats         Stats        `json:"stats"`
	Files         []FileResult `json:"files,omitempty"`
}

func (f *Formatter) formatJSON(res *Result) (string, error) {
	doc := jsonReport{
		Tool:          "tsneat",
		Version:       buildinfo.BinaryVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Target:        f.targetPath,
		ExecutionTime: res.Duration.Round(time.Millisecond).String(),
		DryRun:        res.DryRun,
		Interrupted:   res.Interrupted,
		Stats:         res.Stats,
		Files:         res.Files,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

// Template data for the embedded handlebars report.
type templateProject struct {
	Name        string
	DisplayPath string
}

type templateMetadata struct {
	Version       string
	GeneratedAt   string
	ExecutionTime string
}

type templateSummary struct {
	FilesProcessed int
	FilesModified  int
	TotalChanges   int
	DryRun         bool
}

type templateFile struct {
	Filename string
	Count    int
	Changes  []Change
}

type templateData struct {
	Project  templateProject
	Metadata templateMetadata
	Summary  templateSummary
	Files    []templateFile
}

var helpersOnce sync.Once

// registerHelpers installs the comparison helpers the embedded template
// uses. raymond panics on duplicate registration, so this runs once per
// process.
func registerHelpers() {
	helpersOnce.Do(func() {
		raymond.RegisterHelper("gt", func(a, b interface{}) bool {
			aVal, errA := strconv.Atoi(fmt.Sprintf("%v", a))
			bVal, errB := strconv.Atoi(fmt.Sprintf("%v", b))
			if errA != nil || errB != nil {
				return false
			}
			return aVal > bVal
		})
	})
}

func (f *Formatter) formatHTML(res *Result) (string, error) {
	tpl, ok := assets.GetTemplate("report.html.tmpl")
	if !ok {
		return "", fmt.Errorf("report template not embedded")
	}

	name := "tsneat"
	display := f.targetPath
	if f.targetPath != "" {
		if abs, err := filepath.Abs(f.targetPath); err == nil {
			name = filepath.Base(abs)
			display = abs
		}
	}

	data := templateData{
		Project: templateProject{Name: name, DisplayPath: display},
		Metadata: templateMetadata{
			Version:       buildinfo.BinaryVersion,
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			ExecutionTime: res.Duration.Round(time.Millisecond).String(),
		},
		Summary: templateSummary{
			FilesProcessed: res.Stats.FilesProcessed,
			FilesModified:  res.Stats.FilesModified,
			TotalChanges:   res.Stats.TotalChanges,
			DryRun:         res.DryRun,
		},
	}
	for _, file := range res.Files {
		data.Files = append(data.Files, templateFile{
			Filename: file.Path,
			Count:    file.Total,
			Changes:  file.Changes,
		})
	}

	registerHelpers()
	out, err := raymond.Render(string(tpl), data)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return out, nil
}

func (f *Formatter) formatCheckstyle(res *Result) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	for _, file := range res.Files {
		fileEl := root.CreateElement("file")
		fileEl.CreateAttr("name", file.Path)
		for _, c := range file.Changes {
			errEl := fileEl.CreateElement("error")
			errEl.CreateAttr("line", strconv.Itoa(c.Line))
			errEl.CreateAttr("severity", "info")
			errEl.CreateAttr("message", fmt.Sprintf("%s -> %s", c.Before, c.After))
			errEl.CreateAttr("source", "tsneat.rewrite")
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize checkstyle report: %w", err)
	}
	return out, nil
}

// WriteBreakdown renders the per-context modified-file breakdown used
// by --verbose.
func WriteBreakdown(w io.Writer, res *Result) {
	type bucket struct {
		files   int
		changes int
	}
	byContext := make(map[rules.Context]*bucket)
	for _, file := range res.Files {
		b := byContext[file.Context]
		if b == nil {
			b = &bucket{}
			byContext[file.Context] = b
		}
		b.files++
		b.changes += file.Total
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Context", "Files", "Changes"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, ctx := range rules.Contexts() {
		b := byContext[ctx]
		if b == nil {
			continue
		}
		table.Append([]string{titleContext(ctx), fmt.Sprintf("%d", b.files), fmt.Sprintf("%d", b.changes)})
	}

	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", res.Stats.FilesModified),
		fmt.Sprintf("%d", res.Stats.TotalChanges),
	})

	table.Render()
}

func titleContext(ctx rules.Context) string {
	label := strings.ReplaceAll(string(ctx), "_", " ")
	return cases.Title(language.English).String(label)
}
