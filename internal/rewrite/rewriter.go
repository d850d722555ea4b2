/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rewrite

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/tsneat/internal/rules"
	"github.com/fulmenhq/tsneat/pkg/ignore"
	"github.com/fulmenhq/tsneat/pkg/logger"
	"github.com/fulmenhq/tsneat/pkg/safeio"
)

// Change records one rewritten line within a file. Count is the number
// of rule applications that changed the line (one line can take more
// than one rule).
type Change struct {
	Line   int    `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
	Count  int    `json:"count"`
}

// FileResult is one modified file and its changes.
type FileResult struct {
	Path    string        `json:"path"`
	Context rules.Context `json:"context"`
	Changes []Change      `json:"changes"`
	Total   int           `json:"total_changes"`
}

// Stats accumulates the run counters reported in the summary.
type Stats struct {
	FilesProcessed int `json:"files_processed"`
	FilesModified  int `json:"files_modified"`
	TotalChanges   int `json:"total_changes"`
}

// Result is the outcome of one run.
type Result struct {
	Stats       Stats         `json:"stats"`
	Files       []FileResult  `json:"files,omitempty"`
	DryRun      bool          `json:"dry_run"`
	Interrupted bool          `json:"interrupted,omitempty"`
	Duration    time.Duration `json:"-"`
}

// Options configures a Rewriter.
type Options struct {
	Config        *Config   // nil uses DefaultConfig
	DryRun        bool
	ExtraExcludes []string  // appended after config excludes
	NoIgnore      bool      // disable ignore-file matching regardless of config
	Out           io.Writer // report stream; defaults to os.Stdout
}

// Rewriter applies the substitution catalog across a file set. It is
// single-use and not safe for concurrent Runs.
type Rewriter struct {
	cfg       *Config
	dryRun    bool
	out       io.Writer
	excludes  []*rules.Filter
	preserves []*rules.Filter
	general   []*rules.Rule
	contexts  map[rules.Context][]*rules.Rule
	ignores   *ignore.Matcher
	warned    map[string]bool
}

// NewRewriter compiles the filter and rule sets. Malformed exclude or
// preserve patterns and bad path globs are configuration errors;
// malformed substitution rules are deferred to apply time where they
// warn and skip.
func NewRewriter(opts Options) (*Rewriter, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	excludes := rules.ExcludePatterns()
	userExcludes := append(append([]string{}, cfg.Exclude...), opts.ExtraExcludes...)
	for _, p := range userExcludes {
		f, err := rules.NewFilter(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		excludes = append(excludes, f)
	}

	preserves := rules.PreservePatterns()
	for _, p := range cfg.Preserve {
		f, err := rules.NewFilter(p)
		if err != nil {
			return nil, fmt.Errorf("invalid preserve pattern %q: %w", p, err)
		}
		preserves = append(preserves, f)
	}

	for _, g := range append(append([]string{}, cfg.Paths.Include...), cfg.Paths.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid path glob %q", g)
		}
	}

	general := rules.GeneralRules()
	contexts := make(map[rules.Context][]*rules.Rule)
	for _, ctx := range rules.Contexts() {
		if set := rules.ContextRules(ctx); set != nil {
			contexts[ctx] = set
		}
	}
	for _, rc := range cfg.Rules {
		ctx, _ := rules.ParseContext(rc.Context)
		r := &rules.Rule{Pattern: rc.Pattern, Replacement: rc.Replacement, Context: ctx}
		if ctx == rules.ContextGeneral {
			general = append(general, r)
		} else {
			contexts[ctx] = append(contexts[ctx], r)
		}
	}

	var matcher *ignore.Matcher
	if cfg.Ignore.Enabled && !opts.NoIgnore {
		m, err := ignore.NewMatcher(".")
		if err != nil {
			logger.Warn(fmt.Sprintf("Could not load ignore files: %v", err))
		} else {
			matcher = m
		}
	}

	return &Rewriter{
		cfg:       cfg,
		dryRun:    opts.DryRun,
		out:       out,
		excludes:  excludes,
		preserves: preserves,
		general:   general,
		contexts:  contexts,
		ignores:   matcher,
		warned:    make(map[string]bool),
	}, nil
}

// Run discovers candidates under roots and processes them sequentially
// in discovery order. The context is consulted between files; a
// cancellation stops the run, prints the cancellation notice, and
// suppresses the summary.
func (rw *Rewriter) Run(ctx context.Context, roots []string) (*Result, error) {
	start := time.Now()

	files, err := Discover(roots, DiscoverOptions{
		Extensions:          rw.cfg.Extensions,
		DeclarationSuffixes: rw.cfg.DeclarationSuffixes,
		Excludes:            rw.excludes,
		IncludeGlobs:        rw.cfg.Paths.Include,
		ExcludeGlobs:        rw.cfg.Paths.Exclude,
		Ignores:             rw.ignores,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(rw.out, "Found %d TypeScript files to process\n", len(files))
	if rw.dryRun {
		fmt.Fprintln(rw.out, "=== DRY RUN MODE - No files will be modified ===")
	}

	result := &Result{DryRun: rw.dryRun}
	for _, path := range files {
		select {
		case <-ctx.Done():
			result.Interrupted = true
		default:
		}
		if result.Interrupted {
			break
		}

		result.Stats.FilesProcessed++
		fileRes, err := rw.rewriteFile(path)
		if err != nil {
			return nil, err
		}
		if fileRes != nil {
			result.Stats.FilesModified++
			result.Stats.TotalChanges += fileRes.Total
			result.Files = append(result.Files, *fileRes)
		}
	}
	result.Duration = time.Since(start)

	if result.Interrupted {
		fmt.Fprintln(rw.out, "\nOperation cancelled by user")
		return result, nil
	}

	fmt.Fprintf(rw.out, "\nSummary:\n")
	fmt.Fprintf(rw.out, "  Files processed: %d\n", result.Stats.FilesProcessed)
	fmt.Fprintf(rw.out, "  Files modified: %d\n", result.Stats.FilesModified)
	fmt.Fprintf(rw.out, "  Total changes: %d\n", result.Stats.TotalChanges)

	if rw.dryRun {
		fmt.Fprintf(rw.out, "\nRun without --dry-run to apply changes\n")
	}

	return result, nil
}

// rewriteFile processes one candidate file. Oversized, unreadable, or
// non-text files warn and skip (nil result, nil error); zero changes
// return nil as well. A write failure is fatal for the run.
func (rw *Rewriter) rewriteFile(path string) (*FileResult, error) {
	if rw.cfg.MaxFileSize > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > rw.cfg.MaxFileSize {
			logger.Warn(fmt.Sprintf("Could not read %s: file exceeds %d bytes", path, rw.cfg.MaxFileSize))
			return nil, nil
		}
	}

	data, err := safeio.ReadTextFile(path)
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not read %s: %v", path, err))
		return nil, nil
	}

	fileCtx := rules.ClassifyPath(path)
	res := &FileResult{Path: path, Context: fileCtx}

	var sb strings.Builder
	sb.Grow(len(data))
	for i, raw := range splitLines(string(data)) {
		content, term := splitTerminator(raw)
		rewritten, n := rw.rewriteLine(content, fileCtx)
		sb.WriteString(rewritten)
		sb.WriteString(term)

		if n > 0 {
			res.Total += n
			res.Changes = append(res.Changes, Change{
				Line:   i + 1,
				Before: strings.TrimSpace(content),
				After:  strings.TrimSpace(rewritten),
				Count:  n,
			})
			if !rw.dryRun {
				fmt.Fprintf(rw.out, "  Line %d: %s -> %s\n", i+1, strings.TrimSpace(content), strings.TrimSpace(rewritten))
			}
		}
	}

	if res.Total == 0 {
		return nil, nil
	}

	if rw.dryRun {
		fmt.Fprintf(rw.out, "[DRY RUN] Would modify %s: %d changes\n", path, res.Total)
		return res, nil
	}

	if err := safeio.WriteFilePreservePerms(path, []byte(sb.String())); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(rw.out, "Modified %s: %d changes\n", path, res.Total)
	return res, nil
}

// rewriteLine applies preserve filters, then the context rule set, then
// the general set to one line (terminator excluded). It returns the new
// line and the number of rule applications that changed it.
func (rw *Rewriter) rewriteLine(line string, fileCtx rules.Context) (string, int) {
	for _, f := range rw.preserves {
		if f.Matches(line) {
			return line, 0
		}
	}

	changes := 0
	apply := func(set []*rules.Rule) {
		for _, r := range set {
			out, changed, err := r.Apply(line)
			if err != nil {
				if !rw.warned[r.Pattern] {
					rw.warned[r.Pattern] = true
					logger.Warn(fmt.Sprintf("Skipping malformed substitution pattern '%s': %v", r.Pattern, err))
				}
				continue
			}
			if changed {
				line = out
				changes++
			}
		}
	}
	apply(rw.contexts[fileCtx])
	apply(rw.general)

	return line, changes
}

// splitLines splits content after every \n, keeping terminators
// attached. A final line without a terminator is kept as-is.
func splitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i+1])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// splitTerminator separates a line from its terminator so rules never
// see it and the original bytes come back on write.
func splitTerminator(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
