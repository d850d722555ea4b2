/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fulmenhq/tsneat/internal/ops"
	"github.com/fulmenhq/tsneat/internal/rules"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the built-in substitution rule catalog",
	Long: `Show the built-in substitution rules, preserve patterns, and exclude
patterns.

Context-specific rules run before the general catalog for files classified
into that context. Use --context to inspect a single bucket, or --json for
machine-readable output.`,
	RunE: runRules,
}

func init() {
	if err := ops.RegisterCommand("rules", ops.GroupSupport, rulesCmd, "Show the built-in substitution rule catalog"); err != nil {
		panic(fmt.Sprintf("Failed to register rules command: %v", err))
	}

	rulesCmd.Flags().String("context", "", "Show only one context bucket (general, validator, error_handler, api_response, test_file)")
	rulesCmd.Flags().Bool("json", false, "Emit the catalog as JSON")
}

type ruleEntry struct {
	Context     string `json:"context"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

type ruleCatalog struct {
	Rules    []ruleEntry `json:"rules"`
	Preserve []string    `json:"preserve_patterns"`
	Exclude  []string    `json:"exclude_patterns"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	contextFilter, _ := cmd.Flags().GetString("context")
	jsonOut, _ := cmd.Flags().GetBool("json")

	buckets := rules.Contexts()
	if contextFilter != "" {
		ctx, ok := rules.ParseContext(contextFilter)
		if !ok {
			return fmt.Errorf("unknown context %q (valid: %s)", contextFilter, contextNames())
		}
		buckets = []rules.Context{ctx}
	}

	catalog := ruleCatalog{
		Preserve: filterPatterns(rules.PreservePatterns()),
		Exclude:  filterPatterns(rules.ExcludePatterns()),
	}
	for _, ctx := range buckets {
		for _, r := range bucketRules(ctx) {
			catalog.Rules = append(catalog.Rules, ruleEntry{
				Context:     string(ctx),
				Pattern:     r.Pattern,
				Replacement: r.ReplacementText(),
			})
		}
	}

	out := cmd.OutOrStdout()

	if jsonOut {
		data, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rule catalog: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Context", "Pattern", "Replacement"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for i, entry := range catalog.Rules {
		table.Append([]string{
			strconv.Itoa(i + 1),
			entry.Context,
			truncateCell(entry.Pattern, 44),
			truncateCell(entry.Replacement, 36),
		})
	}
	table.Render()

	if contextFilter == "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Preserve patterns (matching lines are never rewritten):")
		for _, p := range catalog.Preserve {
			fmt.Fprintf(out, "  %s\n", p)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Exclude patterns (matching paths are never visited):")
		for _, p := range catalog.Exclude {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}

	return nil
}

// bucketRules returns the rule set for one context; the general bucket
// holds the ordered catalog that runs for every file.
func bucketRules(ctx rules.Context) []*rules.Rule {
	if ctx == rules.ContextGeneral {
		return rules.GeneralRules()
	}
	return rules.ContextRules(ctx)
}

func filterPatterns(filters []*rules.Filter) []string {
	patterns := make([]string, 0, len(filters))
	for _, f := range filters {
		patterns = append(patterns, f.Pattern)
	}
	return patterns
}

func contextNames() string {
	names := make([]string, 0, len(rules.Contexts()))
	for _, ctx := range rules.Contexts() {
		names = append(names, string(ctx))
	}
	return strings.Join(names, ", ")
}

// truncateCell keeps table rows on one terminal line for long patterns.
func truncateCell(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
