/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fulmenhq/tsneat/internal/ops"
	"github.com/fulmenhq/tsneat/internal/rewrite"
	"github.com/fulmenhq/tsneat/pkg/config"
	"github.com/fulmenhq/tsneat/pkg/logger"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite any annotations to unknown",
	Long: `Rewrite loose TypeScript 'any' annotations to 'unknown' in the given
files and directories.

Directories are walked recursively for .ts and .tsx sources; declaration
files, node_modules, build output, and ignored paths are skipped. Each file
is classified by its path (validator, error handler, API client, test file)
and context-specific rules run before the general catalog. Lines matching a
preserve pattern are never touched.

Use --dry-run to preview the changes without writing anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	if err := ops.RegisterCommand("fix", ops.GroupRewrite, fixCmd, "Rewrite any annotations to unknown"); err != nil {
		panic(fmt.Sprintf("Failed to register fix command: %v", err))
	}

	fixCmd.Flags().Bool("dry-run", false, "Report changes without modifying files")
	fixCmd.Flags().StringArray("exclude", []string{}, "Additional exclude pattern (repeatable)")
	fixCmd.Flags().StringP("output", "o", "markdown", "Report format (markdown, json, html, checkstyle)")
	fixCmd.Flags().String("report-file", "", "Write the run report to this file")
	fixCmd.Flags().Bool("no-ignore", false, "Do not honor .gitignore and .tsneatignore files")
	fixCmd.Flags().Bool("verbose", false, "Print a per-context breakdown after the summary")
}

func runFix(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	excludes, _ := cmd.Flags().GetStringArray("exclude")
	outputFormat, _ := cmd.Flags().GetString("output")
	reportFile, _ := cmd.Flags().GetString("report-file")
	noIgnore, _ := cmd.Flags().GetBool("no-ignore")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Tool config supplies report defaults for flags left unset.
	toolCfg, err := config.LoadConfig()
	if err != nil {
		toolCfg = &config.Config{}
	}
	applyReportDefaults(cmd.Flags(), toolCfg, &outputFormat, &reportFile)

	format, err := rewrite.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := rewrite.LoadConfig(".")
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Debug("Loaded rewrite config", logger.String("source", cfg.Source))
	}

	rewriter, err := rewrite.NewRewriter(rewrite.Options{
		Config:        cfg,
		DryRun:        dryRun,
		ExtraExcludes: excludes,
		NoIgnore:      noIgnore,
		Out:           cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	// Cancel the run on SIGINT/SIGTERM; the rewriter finishes the file in
	// flight and prints the cancellation notice.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	result, err := rewriter.Run(ctx, args)
	if err != nil {
		return err
	}

	if verbose && !result.Interrupted {
		fmt.Fprintln(cmd.OutOrStdout())
		rewrite.WriteBreakdown(cmd.OutOrStdout(), result)
	}

	formatter := rewrite.NewFormatter(format)
	formatter.SetTargetPath(strings.Join(args, " "))

	if reportFile != "" {
		out, err := formatter.FormatResult(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing report %s: %w", reportFile, err)
		}
		logger.Info("Report written", logger.String("path", reportFile), logger.String("format", string(format)))
	} else if cmd.Flags().Changed("output") && !result.Interrupted {
		// An explicit --output without a report file streams the report
		// to stdout after the console summary.
		fmt.Fprintln(cmd.OutOrStdout())
		if err := formatter.WriteResult(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}

	return nil
}

// applyReportDefaults fills report settings from the tool config without
// overriding explicit flags.
func applyReportDefaults(flags *pflag.FlagSet, cfg *config.Config, format, file *string) {
	if !flags.Changed("output") && cfg.Report.Format != "" {
		*format = cfg.Report.Format
	}
	if !flags.Changed("report-file") && cfg.Report.File != "" {
		*file = cfg.Report.File
	}
}
