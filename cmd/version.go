/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fulmenhq/tsneat/internal/ops"
	"github.com/fulmenhq/tsneat/pkg/buildinfo"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tsneat version information",
	Long: `Show the tsneat binary version, the module version embedded by the Go
toolchain, and the runtime platform. Use --extended for git build details.`,
	RunE: runVersion,
}

func init() {
	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show tsneat version information"); err != nil {
		panic(fmt.Sprintf("Failed to register version command: %v", err))
	}

	versionCmd.Flags().Bool("extended", false, "Show detailed build and git information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()

	version := buildinfo.BinaryVersion
	module := buildinfo.ModuleVersion()
	if module == "" {
		module = "unknown"
	}

	// Git information is best effort; a release binary outside a checkout
	// simply omits it.
	var gitCommit, gitBranch string
	var gitDirty bool
	if extended {
		if commit, branch, err := getGitCommitInfo(); err == nil {
			gitCommit = commit
			gitBranch = branch
		}
		if dirty, err := isGitDirty(); err == nil {
			gitDirty = dirty
		}
	}

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   version,
			"module":    module,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			if len(gitCommit) >= 8 {
				versionInfo["gitCommit"] = gitCommit[:8]
			} else {
				versionInfo["gitCommit"] = "unknown"
			}
			versionInfo["gitBranch"] = gitBranch
			versionInfo["gitDirty"] = gitDirty
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "tsneat %s\n", version)
	if extended {
		fmt.Fprintf(out, "Module version: %s\n", module)
		if len(gitCommit) >= 8 {
			fmt.Fprintf(out, "Git commit: %s\n", gitCommit[:8])
		} else {
			fmt.Fprintf(out, "Git commit: unknown\n")
		}
		if gitBranch != "" {
			fmt.Fprintf(out, "Git branch: %s\n", gitBranch)
		}
		if gitDirty {
			fmt.Fprintf(out, "Git status: dirty (uncommitted changes)\n")
		} else {
			fmt.Fprintf(out, "Git status: clean\n")
		}
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	} else {
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}

	return nil
}

func getGitCommitInfo() (commit, branch string, err error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git commit: %v", err)
	}
	commit = strings.TrimSpace(string(output))

	cmd = exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	output, err = cmd.Output()
	if err != nil {
		return commit, "", fmt.Errorf("failed to get git branch: %v", err)
	}
	branch = strings.TrimSpace(string(output))

	return commit, branch, nil
}

// isGitDirty returns true if there are uncommitted changes
func isGitDirty() (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %v", err)
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}
