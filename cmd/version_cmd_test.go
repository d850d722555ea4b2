package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newVersionTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "version", RunE: runVersion}
	cmd.Flags().Bool("extended", false, "")
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func execVersion(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newVersionTestCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersion_Default(t *testing.T) {
	out, err := execVersion(t)
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	if !strings.Contains(out, "tsneat ") {
		t.Errorf("expected binary version line:\n%s", out)
	}
	if !strings.Contains(out, "Go Version:") || !strings.Contains(out, "OS/Arch:") {
		t.Errorf("expected runtime details:\n%s", out)
	}
}

func TestVersion_JSON(t *testing.T) {
	out, err := execVersion(t, "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v\n%s", err, out)
	}

	var v map[string]interface{}
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	if _, ok := v["version"].(string); !ok {
		t.Errorf("expected version field in JSON")
	}
	if _, ok := v["goVersion"].(string); !ok {
		t.Errorf("expected goVersion field in JSON")
	}
	if _, ok := v["platform"].(string); !ok {
		t.Errorf("expected platform field in JSON")
	}
}

func TestVersion_Extended(t *testing.T) {
	out, err := execVersion(t, "--extended")
	if err != nil {
		t.Fatalf("version --extended failed: %v", err)
	}

	// Git details are best effort, but the lines are always present.
	for _, want := range []string{"Module version:", "Git commit:", "Git status:", "Platform:"} {
		if !strings.Contains(out, want) {
			t.Errorf("extended output missing %q:\n%s", want, out)
		}
	}
}

func TestVersion_ExtendedJSON(t *testing.T) {
	out, err := execVersion(t, "--extended", "--json")
	if err != nil {
		t.Fatalf("version --extended --json failed: %v", err)
	}

	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("not valid JSON: %v\n%s", err, out)
	}
	if _, ok := v["gitCommit"]; !ok {
		t.Errorf("expected gitCommit field in extended JSON: %v", v)
	}
}
