/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/tsneat/internal/rules"
	"github.com/fulmenhq/tsneat/pkg/ignore"
)

func defaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		Extensions:          []string{".ts", ".tsx"},
		DeclarationSuffixes: []string{".d.ts"},
		Excludes:            rules.ExcludePatterns(),
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	writeTestFile(t, path, "const x = 1;\n")
}

func TestDiscoverFiltersAndOrders(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "src", "b.ts"))
	touch(t, filepath.Join(tmp, "src", "a.tsx"))
	touch(t, filepath.Join(tmp, "src", "types.d.ts"))
	touch(t, filepath.Join(tmp, "src", "readme.md"))
	touch(t, filepath.Join(tmp, "src", "zz", "deep.ts"))
	touch(t, filepath.Join(tmp, "node_modules", "pkg", "index.ts"))
	touch(t, filepath.Join(tmp, "out", "dist", "bundle.ts"))

	files, err := Discover([]string{tmp}, defaultDiscoverOptions())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(tmp, "src", "a.tsx"),
		filepath.Join(tmp, "src", "b.ts"),
		filepath.Join(tmp, "src", "zz", "deep.ts"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v; want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s; want %s", i, files[i], want[i])
		}
	}
}

func TestDiscoverDirectFiles(t *testing.T) {
	tmp := t.TempDir()
	md := filepath.Join(tmp, "notes.md")
	touch(t, md)
	ts := filepath.Join(tmp, "app.ts")
	touch(t, ts)
	excluded := filepath.Join(tmp, "node_modules", "dep.ts")
	touch(t, excluded)

	files, err := Discover([]string{md, ts, excluded}, defaultDiscoverOptions())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Direct files bypass the extension filter but not the excludes, and
	// keep argument order.
	want := []string{md, ts}
	if len(files) != len(want) || files[0] != want[0] || files[1] != want[1] {
		t.Errorf("files = %v; want %v", files, want)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	tmp := t.TempDir()
	_, err := Discover([]string{filepath.Join(tmp, "nope")}, defaultDiscoverOptions())
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !strings.Contains(err.Error(), "cannot access") {
		t.Errorf("error = %v", err)
	}
}

func TestDiscoverRepeatedRoots(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.ts")
	touch(t, a)

	files, err := Discover([]string{tmp, a}, defaultDiscoverOptions())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 || files[0] != a || files[1] != a {
		t.Errorf("files = %v; want the same path twice", files)
	}
}

func TestDiscoverPathGlobs(t *testing.T) {
	tmp := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})

	touch(t, filepath.Join("keep", "a.ts"))
	touch(t, filepath.Join("keep", "a.gen.ts"))
	touch(t, filepath.Join("other", "b.ts"))

	opts := defaultDiscoverOptions()
	opts.IncludeGlobs = []string{"keep/**"}
	opts.ExcludeGlobs = []string{"**/*.gen.ts"}

	files, err := Discover([]string{"."}, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join("keep", "a.ts") {
		t.Errorf("files = %v; want [keep/a.ts]", files)
	}
}

func TestDiscoverHonorsIgnoreFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TSNEAT_HOME", t.TempDir())
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})

	writeTestFile(t, ".gitignore", "generated/\n")
	touch(t, filepath.Join("src", "app.ts"))
	touch(t, filepath.Join("generated", "gen.ts"))

	matcher, err := ignore.NewMatcher(".")
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	opts := defaultDiscoverOptions()
	opts.Ignores = matcher

	files, err := Discover([]string{"."}, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join("src", "app.ts") {
		t.Errorf("files = %v; want [src/app.ts]", files)
	}
}

func TestDiscoverExcludeMatchesSlashPaths(t *testing.T) {
	// Exclude patterns are matched against slash-normalized paths, so a
	// pattern written with forward slashes works on every platform.
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "src", "gen", "api.ts"))
	touch(t, filepath.Join(tmp, "src", "api.ts"))

	filter, err := rules.NewFilter(`src/gen/`)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	opts := defaultDiscoverOptions()
	opts.Excludes = append(opts.Excludes, filter)

	files, err := Discover([]string{tmp}, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(tmp, "src", "api.ts") {
		t.Errorf("files = %v", files)
	}
}
