/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rewrite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/tsneat/internal/rules"
	"github.com/fulmenhq/tsneat/pkg/ignore"
	"github.com/fulmenhq/tsneat/pkg/logger"
)

// DiscoverOptions configures candidate file discovery.
type DiscoverOptions struct {
	Extensions          []string
	DeclarationSuffixes []string
	Excludes            []*rules.Filter
	IncludeGlobs        []string
	ExcludeGlobs        []string
	Ignores             *ignore.Matcher // nil disables ignore-file matching
}

// Discover expands roots into the candidate file list. Roots expand in
// argument order; each directory walk contributes its matches in
// lexical path order. Subdirectories matching an exclude pattern or an
// ignore rule are pruned without descending. A walked file must carry a
// TypeScript extension without a declaration suffix, survive the
// exclude filters, and match the configured globs. Direct file
// arguments skip the extension, ignore, and glob checks but not the
// exclude filters.
func Discover(roots []string, opts DiscoverOptions) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", root, err)
		}

		if !info.IsDir() {
			if !matchesAny(opts.Excludes, filepath.ToSlash(root)) {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.Warn(fmt.Sprintf("Could not read %s: %v", path, walkErr))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			slashPath := filepath.ToSlash(path)
			if d.IsDir() {
				if path == root {
					return nil
				}
				// Prune on the bare directory path; separator-suffixed
				// patterns like node_modules/ are caught per file below.
				if matchesAny(opts.Excludes, slashPath) {
					return filepath.SkipDir
				}
				if opts.Ignores != nil && opts.Ignores.IsIgnoredDir(path) {
					return filepath.SkipDir
				}
				return nil
			}

			name := d.Name()
			if !hasAnySuffix(name, opts.Extensions) || hasAnySuffix(name, opts.DeclarationSuffixes) {
				return nil
			}
			if matchesAny(opts.Excludes, slashPath) {
				return nil
			}
			if opts.Ignores != nil && opts.Ignores.IsIgnored(path) {
				return nil
			}
			ok, err := matchesGlobs(slashPath, opts.IncludeGlobs, opts.ExcludeGlobs)
			if err != nil {
				return err
			}
			if ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return files, nil
}

func matchesAny(filters []*rules.Filter, path string) bool {
	for _, f := range filters {
		if f.Matches(path) {
			return true
		}
	}
	return false
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func matchesGlobs(path string, includes, excludes []string) (bool, error) {
	if len(includes) > 0 {
		matched := false
		for _, g := range includes {
			ok, err := doublestar.Match(g, path)
			if err != nil {
				return false, fmt.Errorf("include glob %q: %w", g, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	for _, g := range excludes {
		ok, err := doublestar.Match(g, path)
		if err != nil {
			return false, fmt.Errorf("exclude glob %q: %w", g, err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}
