/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/tsneat/internal/schema"
	"github.com/fulmenhq/tsneat/pkg/config"
)

// DefaultMaxFileSize caps eligible files at 4 MiB unless configured.
const DefaultMaxFileSize = 4 << 20

// RuleConfig is one user-supplied substitution rule. The pattern may use
// lookahead; the replacement may reference capture groups as $1.
type RuleConfig struct {
	Pattern     string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" toml:"replacement" json:"replacement"`
	Context     string `yaml:"context,omitempty" toml:"context,omitempty" json:"context,omitempty"`
}

// PathsConfig narrows directory-walk candidates with doublestar globs.
type PathsConfig struct {
	Include []string `yaml:"include,omitempty" toml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
}

// IgnoreConfig controls ignore-file handling during directory walks.
type IgnoreConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
}

// Config controls discovery and substitution for one run. Exclude,
// Preserve, and Rules append to the built-in catalog; Extensions and
// DeclarationSuffixes replace the defaults when set.
type Config struct {
	Extensions          []string     `yaml:"extensions" toml:"extensions" json:"extensions"`
	DeclarationSuffixes []string     `yaml:"declaration_suffixes" toml:"declaration_suffixes" json:"declaration_suffixes"`
	Exclude             []string     `yaml:"exclude" toml:"exclude" json:"exclude,omitempty"`
	Preserve            []string     `yaml:"preserve" toml:"preserve" json:"preserve,omitempty"`
	Rules               []RuleConfig `yaml:"rules" toml:"rules" json:"rules,omitempty"`
	Paths               PathsConfig  `yaml:"paths" toml:"paths" json:"paths,omitempty"`
	MaxFileSize         int64        `yaml:"max_file_size" toml:"max_file_size" json:"max_file_size"`
	Ignore              IgnoreConfig `yaml:"ignore" toml:"ignore" json:"ignore"`

	// Source is the file the config was loaded from; empty for defaults.
	Source string `yaml:"-" toml:"-" json:"-"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Extensions:          []string{".ts", ".tsx"},
		DeclarationSuffixes: []string{".d.ts"},
		MaxFileSize:         DefaultMaxFileSize,
		Ignore:              IgnoreConfig{Enabled: true},
	}
}

// configNames are tried in order within each location.
var configNames = []string{"rewrite.yaml", "rewrite.yml", "rewrite.toml"}

// LoadConfig resolves the rewrite config for a project directory:
// <dir>/.tsneat first, then $TSNEAT_HOME/config, then built-in
// defaults. The first file found wins; a file that exists but fails to
// parse or validate is an error, not a fallthrough.
func LoadConfig(dir string) (*Config, error) {
	var candidates []string
	for _, name := range configNames {
		candidates = append(candidates, filepath.Join(dir, ".tsneat", name))
	}
	if home, err := config.GetTsneatHome(); err == nil {
		for _, name := range configNames {
			candidates = append(candidates, filepath.Join(home, "config", name))
		}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path) // #nosec G304 -- candidate paths are fixed names under known roots
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		cfg, err := parseConfig(path, data)
		if err != nil {
			return nil, err
		}
		cfg.Source = path
		return cfg, nil
	}

	return DefaultConfig(), nil
}

func parseConfig(path string, data []byte) (*Config, error) {
	isTOML := strings.HasSuffix(path, ".toml")

	var raw interface{}
	if isTOML {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	res, err := schema.Validate(raw, "rewrite-v1.0.0")
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, fmt.Sprintf("  %s: %s", e.Path, e.Message))
		}
		return nil, fmt.Errorf("invalid rewrite config %s:\n%s", path, strings.Join(msgs, "\n"))
	}

	// Unmarshal over defaults so absent keys keep their built-in values.
	cfg := DefaultConfig()
	if isTOML {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}
