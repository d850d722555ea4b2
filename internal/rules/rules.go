package rules

import (
	"sync"

	"github.com/dlclark/regexp2"
)

// Rule is one ordered substitution: a regular expression and either a
// literal replacement (which may reference capture groups as $1) or a
// whole-match transform. Rules compile lazily so a malformed pattern
// surfaces as an Apply error instead of aborting catalog construction.
type Rule struct {
	Pattern     string
	Replacement string
	Transform   func(match string) string
	Context     Context

	once sync.Once
	re   *regexp2.Regexp
	err  error
}

// Apply runs the rule against line, returning the transformed line and
// whether this application changed it. A compile failure is returned on
// every call; callers decide how often to report it.
func (r *Rule) Apply(line string) (string, bool, error) {
	r.once.Do(func() {
		r.re, r.err = regexp2.Compile(r.Pattern, regexp2.None)
	})
	if r.err != nil {
		return line, false, r.err
	}

	var out string
	var err error
	if r.Transform != nil {
		out, err = r.re.ReplaceFunc(line, func(m regexp2.Match) string {
			return r.Transform(m.String())
		}, -1, -1)
	} else {
		out, err = r.re.Replace(line, r.Replacement, -1, -1)
	}
	if err != nil {
		return line, false, err
	}
	return out, out != line, nil
}

// ReplacementText describes the replacement for catalog listings.
func (r *Rule) ReplacementText() string {
	if r.Transform != nil {
		return "rewrite any -> unknown in match"
	}
	return r.Replacement
}

// Filter is a path or line filter with search (unanchored) semantics.
type Filter struct {
	Pattern string
	re      *regexp2.Regexp
}

// NewFilter compiles pattern immediately so malformed user-supplied
// filters surface before any file is touched.
func NewFilter(pattern string) (*Filter, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	return &Filter{Pattern: pattern, re: re}, nil
}

func mustFilter(pattern string) *Filter {
	return &Filter{Pattern: pattern, re: regexp2.MustCompile(pattern, regexp2.None)}
}

// Matches reports whether the filter matches anywhere in s.
func (f *Filter) Matches(s string) bool {
	ok, err := f.re.MatchString(s)
	return err == nil && ok
}
