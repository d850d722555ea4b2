package rules

import (
	"strings"
	"testing"
)

func TestRuleApplyLiteral(t *testing.T) {
	r := &Rule{Pattern: `: any\[\]`, Replacement: `: unknown[]`}

	out, changed, err := r.Apply("const xs: any[] = [];")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !changed {
		t.Error("expected rule to report a change")
	}
	if out != "const xs: unknown[] = [];" {
		t.Errorf("unexpected output: %q", out)
	}

	// No match leaves the line untouched.
	out, changed, err = r.Apply("const n = 1;")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if changed || out != "const n = 1;" {
		t.Errorf("expected no change, got changed=%v out=%q", changed, out)
	}
}

func TestRuleApplyCaptureGroup(t *testing.T) {
	r := &Rule{Pattern: `catch \((\w+): any\)`, Replacement: `catch ($1: unknown)`}

	out, changed, err := r.Apply("} catch (err: any) {")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !changed {
		t.Error("expected a change")
	}
	if out != "} catch (err: unknown) {" {
		t.Errorf("capture group not expanded: %q", out)
	}
}

func TestRuleApplyTransformRewritesWholeMatch(t *testing.T) {
	r := &Rule{Pattern: `const \w+: any\b`, Transform: anyToUnknown}

	// The transform rewrites every "any" inside the matched span, the
	// identifier included.
	out, changed, err := r.Apply("const anybody: any;")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !changed {
		t.Error("expected a change")
	}
	if out != "const unknownbody: unknown;" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRuleApplyReplacesAllOccurrences(t *testing.T) {
	r := &Rule{Pattern: `any\[\]`, Replacement: `unknown[]`}

	out, changed, err := r.Apply("function f(a: any[], b: any[]) {}")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !changed {
		t.Error("expected a change")
	}
	if out != "function f(a: unknown[], b: unknown[]) {}" {
		t.Errorf("expected both spans rewritten: %q", out)
	}
}

func TestRuleApplyMalformedPattern(t *testing.T) {
	r := &Rule{Pattern: `as any(?=\s*[;,.\)]))`, Replacement: `as unknown`}

	out, changed, err := r.Apply("const n = x as any;")
	if err == nil {
		t.Fatal("expected compile error for unbalanced pattern")
	}
	if changed || out != "const n = x as any;" {
		t.Errorf("malformed rule must leave the line untouched, got changed=%v out=%q", changed, out)
	}

	// The same error comes back on every call.
	_, _, err2 := r.Apply("another line")
	if err2 == nil || err2.Error() != err.Error() {
		t.Errorf("expected stable compile error, got %v then %v", err, err2)
	}
}

func TestRuleApplyLookahead(t *testing.T) {
	r := &Rule{Pattern: `:\s*any(?=\s*[;,}])`, Replacement: `: unknown`}

	out, changed, err := r.Apply("const v: any = compute(); // v: any;")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !changed {
		t.Error("expected a change")
	}
	// Only the span followed by ; changes; ": any =" stays.
	if !strings.Contains(out, "const v: any = compute()") || !strings.Contains(out, "// v: unknown;") {
		t.Errorf("lookahead applied to the wrong span: %q", out)
	}
}

func TestNewFilter(t *testing.T) {
	f, err := NewFilter(`vendor/`)
	if err != nil {
		t.Fatalf("NewFilter returned error: %v", err)
	}
	if !f.Matches("third_party/vendor/lib.ts") {
		t.Error("expected unanchored match")
	}
	if f.Matches("src/vendored.ts") {
		t.Error("unexpected match")
	}

	if _, err := NewFilter(`(unclosed`); err == nil {
		t.Error("expected error for malformed filter pattern")
	}
}

func TestReplacementText(t *testing.T) {
	lit := &Rule{Pattern: `x`, Replacement: `y`}
	if got := lit.ReplacementText(); got != "y" {
		t.Errorf("ReplacementText() = %q; want %q", got, "y")
	}
	fn := &Rule{Pattern: `x`, Transform: anyToUnknown}
	if got := fn.ReplacementText(); got != "rewrite any -> unknown in match" {
		t.Errorf("ReplacementText() = %q", got)
	}
}
