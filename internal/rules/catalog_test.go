/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rules

import "testing"

// applyAll runs every rule in the set once, in order, on line.
func applyAll(t *testing.T, set []*Rule, line string) (string, int) {
	t.Helper()
	changes := 0
	for _, r := range set {
		out, changed, err := r.Apply(line)
		if err != nil {
			t.Fatalf("rule %q failed to apply: %v", r.Pattern, err)
		}
		if changed {
			changes++
		}
		line = out
	}
	return line, changes
}

func TestGeneralRuleCatalog(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"value param", "function f(value: any) {", "function f(value: unknown) {"},
		{"arrow return", "type F = () => any;", "type F = () => unknown;"},
		{"typed array", "const xs: any[] = [];", "const xs: unknown[] = [];"},
		{"initializer", "let v: any = 1;", "let v: unknown = 1;"},
		{"string record", "m: Record<string, any>;", "m: Record<string, unknown>;"},
		{"keyed record", "m: Record<number, any>;", "m: Record<number, unknown>;"},
		{"extends any", "function g<T extends any>(x: T) {}", "function g<T>(x: T) {}"},
		{"default type param", "interface Box<T = any> {}", "interface Box<T = unknown> {}"},
		{"array generic", "xs: Array<any>;", "xs: Array<unknown>;"},
		{"bare array", "const ys = [] as any[];", "const ys = [] as unknown[];"},
		// The arrow-return rule runs first and consumes "=> any", so the
		// function-type rule never sees its full span.
		{"arrow preempts function type", "cb: (x: any) => any;", "cb: (x: any) => unknown;"},
		{"const decl", "const meta: any;", "const meta: unknown;"},
		{"let decl", "let payload: any;", "let payload: unknown;"},
		{"var decl", "var flag: any;", "var flag: unknown;"},
		{"trailing annotation", "{ a: any }", "{ a: unknown }"},
		{"as cast", "const n = x as any;", "const n = x as unknown;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changes := applyAll(t, GeneralRules(), tt.in)
			if out != tt.want {
				t.Errorf("got %q; want %q", out, tt.want)
			}
			if changes == 0 {
				t.Error("expected at least one change")
			}

			// Re-running the full set on its own output changes nothing.
			again, more := applyAll(t, GeneralRules(), out)
			if more != 0 || again != out {
				t.Errorf("catalog not idempotent: %q -> %q (%d further changes)", out, again, more)
			}
		})
	}
}

func TestContextRuleCatalog(t *testing.T) {
	tests := []struct {
		ctx  Context
		in   string
		want string
	}{
		{ContextValidator, "function isValid(v: any): boolean {", "function isValid(v: unknown): boolean {"},
		{ContextValidator, "const check = (value: any) => true;", "const check = (value: unknown) => true;"},
		{ContextErrorHandler, "} catch (err: any) {", "} catch (err: unknown) {"},
		{ContextErrorHandler, "const error: any = wrap(e);", "const error: unknown = wrap(e);"},
		{ContextAPIResponse, "function onData(response: any) {", "function onData(response: unknown) {"},
		{ContextAPIResponse, "const data: any = await res.json();", "const data: unknown = await res.json();"},
		{ContextTestFile, "expect(result: any).toBeDefined();", "expect(result: unknown).toBeDefined();"},
	}

	for _, tt := range tests {
		t.Run(string(tt.ctx)+"/"+tt.in, func(t *testing.T) {
			set := ContextRules(tt.ctx)
			if len(set) == 0 {
				t.Fatalf("no context rules for %s", tt.ctx)
			}
			out, changes := applyAll(t, set, tt.in)
			if out != tt.want {
				t.Errorf("got %q; want %q", out, tt.want)
			}
			if changes == 0 {
				t.Error("expected at least one change")
			}
		})
	}

	if ContextRules(ContextGeneral) != nil {
		t.Error("ContextRules(general) should be nil; the general set is separate")
	}
}

func TestBuiltinRulesCompile(t *testing.T) {
	sets := [][]*Rule{GeneralRules()}
	for _, ctx := range Contexts() {
		if set := ContextRules(ctx); set != nil {
			sets = append(sets, set)
		}
	}
	for _, set := range sets {
		for _, r := range set {
			if _, _, err := r.Apply("probe"); err != nil {
				t.Errorf("built-in rule %q does not compile: %v", r.Pattern, err)
			}
		}
	}
}

func TestExcludePatterns(t *testing.T) {
	excluded := []string{
		"src/types.d.ts",
		"node_modules/lodash/index.ts",
		"project/.git/hooks/sample.ts",
		"dist/bundle.ts",
		"packages/app/build/main.ts",
	}
	kept := []string{
		"src/main.ts",
		"src/distance.ts",
		"src/builder.ts/../x.ts",
	}

	matchesAny := func(path string) bool {
		for _, f := range ExcludePatterns() {
			if f.Matches(path) {
				return true
			}
		}
		return false
	}

	for _, p := range excluded {
		if !matchesAny(p) {
			t.Errorf("expected %q to be excluded", p)
		}
	}
	for _, p := range kept {
		if matchesAny(p) {
			t.Errorf("did not expect %q to be excluded", p)
		}
	}
}

func TestPreservePatterns(t *testing.T) {
	preserved := []string{
		"// @ts-ignore legacy any usage",
		"// eslint-disable-next-line @typescript-eslint/no-explicit-any",
		"const parsed = JSON.parse(raw): any;",
		"window.appState: any;",
	}
	plain := []string{
		"const x: any = 1;",
		"// a comment without the keyword",
	}

	matchesAny := func(line string) bool {
		for _, f := range PreservePatterns() {
			if f.Matches(line) {
				return true
			}
		}
		return false
	}

	for _, l := range preserved {
		if !matchesAny(l) {
			t.Errorf("expected %q to match a preserve pattern", l)
		}
	}
	for _, l := range plain {
		if matchesAny(l) {
			t.Errorf("did not expect %q to match a preserve pattern", l)
		}
	}
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	a := GeneralRules()
	a[0] = nil
	if GeneralRules()[0] == nil {
		t.Error("GeneralRules must return a fresh slice")
	}

	b := ExcludePatterns()
	b[0] = nil
	if ExcludePatterns()[0] == nil {
		t.Error("ExcludePatterns must return a fresh slice")
	}
}
