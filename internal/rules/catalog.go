/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package rules

import "strings"

// The built-in catalog. Order matters: later rules see text already
// changed by earlier rules within the same line.

func anyToUnknown(match string) string {
	return strings.ReplaceAll(match, "any", "unknown")
}

var generalRules = []*Rule{
	{Pattern: `\(value: any\)`, Replacement: `(value: unknown)`, Context: ContextGeneral},
	{Pattern: `=> any\b`, Replacement: `=> unknown`, Context: ContextGeneral},
	{Pattern: `: any\[\]`, Replacement: `: unknown[]`, Context: ContextGeneral},
	{Pattern: `: any\s*=`, Replacement: `: unknown =`, Context: ContextGeneral},
	{Pattern: `Record<string, any>`, Replacement: `Record<string, unknown>`, Context: ContextGeneral},
	{Pattern: `Record<\w+, any>`, Transform: anyToUnknown, Context: ContextGeneral},
	{Pattern: `<T extends any>`, Replacement: `<T>`, Context: ContextGeneral},
	{Pattern: `<T = any>`, Replacement: `<T = unknown>`, Context: ContextGeneral},
	{Pattern: `Array<any>`, Replacement: `Array<unknown>`, Context: ContextGeneral},
	{Pattern: `any\[\]`, Replacement: `unknown[]`, Context: ContextGeneral},
	{Pattern: `\(.*?: any\) => any`, Transform: anyToUnknown, Context: ContextGeneral},
	{Pattern: `const \w+: any\b`, Transform: anyToUnknown, Context: ContextGeneral},
	{Pattern: `let \w+: any\b`, Transform: anyToUnknown, Context: ContextGeneral},
	{Pattern: `var \w+: any\b`, Transform: anyToUnknown, Context: ContextGeneral},
	{Pattern: `:\s*any(?=\s*[;,}])`, Replacement: `: unknown`, Context: ContextGeneral},
	{Pattern: `as any(?=\s*[;,.)])`, Replacement: `as unknown`, Context: ContextGeneral},
}

var contextRules = map[Context][]*Rule{
	ContextValidator: {
		{Pattern: `\(v: any\)`, Replacement: `(v: unknown)`, Context: ContextValidator},
		{Pattern: `\(value: any\)`, Replacement: `(value: unknown)`, Context: ContextValidator},
	},
	ContextErrorHandler: {
		{Pattern: `catch \((\w+): any\)`, Replacement: `catch ($1: unknown)`, Context: ContextErrorHandler},
		{Pattern: `error: any`, Replacement: `error: unknown`, Context: ContextErrorHandler},
	},
	ContextAPIResponse: {
		{Pattern: `response: any`, Replacement: `response: unknown`, Context: ContextAPIResponse},
		{Pattern: `data: any`, Replacement: `data: unknown`, Context: ContextAPIResponse},
	},
	ContextTestFile: {
		{Pattern: `expect\(.*?: any\)`, Transform: anyToUnknown, Context: ContextTestFile},
	},
}

var excludeFilters = []*Filter{
	mustFilter(`\.d\.ts$`),
	mustFilter(`node_modules/`),
	mustFilter(`\.git/`),
	mustFilter(`dist/`),
	mustFilter(`build/`),
}

var preserveFilters = []*Filter{
	mustFilter(`// @ts-ignore.*any`),
	mustFilter(`// eslint-disable.*any`),
	mustFilter(`JSON\.parse\(.*\): any`),
	mustFilter(`window\.\w+.*: any`),
}

// GeneralRules returns the ordered general substitution rules.
func GeneralRules() []*Rule {
	out := make([]*Rule, len(generalRules))
	copy(out, generalRules)
	return out
}

// ContextRules returns the rule set tried before the general set for
// ctx; nil for ContextGeneral.
func ContextRules(ctx Context) []*Rule {
	set, ok := contextRules[ctx]
	if !ok {
		return nil
	}
	out := make([]*Rule, len(set))
	copy(out, set)
	return out
}

// ExcludePatterns returns the built-in path exclude filters.
func ExcludePatterns() []*Filter {
	out := make([]*Filter, len(excludeFilters))
	copy(out, excludeFilters)
	return out
}

// PreservePatterns returns the built-in line preserve filters.
func PreservePatterns() []*Filter {
	out := make([]*Filter, len(preserveFilters))
	copy(out, preserveFilters)
	return out
}
