package rules

import "strings"

// Context selects which extra rule set is tried before the general set.
type Context string

const (
	ContextGeneral      Context = "general"
	ContextValidator    Context = "validator"
	ContextErrorHandler Context = "error_handler"
	ContextAPIResponse  Context = "api_response"
	ContextTestFile     Context = "test_file"
)

// Contexts lists every classification bucket, general last.
func Contexts() []Context {
	return []Context{
		ContextTestFile,
		ContextValidator,
		ContextAPIResponse,
		ContextErrorHandler,
		ContextGeneral,
	}
}

// ParseContext maps a config or flag string to a Context.
func ParseContext(s string) (Context, bool) {
	switch Context(strings.ToLower(strings.TrimSpace(s))) {
	case ContextGeneral:
		return ContextGeneral, true
	case ContextValidator:
		return ContextValidator, true
	case ContextErrorHandler:
		return ContextErrorHandler, true
	case ContextAPIResponse:
		return ContextAPIResponse, true
	case ContextTestFile:
		return ContextTestFile, true
	}
	return ContextGeneral, false
}

// ClassifyPath derives the rule context from a file path. The whole
// path participates, lowercased; the first matching bucket wins.
func ClassifyPath(path string) Context {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "test") || strings.Contains(p, "spec"):
		return ContextTestFile
	case strings.Contains(p, "validator") || strings.Contains(p, "validation"):
		return ContextValidator
	case strings.Contains(p, "api") && (strings.Contains(p, "client") || strings.Contains(p, "response")):
		return ContextAPIResponse
	case strings.Contains(p, "error") || strings.Contains(p, "exception"):
		return ContextErrorHandler
	default:
		return ContextGeneral
	}
}
