// Package exitcode provides standardized exit codes for tsneat
package exitcode

// Exit codes for the tsneat CLI. The fix command contract only surfaces
// Success and GeneralError; the remaining codes cover CLI bootstrap paths.
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}
