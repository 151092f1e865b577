// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, task number out of range,
	// a listen address that cannot be bound).
	UserError = 1

	// ConfigError indicates a bad config file, flag value or store credential.
	ConfigError = 2

	// BackendError indicates a remote store or network error.
	BackendError = 3
)
