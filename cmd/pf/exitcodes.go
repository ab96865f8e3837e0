package main

// Exit codes shared by every command.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no library, bad config, missing token)
	ExitDataError   = 3 // Data error (malformed catalog, validation failure)
	ExitNotFound    = 4 // Section or formula not found, or nothing to pick from
)
