// Package constants defines shared constants and environment switches
// used throughout the backstack packages.
package constants

import "os"

// Delimiter separates the title, surface id and record id of a layer key.
// Titles must not contain it; the codec does not escape.
const Delimiter = "|"

// KeyFieldCount is the number of delimited fields in a serialized key.
const KeyFieldCount = 3

// Development is the environment variable value for development mode.
const Development = "DEV"

// DebugEnvVar forces debug level logging when set to any value.
const DebugEnvVar = "BACKSTACK_DEBUG"

// DefaultQueueSize is the transaction queue buffer used when none is configured.
const DefaultQueueSize = 16

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// IsDebug returns true if BACKSTACK_DEBUG is set or the process runs in development mode.
func IsDebug() bool {
	return os.Getenv(DebugEnvVar) != "" || IsDevMode()
}
