// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Stream operations
	OpLoadStream    Op = "load stream"
	OpRecoverStream Op = "recover stream"
	OpPlaybackStart Op = "start playback"

	// Artwork operations
	OpResolveArtwork Op = "resolve artwork"

	// State operations
	OpOpenState Op = "open state database"
	OpSaveState Op = "save player state"
	OpLoadState Op = "load player state"

	// Configuration
	OpLoadConfig Op = "load config"

	// Network operations
	OpWatchNetwork Op = "watch network"
	OpServeFeed    Op = "serve now-playing feed"

	// Initialization
	OpInitialize Op = "initialize application"
)

// ForEngineOp maps an engine error operation name to an Op.
func ForEngineOp(op string) Op {
	switch op {
	case "load":
		return OpLoadStream
	case "recover":
		return OpRecoverStream
	default:
		return Op(op)
	}
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
