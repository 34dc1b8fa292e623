package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// These levels control WHAT categories of output are shown, not just log severity.
//
//	if logger.ShouldOutput(verbosity, logger.OutputHTTPCalls) {
//	    log.Debugw("GET", logger.FieldURL, u)
//	}
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + fallback decisions, config source
	VerbosityDebug = 2 // -vv: + every outbound request, timing
	VerbosityTrace = 3 // -vvv: + per-level hierarchy expansion
	VerbosityAll   = 4 // -vvvv: + full response bodies
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	OutputResults       OutputCategory = iota // Command output
	OutputErrors                              // Errors with hints
	OutputFallback                            // Vector search falling back to keyword search
	OutputConfig                              // Config values loaded/applied
	OutputHTTPCalls                           // External HTTP requests made
	OutputTiming                              // Request timing
	OutputTraversal                           // Hierarchy expansion levels
	OutputResponseBody                        // Full HTTP response bodies
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:      VerbosityUser,
	OutputErrors:       VerbosityUser,
	OutputFallback:     VerbosityInfo,
	OutputConfig:       VerbosityInfo,
	OutputHTTPCalls:    VerbosityDebug,
	OutputTiming:       VerbosityDebug,
	OutputTraversal:    VerbosityTrace,
	OutputResponseBody: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	case VerbosityTrace:
		return "Trace (-vvv)"
	case VerbosityAll:
		return "All (-vvvv)"
	default:
		if verbosity > VerbosityAll {
			return "All (-vvvv+)"
		}
		return "Unknown"
	}
}
