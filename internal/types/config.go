package types

type RunMode string

const (
	// ModeLocal runs everything in one process with debug defaults
	ModeLocal RunMode = "local"
	// ModeAPI runs the certification API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
