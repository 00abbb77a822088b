package logsim

import (
	"time"
)

// Recent buffer
const (
	// Number of entries kept in memory for inspection
	RecentCapacity = 100
	// Entries shown on the status page
	StatusPageEntries = 20
	// Entries returned by the logs API
	APILogEntries = 50
)

// Storage
const (
	// Size multiplier for MB
	sizeMultiplier = 1024 * 1024
	// Timestamp inserted into rotated file names
	rotatedTimestampLayout = "20060102_150405"
	// Extension used when the log path has none
	defaultRotatedExtension = ".log"
	// Permissions for created directories and files
	dirPerm  = 0o755
	filePerm = 0o644
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Default grace period for shutting down servers
	DefaultShutdownTimeout = 5 * time.Second
)
