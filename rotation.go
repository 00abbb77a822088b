package logsim

import (
	"path/filepath"
	"strings"
	"time"
)

// RotationPolicy decides when the active log file is rotated and what the
// archived copy is called. It holds no state and touches no files.
type RotationPolicy struct {
	MaxBytes int64 // Threshold; the file never grows past it by more than one record
}

// NewRotationPolicy builds the policy from a configuration
func NewRotationPolicy(cfg *Config) RotationPolicy {
	return RotationPolicy{MaxBytes: cfg.MaxFileSizeBytes()}
}

// ShouldRotate reports whether the file must be rotated before writing pending
// bytes to a file currently holding size bytes. An empty file is never rotated,
// so a single oversized record still gets written.
func (p RotationPolicy) ShouldRotate(size, pending int64) bool {
	if p.MaxBytes <= 0 || size <= 0 {
		return false
	}
	return size > p.MaxBytes || size+pending > p.MaxBytes
}

// RotatedName inserts a YYYYMMDD_HHMMSS timestamp before the file extension:
// app.log becomes app.20240115_093000.log. Paths without an extension get ".log".
func (p RotationPolicy) RotatedName(path string, now time.Time) string {
	return RotatedName(path, now)
}

// RotatedName is the stateless form of RotationPolicy.RotatedName
func RotatedName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = defaultRotatedExtension
	}
	return stem + "." + now.Format(rotatedTimestampLayout) + ext
}
