package logsim

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// openLogFile creates the parent directory if needed and opens path for appending,
// returning the handle and the current file size
func openLogFile(path string) (*os.File, int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, 0, fmtErrorf("%w: failed to create log directory '%s': %w", ErrFilesystem, dir, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return nil, 0, fmtErrorf("%w: failed to open/create log file '%s': %w", ErrFilesystem, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmtErrorf("%w: failed to stat log file '%s': %w", ErrFilesystem, path, err)
	}
	return file, info.Size(), nil
}

// ensureCurrentFile reopens the active file if it was removed or replaced on disk
// since it was opened, and refreshes the tracked size from the live file so
// external appends and truncation are seen. Caller holds s.mu.
func (s *Sink) ensureCurrentFile() error {
	if s.file != nil {
		onDisk, err := os.Stat(s.path)
		switch {
		case err == nil:
			if open, statErr := s.file.Stat(); statErr == nil && os.SameFile(onDisk, open) {
				s.stats.CurrentSize.Store(onDisk.Size())
				return nil
			}
		case errors.Is(err, fs.ErrNotExist):
			// Removed externally, recreate below
		default:
			return fmtErrorf("%w: failed to stat log file '%s': %w", ErrFilesystem, s.path, err)
		}

		if err := s.file.Close(); err != nil {
			internalLog("failed to close stale log file handle: %v\n", err)
		}
		s.file = nil
	}

	file, size, err := openLogFile(s.path)
	if err != nil {
		return err
	}
	s.file = file
	s.stats.CurrentSize.Store(size)
	return nil
}

// rotateLogFile implements the rename-on-rotate strategy: close the active file,
// rename it to its timestamped archive name, then open a fresh file at the
// original path. Returns the archive path. Caller holds s.mu.
func (s *Sink) rotateLogFile() (string, error) {
	archivePath := s.policy.RotatedName(s.path, s.now())

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			internalLog("failed to close log file before rotation: %v\n", err)
			// Continue with rotation anyway
		}
		s.file = nil
	}

	if err := os.Rename(s.path, archivePath); err != nil {
		// Keep writing to the unrotated file if it can still be opened
		if file, size, openErr := openLogFile(s.path); openErr == nil {
			s.file = file
			s.stats.CurrentSize.Store(size)
		}
		return "", fmtErrorf("%w: failed to rename log file from '%s' to '%s': %w", ErrFilesystem, s.path, archivePath, err)
	}

	file, _, err := openLogFile(s.path)
	if err != nil {
		return "", fmtErrorf("failed to create new log file after rotation: %w", err)
	}

	s.file = file
	s.stats.CurrentSize.Store(0)
	s.stats.TotalRotations.Add(1)
	return archivePath, nil
}

// archive describes one rotated log file
type archive struct {
	path    string
	modTime time.Time
	size    int64
}

// listArchives returns the rotated copies of path, oldest first. Archives are
// recognised by the "<stem>.<timestamp><ext>" naming of RotatedName.
func listArchives(path string) ([]archive, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = defaultRotatedExtension
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmtErrorf("%w: failed to read log directory '%s': %w", ErrFilesystem, dir, err)
	}

	var archives []archive
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == base {
			continue
		}
		if !strings.HasPrefix(name, stem+".") || !strings.HasSuffix(name, ext) {
			continue
		}
		ts := strings.TrimSuffix(strings.TrimPrefix(name, stem+"."), ext)
		if _, err := time.Parse(rotatedTimestampLayout, ts); err != nil {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		archives = append(archives, archive{
			path:    filepath.Join(dir, name),
			modTime: info.ModTime(),
			size:    info.Size(),
		})
	}

	sort.Slice(archives, func(i, j int) bool { return archives[i].path < archives[j].path })
	return archives, nil
}
