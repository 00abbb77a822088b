package logsim

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/logsim/formatter"
	"github.com/lixenwraith/logsim/sanitizer"
)

// Sink owns the active log file and the console stream. It formats entries,
// rotates the file when the policy says so and keeps write statistics.
// A Sink is safe for concurrent use.
type Sink struct {
	mu sync.Mutex

	path    string
	name    string
	level   Level
	policy  RotationPolicy
	file    *os.File
	console io.Writer

	fileFmt    *formatter.Formatter
	consoleFmt *formatter.Formatter

	stats  State
	closed bool
	now    func() time.Time
}

// NewSink creates the log directory, opens the log file in append mode and
// compiles the output templates. A nil console writes to the configured target.
func NewSink(cfg *Config, console io.Writer) (*Sink, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	fileFmt := formatter.New(sanitizer.New(sanitizer.HexEncode)).
		Template(cfg.LogFormat).
		TimestampFormat(cfg.TimestampFormat)
	if err := fileFmt.Err(); err != nil {
		return nil, fmtErrorf("%w: invalid log_format: %w", ErrConfiguration, err)
	}
	consoleFmt := formatter.New(sanitizer.New(sanitizer.HexEncode)).
		Template(cfg.ConsoleFormat).
		TimestampFormat(cfg.TimestampFormat)
	if err := consoleFmt.Err(); err != nil {
		return nil, fmtErrorf("%w: invalid console_format: %w", ErrConfiguration, err)
	}

	if console == nil {
		console = os.Stdout
		if cfg.ConsoleTarget == "stderr" {
			console = os.Stderr
		}
	}

	file, size, err := openLogFile(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		path:       cfg.FilePath,
		name:       cfg.Name,
		level:      cfg.Level,
		policy:     NewRotationPolicy(cfg),
		file:       file,
		console:    console,
		fileFmt:    fileFmt,
		consoleFmt: consoleFmt,
		now:        time.Now,
	}
	s.stats.CurrentSize.Store(size)
	s.stats.StartTime = s.now()
	return s, nil
}

// Append writes an entry to the file and the console, rotating first when the
// record would push a non-empty file past the threshold. Entries below the
// configured level are counted but not written.
func (s *Sink) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err := s.ensureCurrentFile(); err != nil {
		return err
	}

	enabled := s.level.Enabled(e.Level)
	var pending int64
	if enabled {
		pending = int64(len(s.fileFmt.Format(s.record(e))))
	}

	if s.policy.ShouldRotate(s.stats.CurrentSize.Load(), pending) {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	if !enabled {
		s.stats.TotalLogsFiltered.Add(1)
		return nil
	}
	return s.write(e)
}

// Rotate archives the active file regardless of its size
func (s *Sink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.rotate()
}

// rotate renames the active file and records the rotation notice in the new one.
// Caller holds s.mu.
func (s *Sink) rotate() error {
	archivePath, err := s.rotateLogFile()
	if err != nil {
		return err
	}

	notice := NewEntry(LevelInfo, "Log file rotated to "+archivePath)
	if !s.level.Enabled(notice.Level) {
		return nil
	}
	return s.write(notice)
}

// write renders and writes one entry. Console failures are reported on stderr
// and do not fail the write. Caller holds s.mu.
func (s *Sink) write(e Entry) error {
	rec := s.record(e)

	n, err := s.file.Write(s.fileFmt.Format(rec))
	s.stats.CurrentSize.Add(int64(n))
	s.stats.TotalBytesWritten.Add(int64(n))
	if err != nil {
		return fmtErrorf("%w: failed to write to log file '%s': %w", ErrFilesystem, s.path, err)
	}
	s.stats.TotalLogsProcessed.Add(1)

	if _, err := s.console.Write(s.consoleFmt.Format(rec)); err != nil {
		internalLog("failed to write to console: %v\n", err)
	}
	return nil
}

// record maps an entry to the formatter's input
func (s *Sink) record(e Entry) formatter.Record {
	return formatter.Record{
		Time:    e.Timestamp,
		Name:    s.name,
		Level:   e.Level.String(),
		LevelNo: int64(e.Level),
		Message: e.Message,
	}
}

// Path returns the active log file path
func (s *Sink) Path() string {
	return s.path
}

// Size returns the number of bytes in the active file
func (s *Sink) Size() int64 {
	return s.stats.CurrentSize.Load()
}

// Rotations returns the number of completed rotations
func (s *Sink) Rotations() uint64 {
	return s.stats.TotalRotations.Load()
}

// BytesWritten returns the bytes written to log files across rotations
func (s *Sink) BytesWritten() int64 {
	return s.stats.TotalBytesWritten.Load()
}

// Stats returns a snapshot of the write counters, including the number of
// archived files currently on disk
func (s *Sink) Stats() Stats {
	st := s.stats.snapshot(s.now())
	if archives, err := listArchives(s.path); err == nil {
		st.Archives = len(archives)
	}
	return st
}

// Archives returns the paths of rotated copies of the log file, oldest first
func (s *Sink) Archives() ([]string, error) {
	archives, err := listArchives(s.path)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(archives))
	for _, a := range archives {
		paths = append(paths, a.path)
	}
	return paths, nil
}

// Close syncs and closes the active file. Further appends return ErrClosed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.file == nil {
		return nil
	}

	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = fmtErrorf("%w: failed to sync log file '%s': %w", ErrFilesystem, s.path, syncErr)
	}
	if closeErr := s.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("%w: failed to close log file '%s': %w", ErrFilesystem, s.path, closeErr))
	}
	s.file = nil
	return err
}
