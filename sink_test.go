package logsim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

// createTestSink opens a sink in a temp directory with a message-only file format
func createTestSink(t *testing.T, modify ...func(*Builder)) (*Sink, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	b := NewBuilder().
		FilePath(path).
		LogFormat("%(message)s").
		ConsoleFormat("%(levelname)s %(message)s")
	for _, m := range modify {
		m(b)
	}
	cfg, err := b.Build()
	require.NoError(t, err)

	console := &bytes.Buffer{}
	sink, err := NewSink(cfg, console)
	require.NoError(t, err)
	sink.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = sink.Close() })

	return sink, console, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestNewSink(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		_, _, path := createTestSink(t)
		info, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("parent is a file", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		cfg, err := NewBuilder().FilePath(filepath.Join(blocker, "app.log")).Build()
		require.NoError(t, err)

		_, err = NewSink(cfg, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrFilesystem)
	})

	t.Run("invalid template", func(t *testing.T) {
		cfg, err := NewBuilder().
			FilePath(filepath.Join(t.TempDir(), "app.log")).
			LogFormat("%(bogus)s").
			Build()
		require.NoError(t, err)

		_, err = NewSink(cfg, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("resumes existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

		cfg, err := NewBuilder().FilePath(path).LogFormat("%(message)s").Build()
		require.NoError(t, err)
		sink, err := NewSink(cfg, &bytes.Buffer{})
		require.NoError(t, err)
		defer sink.Close()

		assert.Equal(t, int64(13), sink.Size())
		require.NoError(t, sink.Append(NewEntry(LevelInfo, "next")))
		assert.Equal(t, []string{"previous run", "next"}, readLines(t, path))
	})
}

func TestSinkAppend(t *testing.T) {
	sink, console, path := createTestSink(t, func(b *Builder) {
		b.LogFormat("%(levelname)s|%(name)s|%(message)s").Name("TestLogger")
	})

	require.NoError(t, sink.Append(NewEntry(LevelInfo, "hello")))
	require.NoError(t, sink.Append(NewEntry(LevelError, "bad\x1bthing")))

	assert.Equal(t, []string{
		"INFO|TestLogger|hello",
		"ERROR|TestLogger|bad<1b>thing",
	}, readLines(t, path))
	assert.Equal(t, "INFO hello\nERROR bad<1b>thing\n", console.String())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), sink.Size())
	assert.Equal(t, info.Size(), sink.BytesWritten())
	assert.Equal(t, path, sink.Path())
}

func TestSinkLevelFilter(t *testing.T) {
	sink, console, path := createTestSink(t, func(b *Builder) {
		b.Level(LevelWarning)
	})

	require.NoError(t, sink.Append(NewEntry(LevelDebug, "debug")))
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "info")))
	require.NoError(t, sink.Append(NewEntry(LevelWarning, "warning")))
	require.NoError(t, sink.Append(NewEntry(LevelCritical, "critical")))

	assert.Equal(t, []string{"warning", "critical"}, readLines(t, path))
	assert.Equal(t, "WARNING warning\nCRITICAL critical\n", console.String())

	stats := sink.Stats()
	assert.Equal(t, uint64(2), stats.Records)
	assert.Equal(t, uint64(2), stats.Filtered)
}

// TestSinkRotation writes 20-byte records against a 100-byte threshold: the
// sixth append rotates and the archive holds exactly the first five records.
func TestSinkRotation(t *testing.T) {
	sink, console, path := createTestSink(t, func(b *Builder) {
		b.MaxFileSizeBytes(100)
	})

	msg := func(i int) string { return fmt.Sprintf("message number %04d", i) }
	require.Len(t, msg(1)+"\n", 20)

	for i := 1; i <= 5; i++ {
		require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(i))))
	}
	assert.Equal(t, int64(100), sink.Size())
	assert.Equal(t, uint64(0), sink.Rotations())

	require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(6))))
	assert.Equal(t, uint64(1), sink.Rotations())

	archivePath := RotatedName(path, fixedNow)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "app.20240115_093000.log"), archivePath)
	assert.Equal(t, []string{msg(1), msg(2), msg(3), msg(4), msg(5)}, readLines(t, archivePath))

	notice := "Log file rotated to " + archivePath
	assert.Equal(t, []string{notice, msg(6)}, readLines(t, path))
	assert.Contains(t, console.String(), "INFO "+notice+"\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), sink.Size(), "size must track the new file")

	archives, err := sink.Archives()
	require.NoError(t, err)
	assert.Equal(t, []string{archivePath}, archives)
	assert.Equal(t, 1, sink.Stats().Archives)
	assert.Equal(t, int64(100)+info.Size(), sink.BytesWritten())
}

func TestSinkRotationNoticeFiltered(t *testing.T) {
	sink, _, path := createTestSink(t, func(b *Builder) {
		b.Level(LevelError)
	})

	require.NoError(t, sink.Append(NewEntry(LevelError, "before")))
	require.NoError(t, sink.Rotate())

	assert.Empty(t, readLines(t, path), "INFO notice is below the ERROR threshold")
	assert.Equal(t, int64(0), sink.Size())
	assert.Equal(t, []string{"before"}, readLines(t, RotatedName(path, fixedNow)))
}

func TestSinkRotateFailure(t *testing.T) {
	sink, _, path := createTestSink(t)
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "keep me")))

	// A non-empty directory at the archive path makes the rename fail
	archivePath := RotatedName(path, fixedNow)
	require.NoError(t, os.MkdirAll(archivePath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(archivePath, "occupied"), nil, 0o644))

	err := sink.Rotate()
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.Equal(t, uint64(0), sink.Rotations())

	// The sink keeps appending to the unrotated file
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "still here")))
	assert.Equal(t, []string{"keep me", "still here"}, readLines(t, path))
}

func TestSinkReopensRemovedFile(t *testing.T) {
	sink, _, path := createTestSink(t)
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "first")))

	require.NoError(t, os.Remove(path))
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "second")))

	assert.Equal(t, []string{"second"}, readLines(t, path))
	assert.Equal(t, int64(len("second\n")), sink.Size())
}

func TestSinkReopensReplacedFile(t *testing.T) {
	sink, _, path := createTestSink(t)
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "first")))

	// External rotation: move aside and put a new file in place
	require.NoError(t, os.Rename(path, path+".old"))
	require.NoError(t, os.WriteFile(path, []byte("external\n"), 0o644))
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "second")))

	assert.Equal(t, []string{"external", "second"}, readLines(t, path))
	assert.Equal(t, []string{"first"}, readLines(t, path+".old"))
}

func TestSinkTracksLiveFileSize(t *testing.T) {
	msg := func(i int) string { return fmt.Sprintf("message number %04d", i) }

	t.Run("external append triggers rotation", func(t *testing.T) {
		sink, _, path := createTestSink(t, func(b *Builder) {
			b.MaxFileSizeBytes(100)
		})
		require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(1))))

		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		external := strings.Repeat("x", 499)
		_, err = f.WriteString(external + "\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(2))))
		assert.Equal(t, uint64(1), sink.Rotations())

		archivePath := RotatedName(path, fixedNow)
		assert.Equal(t, []string{msg(1), external}, readLines(t, archivePath))
		assert.Equal(t, []string{"Log file rotated to " + archivePath, msg(2)}, readLines(t, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), sink.Size())
	})

	t.Run("external truncate resets size", func(t *testing.T) {
		sink, _, path := createTestSink(t, func(b *Builder) {
			b.MaxFileSizeBytes(100)
		})
		for i := 1; i <= 5; i++ {
			require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(i))))
		}
		require.Equal(t, int64(100), sink.Size())

		// copytruncate style: content copied elsewhere, file emptied in place
		require.NoError(t, os.Truncate(path, 0))

		require.NoError(t, sink.Append(NewEntry(LevelInfo, msg(6))))
		assert.Equal(t, uint64(0), sink.Rotations(), "an emptied file must not be rotated")
		assert.Equal(t, []string{msg(6)}, readLines(t, path))
		assert.Equal(t, int64(20), sink.Size())

		archives, err := sink.Archives()
		require.NoError(t, err)
		assert.Empty(t, archives)
	})
}

func TestSinkClose(t *testing.T) {
	sink, _, _ := createTestSink(t)
	require.NoError(t, sink.Append(NewEntry(LevelInfo, "x")))

	require.NoError(t, sink.Close())
	assert.NoError(t, sink.Close(), "second close is a no-op")

	assert.ErrorIs(t, sink.Append(NewEntry(LevelInfo, "y")), ErrClosed)
	assert.ErrorIs(t, sink.Rotate(), ErrClosed)
}

func TestListArchivesIgnoresUnrelated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	for _, name := range []string{
		"app.log",
		"app.20240115_093000.log",
		"app.20240116_000000.log",
		"app.notatime.log",
		"other.20240115_093000.log",
		"app.20240115_093000.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	archives, err := listArchives(path)
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, filepath.Join(dir, "app.20240115_093000.log"), archives[0].path)
	assert.Equal(t, filepath.Join(dir, "app.20240116_000000.log"), archives[1].path)

	none, err := listArchives(filepath.Join(dir, "missing", "app.log"))
	assert.NoError(t, err)
	assert.Empty(t, none)
}
