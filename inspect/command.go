package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/logsim"
)

const (
	// Entries returned by "tail" without an argument
	defaultTail = 20
	// Upper bound for "tail n"
	maxTail = logsim.RecentCapacity
)

const helpText = `commands:
  tail [n]  last n entries (default 20, max 100)
  count     number of buffered entries
  config    configuration snapshot
  stats     sink counters
  dump      detailed configuration and counters
  help      this text
  quit      close the connection
`

// Execute runs one command line against logger and returns the reply. quit is
// true when the connection should be closed after the reply is written.
func Execute(logger *logsim.Logger, line string) (reply string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	switch strings.ToLower(fields[0]) {
	case "tail":
		n := defaultTail
		if len(fields) > 1 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				return "ERR invalid count\n", false
			}
			n = min(parsed, maxTail)
		}
		return formatEntries(logger.Recent().Tail(n)), false

	case "count":
		return strconv.Itoa(logger.Recent().Size()) + "\n", false

	case "config":
		var sb strings.Builder
		for _, kv := range logger.Config().Pairs() {
			fmt.Fprintf(&sb, "%s=%v\n", kv.Key, kv.Value)
		}
		return sb.String(), false

	case "stats":
		st := logger.Sink().Stats()
		return fmt.Sprintf("count=%d\nrecords=%d\nfiltered=%d\nrotations=%d\narchives=%d\nbytes_written=%d\ncurrent_file_size=%d\nuptime_s=%.1f\n",
			logger.Recent().Size(), st.Records, st.Filtered, st.Rotations, st.Archives,
			st.BytesWritten, st.CurrentFileSize, st.UptimeS), false

	case "dump":
		return logsim.Dump(logger.Config()) + "\n" + logsim.Dump(logger.Sink().Stats()) + "\n", false

	case "help":
		return helpText, false

	case "quit", "exit":
		return "bye\n", true

	default:
		return "ERR unknown command\n", false
	}
}

// Reply to "tail" when the buffer holds nothing yet
const noEntries = "(no entries)\n"

// formatEntries renders one entry per line: timestamp, level, message
func formatEntries(entries []logsim.Entry) string {
	if len(entries) == 0 {
		return noEntries
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Timestamp.Format(logsim.EntryTimeLayout))
		sb.WriteByte(' ')
		sb.WriteString(e.Level.String())
		sb.WriteByte(' ')
		sb.WriteString(e.Message)
		sb.WriteByte('\n')
	}
	return sb.String()
}
