package logsim

import (
	"sync/atomic"
	"time"
)

// State holds the sink's runtime counters. Fields are updated under the sink
// mutex but read lock-free by the inspection surfaces.
type State struct {
	CurrentSize        atomic.Int64  // Bytes in the active file
	TotalBytesWritten  atomic.Int64  // Bytes written to files since start, across rotations
	TotalLogsProcessed atomic.Uint64 // Records written to file
	TotalLogsFiltered  atomic.Uint64 // Records below the level threshold
	TotalRotations     atomic.Uint64 // Successful rotations
	StartTime          time.Time
}

// Stats is a point-in-time copy of the sink counters
type Stats struct {
	CurrentFileSize int64   `json:"current_file_size"`
	BytesWritten    int64   `json:"bytes_written"`
	Records         uint64  `json:"records"`
	Filtered        uint64  `json:"filtered"`
	Rotations       uint64  `json:"rotations"`
	Archives        int     `json:"archives"`
	UptimeS         float64 `json:"uptime_s"`
}

// snapshot copies the counters
func (st *State) snapshot(now time.Time) Stats {
	return Stats{
		CurrentFileSize: st.CurrentSize.Load(),
		BytesWritten:    st.TotalBytesWritten.Load(),
		Records:         st.TotalLogsProcessed.Load(),
		Filtered:        st.TotalLogsFiltered.Load(),
		Rotations:       st.TotalRotations.Load(),
		UptimeS:         now.Sub(st.StartTime).Seconds(),
	}
}
