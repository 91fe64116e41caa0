// Package pipeline runs read, split, render and export as one job.
package pipeline

import (
	"fmt"
	"time"
)

// Stats tracks timing statistics for one run.
type Stats struct {
	// ReadTime is time spent reading and parsing the source file.
	ReadTime time.Duration

	// SplitTime is time spent splitting columns into lists.
	SplitTime time.Duration

	// WriteTime is time spent rendering and exporting.
	WriteTime time.Duration

	// Rows is the number of rows in the split table.
	Rows int64

	// Exported is the number of rows written to the target.
	Exported int64
}

// String returns a formatted summary of the stats.
func (s *Stats) String() string {
	total := s.TotalTime()
	if total == 0 {
		return "no data"
	}
	return fmt.Sprintf("read=%.1fs (%.0f%%), split=%.1fs (%.0f%%), write=%.1fs (%.0f%%), rows=%d",
		s.ReadTime.Seconds(), float64(s.ReadTime)/float64(total)*100,
		s.SplitTime.Seconds(), float64(s.SplitTime)/float64(total)*100,
		s.WriteTime.Seconds(), float64(s.WriteTime)/float64(total)*100,
		s.Rows)
}

// TotalTime returns the sum of all timing components.
func (s *Stats) TotalTime() time.Duration {
	return s.ReadTime + s.SplitTime + s.WriteTime
}

// RowsPerSecond calculates the throughput.
func (s *Stats) RowsPerSecond() float64 {
	total := s.TotalTime()
	if total == 0 {
		return 0
	}
	return float64(s.Rows) / total.Seconds()
}
