package bus

import (
	"log/slog"
	"time"
)

// Statistics is a point-in-time view of the router's counters, safe to take
// while the dispatch loop is still running.
type Statistics struct {
	RunTime       time.Duration
	PostCount     uint64
	PostFails     uint64
	DispatchCount uint64
	DispatchFails uint64
	Throughput    float64
}

// Pending is the number of posted events not yet dispatched.
func (s Statistics) Pending() uint64 {
	if s.PostCount < s.DispatchCount {
		return 0
	}
	return s.PostCount - s.DispatchCount
}

func (s Statistics) Print() {
	slog.Info("bus statistics",
		"run_time", s.RunTime.Round(time.Millisecond),
		"posts", s.PostCount,
		"post_fails", s.PostFails,
		"dispatches", s.DispatchCount,
		"dispatch_fails", s.DispatchFails,
		"pending", s.Pending(),
		"events_per_sec", int64(s.Throughput))
}
