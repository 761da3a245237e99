package bus

import (
	"testing"
	"time"
)

func TestStatistics_Pending(t *testing.T) {
	testCases := []struct {
		name  string
		stats Statistics
		want  uint64
	}{
		{"backlog", Statistics{PostCount: 10, DispatchCount: 7}, 3},
		{"drained", Statistics{PostCount: 10, DispatchCount: 10}, 0},
		{"reset mid-run never underflows", Statistics{PostCount: 2, DispatchCount: 5}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stats.Pending(); got != tc.want {
				t.Errorf("Pending() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRouter_StatisticsSnapshot(t *testing.T) {
	router := NewRouter(4)
	for i := 0; i < 3; i++ {
		if err := router.Post(TickEvent, struct{}{}); err != nil {
			t.Fatal(err)
		}
	}

	stats := router.Statistics()
	if stats.PostCount != 3 {
		t.Errorf("PostCount = %d, want 3", stats.PostCount)
	}
	if stats.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", stats.Pending())
	}
	if stats.RunTime < time.Nanosecond {
		t.Errorf("RunTime = %v, want at least a nanosecond floor", stats.RunTime)
	}
}
