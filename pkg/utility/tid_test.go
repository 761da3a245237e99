package utility

import (
	"sync"
	"testing"
	"time"
)

func TestUtility_CreateTraceIDUnique(t *testing.T) {
	const n = 1000

	seen := make(map[TraceID]struct{}, n)
	for i := 0; i < n; i++ {
		id := CreateTraceID()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate trace id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestUtility_CreateTraceIDConcurrent(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[TraceID]struct{}, goroutines*perGoroutine)

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id := CreateTraceID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("expected %d unique ids, got %d", goroutines*perGoroutine, len(seen))
	}
}

func TestUtility_ParseTraceID(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := CreateTraceID()
	after := time.Now().Add(time.Second)

	ts, machine, seq := ParseTraceID(id)
	if ts.Before(before) || ts.After(after) {
		t.Errorf("parsed timestamp %v outside [%v, %v]", ts, before, after)
	}
	if machine > maxMachine {
		t.Errorf("machine %d out of range", machine)
	}
	if seq > maxSequence {
		t.Errorf("sequence %d out of range", seq)
	}
}
