package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"papertrade/pkg/common"
	"papertrade/pkg/utility/fixed"
)

func TestRouter_PostAndDispatch(t *testing.T) {
	router := NewRouter(16)

	received := make(chan common.Tick, 1)
	router.TickHandler = func(_ context.Context, tick common.Tick) {
		received <- tick
	}

	ctx, cancel := context.WithCancel(context.Background())
	go router.Exec(ctx)

	tick := common.Tick{Symbol: "EURUSD", Last: fixed.FromFloat64(1.1000)}
	if err := router.Post(TickEvent, tick); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if got.Symbol != "EURUSD" || !got.Last.Eq(tick.Last) {
			t.Errorf("got %+v, want %+v", got, tick)
		}
	case <-time.After(time.Second):
		t.Fatal("tick handler was not invoked")
	}

	cancel()
	select {
	case <-router.Done():
	case <-time.After(time.Second):
		t.Fatal("router did not stop")
	}
}

func TestRouter_PostCapacityReached(t *testing.T) {
	router := NewRouter(1)

	if err := router.Post(TickEvent, common.Tick{}); err != nil {
		t.Fatal(err)
	}
	if err := router.Post(TickEvent, common.Tick{}); err == nil {
		t.Error("expected capacity error on second post")
	}
}

func TestRouter_ConcurrentPost(t *testing.T) {
	const producers = 4
	const postsPerProducer = 200

	router := NewRouter(producers * postsPerProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < postsPerProducer; i++ {
				_ = router.Post(TickEvent, common.Tick{Symbol: "EURUSD"})
			}
		}()
	}
	wg.Wait()

	stats := router.Statistics()
	if got := stats.PostCount + stats.PostFails; got != producers*postsPerProducer {
		t.Errorf("post count = %d, want %d", got, producers*postsPerProducer)
	}
}

func TestRouter_DispatchWrongType(t *testing.T) {
	router := NewRouter(1)
	if err := router.dispatch(context.Background(), event{TickEvent, "not a tick"}); err == nil {
		t.Error("expected type assertion error")
	}
}

func TestRouter_MergeHandlers(t *testing.T) {
	var calls int
	h := MergeHandlers[common.Tick](
		func(context.Context, common.Tick) { calls++ },
		func(context.Context, common.Tick) { calls++ },
	)
	h(context.Background(), common.Tick{})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
