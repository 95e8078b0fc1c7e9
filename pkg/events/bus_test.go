package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_DeliversToSubscribers(t *testing.T) {
	bus := NewBus(time.Second)

	var created, finished atomic.Int32
	bus.Subscribe("created", "a", func(ctx context.Context, e Event) error {
		created.Add(1)
		return nil
	})
	bus.Subscribe("created", "b", func(ctx context.Context, e Event) error {
		created.Add(1)
		return errors.New("subscriber failure is only logged")
	})
	bus.Subscribe("finished", "c", func(ctx context.Context, e Event) error {
		finished.Add(1)
		return nil
	})

	bus.Publish(context.Background(), testEvent{"created"})
	bus.Close()

	if created.Load() != 2 {
		t.Errorf("created handlers ran %d times, want 2", created.Load())
	}
	if finished.Load() != 0 {
		t.Errorf("finished handler ran %d times, want 0", finished.Load())
	}
}

func TestBus_RecoversFromPanics(t *testing.T) {
	bus := NewBus(time.Second)

	var ran atomic.Bool
	bus.Subscribe("created", "panicky", func(ctx context.Context, e Event) error {
		panic("boom")
	})
	bus.Subscribe("created", "steady", func(ctx context.Context, e Event) error {
		ran.Store(true)
		return nil
	})

	bus.Publish(context.Background(), testEvent{"created"})
	bus.Close()

	if !ran.Load() {
		t.Error("a panicking subscriber must not prevent the others")
	}
}

func TestBus_HandlersOutliveRequestContext(t *testing.T) {
	bus := NewBus(time.Second)

	errs := make(chan error, 1)
	bus.Subscribe("created", "slow", func(ctx context.Context, e Event) error {
		time.Sleep(20 * time.Millisecond)
		errs <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{"created"})
	cancel()
	bus.Close()

	if err := <-errs; err != nil {
		t.Errorf("handler context error = %v, want nil", err)
	}
}

func TestBus_DropsAfterClose(t *testing.T) {
	bus := NewBus(time.Second)

	var ran atomic.Bool
	bus.Subscribe("created", "late", func(ctx context.Context, e Event) error {
		ran.Store(true)
		return nil
	})

	bus.Close()
	bus.Publish(context.Background(), testEvent{"created"})
	bus.Close()

	if ran.Load() {
		t.Error("events published after Close must be dropped")
	}
}
