package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunGuard_RejectsConcurrentRunForSameKey(t *testing.T) {
	guard := NewRunGuard()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = guard.Run(context.Background(), "pipeline", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := guard.Run(context.Background(), "pipeline", func(context.Context) error {
		t.Fatalf("second run must not execute")
		return nil
	})
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if _, ok := guard.Running("pipeline"); !ok {
		t.Fatalf("expected pipeline to be reported as running")
	}

	if err := guard.Run(context.Background(), "other", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("different key should run, got %v", err)
	}

	close(release)
	wg.Wait()

	if _, ok := guard.Running("pipeline"); ok {
		t.Fatalf("expected pipeline to be released")
	}
}

func TestRunGuard_ReleasesAfterError(t *testing.T) {
	guard := NewRunGuard()
	boom := errors.New("boom")

	if err := guard.Run(context.Background(), "pipeline", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var calls atomic.Int32
	if err := guard.Run(context.Background(), "pipeline", func(context.Context) error {
		calls.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected second run to execute")
	}
}

func TestRunGuard_OnlyOneOfManyConcurrentCallersRuns(t *testing.T) {
	guard := NewRunGuard()
	var executed, rejected atomic.Int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			err := guard.Run(context.Background(), "pipeline", func(context.Context) error {
				executed.Add(1)
				time.Sleep(50 * time.Millisecond)
				return nil
			})
			if errors.Is(err, ErrRunInProgress) {
				rejected.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if executed.Load()+rejected.Load() != callers {
		t.Fatalf("executed %d + rejected %d != %d", executed.Load(), rejected.Load(), callers)
	}
	if executed.Load() < 1 {
		t.Fatalf("expected at least one run")
	}
}

type sharedLocker struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func (l *sharedLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

func TestRunGuard_SharedLockerBlocksOtherGuard(t *testing.T) {
	locker := &sharedLocker{}
	scheduler := NewRunGuard(WithLocker(locker))
	api := NewRunGuard(WithLocker(locker))

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(context.Background(), "pipeline", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := api.Run(context.Background(), "pipeline", func(context.Context) error {
		t.Fatalf("run on the second guard must not execute")
		return nil
	})
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if _, ok := api.Running("pipeline"); ok {
		t.Fatalf("rejected guard must not keep the key")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}

	var calls atomic.Int32
	if err := api.Run(context.Background(), "pipeline", func(context.Context) error {
		calls.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("run after release: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected run after release to execute")
	}
}

func TestRunGuard_LockerErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	guard := NewRunGuard(WithLocker(&sharedLocker{err: boom}))

	err := guard.Run(context.Background(), "pipeline", func(context.Context) error {
		t.Fatalf("run must not execute without the lock")
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected locker error, got %v", err)
	}
	if errors.Is(err, ErrRunInProgress) {
		t.Fatalf("locker failure is not a busy run: %v", err)
	}
	if _, ok := guard.Running("pipeline"); ok {
		t.Fatalf("expected key to be released")
	}
}
