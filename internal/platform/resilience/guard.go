package resilience

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrRunInProgress is returned when a run for the same key is already executing.
var ErrRunInProgress = crerr.New("run already in progress")

// Locker extends a guard across processes. TryLock reports ok=false when another holder
// owns key; release must be called once the run ends.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}

// RunGuard lets at most one run per key execute. A second caller fails fast instead of
// queueing behind the first. With a Locker the guard also covers other processes.
type RunGuard struct {
	mu      sync.Mutex
	running map[string]time.Time
	now     func() time.Time
	locker  Locker
}

type GuardOption func(*RunGuard)

// WithLocker backs the in-process map with a shared lock.
func WithLocker(locker Locker) GuardOption {
	return func(g *RunGuard) {
		g.locker = locker
	}
}

func NewRunGuard(opts ...GuardOption) *RunGuard {
	g := &RunGuard{
		running: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes fn while holding key.
func (g *RunGuard) Run(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := g.acquire(key); err != nil {
		return err
	}
	defer g.release(key)

	if g.locker != nil {
		unlock, ok, err := g.locker.TryLock(ctx, key)
		if err != nil {
			return crerr.Wrapf(err, "acquire %s lock", key)
		}
		if !ok {
			return crerr.Wrapf(ErrRunInProgress, "%s held by another process", key)
		}
		defer unlock()
	}

	return fn(ctx)
}

// Running reports whether key is held by this process and since when.
func (g *RunGuard) Running(key string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	startedAt, ok := g.running[key]
	return startedAt, ok
}

func (g *RunGuard) acquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running == nil {
		g.running = make(map[string]time.Time)
	}
	if startedAt, ok := g.running[key]; ok {
		return crerr.Wrapf(ErrRunInProgress, "%s started at %s", key, startedAt.UTC().Format(time.RFC3339))
	}
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	g.running[key] = now()
	return nil
}

func (g *RunGuard) release(key string) {
	g.mu.Lock()
	delete(g.running, key)
	g.mu.Unlock()
}
