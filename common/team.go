package common

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidTeamSize is returned by NewTeam for a non-positive size.
	ErrInvalidTeamSize = errors.New("common: team size must be > 0")

	// ErrBarrierBroken is returned from Sync once any worker of the team has
	// failed; the remaining workers must unwind instead of waiting forever.
	ErrBarrierBroken = errors.New("common: barrier broken")

	// ErrWorkerPanic wraps a panic recovered inside a worker.
	ErrWorkerPanic = errors.New("common: worker panicked")
)

// Barrier is a reusable rendezvous point for a fixed number of parties.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
	broken     bool
}

// NewBarrier returns a barrier for parties goroutines.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have called Wait for the current generation.
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return ErrBarrierBroken
	}
	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return nil
	}
	for gen == b.generation && !b.broken {
		b.cond.Wait()
	}
	if gen == b.generation {
		return ErrBarrierBroken
	}
	return nil
}

// Break releases every waiter with ErrBarrierBroken. It is permanent.
func (b *Barrier) Break() {
	b.mu.Lock()
	b.broken = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Span is the half-open index range [Lo, Hi) owned by one worker.
type Span struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (s Span) Len() int { return s.Hi - s.Lo }

// Partition splits [0, n) into parts contiguous chunks of
// (n + parts - 1) / parts elements and returns chunk id. Trailing chunks may
// be empty when n is small.
func Partition(n, parts, id int) Span {
	chunk := (n + parts - 1) / parts
	lo := min(id*chunk, n)
	hi := min(lo+chunk, n)
	return Span{Lo: lo, Hi: hi}
}

// Team is a fixed-size group of workers executing one parallel region at a
// time, synchronized by a barrier between phases.
type Team struct {
	size int
}

// NewTeam returns a team of size workers.
func NewTeam(size int) (*Team, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamSize, size)
	}
	return &Team{size: size}, nil
}

// Size returns the number of workers.
func (t *Team) Size() int { return t.size }

// Worker is the handle a region body receives.
type Worker struct {
	ID   int
	team *Team
	ctx  context.Context
	bar  *Barrier
}

// Span returns this worker's static chunk of [0, n).
func (w *Worker) Span(n int) Span {
	return Partition(n, w.team.size, w.ID)
}

// Size returns the team size.
func (w *Worker) Size() int { return w.team.size }

// Sync is the phase barrier. Every worker must call it the same number of
// times; it fails once the region has been cancelled or a sibling failed.
func (w *Worker) Sync() error {
	if err := w.ctx.Err(); err != nil {
		w.bar.Break()
		return err
	}
	return w.bar.Wait()
}

// Run executes body on every worker concurrently and waits for all of them.
// A worker that returns an error or panics breaks the barrier, so siblings
// blocked in Sync unwind; the first such cause is returned.
func (t *Team) Run(ctx context.Context, body func(w *Worker) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bar := NewBarrier(t.size)
	g, gctx := errgroup.WithContext(ctx)

	var (
		once  sync.Once
		cause error
	)
	fail := func(err error) {
		if !errors.Is(err, ErrBarrierBroken) {
			once.Do(func() { cause = err })
		}
		bar.Break()
	}

	for id := 0; id < t.size; id++ {
		w := &Worker{ID: id, team: t, ctx: gctx, bar: bar}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, w.ID, r)
				}
				if err != nil {
					fail(err)
				}
			}()
			return body(w)
		})
	}

	err := g.Wait()
	if cause != nil {
		return cause
	}
	return err
}

// ParallelFor splits [0, n) across the team and calls task once per
// non-empty chunk. It is a single phase region: no Sync inside task.
func (t *Team) ParallelFor(ctx context.Context, n int, task func(s Span)) error {
	if n <= 0 {
		return nil
	}
	// Not worth spawning goroutines for less work than workers.
	if n < t.size {
		task(Span{Lo: 0, Hi: n})
		return nil
	}
	return t.Run(ctx, func(w *Worker) error {
		if s := w.Span(n); s.Len() > 0 {
			task(s)
		}
		return nil
	})
}
