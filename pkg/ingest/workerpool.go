package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/japaniel/joyodb/pkg/feed"
	"github.com/japaniel/joyodb/pkg/joyo"
)

// BuildFunc turns one table entry into a Kanji.
type BuildFunc func(feed.Entry) (*joyo.Kanji, error)

// Built is the outcome of building the entry at Index of the table.
type Built struct {
	Index int
	Entry feed.Entry
	Kanji *joyo.Kanji
	Err   error
}

type queuedEntry struct {
	index int
	entry feed.Entry
}

// WorkerPool builds entries on a fixed number of goroutines and delivers
// them on Results in completion order. A Kanji is only touched by the
// worker building it until it is delivered.
type WorkerPool struct {
	queue   chan queuedEntry
	results chan Built
	done    chan struct{}
	build   BuildFunc
	wg      sync.WaitGroup
	workers int

	// mu is held for reading by submitters and for writing while the queue
	// is closed.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewWorkerPool creates a pool of workers sharing a queue of the given
// capacity. A nil build uses feed.Build without options.
func NewWorkerPool(workers, queue int, build BuildFunc) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	if build == nil {
		build = func(e feed.Entry) (*joyo.Kanji, error) { return feed.Build(e) }
	}
	return &WorkerPool{
		queue:   make(chan queuedEntry, queue),
		results: make(chan Built, queue),
		done:    make(chan struct{}),
		build:   build,
		workers: workers,
	}
}

// Start runs the workers until ctx is done or Close has drained the queue.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case q, ok := <-p.queue:
					if !ok {
						return
					}
					k, err := p.build(q.entry)
					select {
					case p.results <- Built{Index: q.index, Entry: q.entry, Kanji: k, Err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}
}

// Results delivers built entries. It is closed when Close returns.
func (p *WorkerPool) Results() <-chan Built { return p.results }

// Submit queues the entry found at index in the table, blocking while the
// queue is full. It fails with a *SubmitError wrapping ErrPoolClosed or
// ctx.Err().
func (p *WorkerPool) Submit(ctx context.Context, index int, e feed.Entry) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return &SubmitError{Index: index, Kanji: e.Kanji, Err: ErrPoolClosed}
	}
	select {
	case p.queue <- queuedEntry{index: index, entry: e}:
		return nil
	case <-ctx.Done():
		return &SubmitError{Index: index, Kanji: e.Kanji, Err: ctx.Err()}
	case <-p.done:
		return &SubmitError{Index: index, Kanji: e.Kanji, Err: ErrPoolClosed}
	}
}

// Close stops accepting entries, waits for the workers to build what is
// queued and closes Results. Results must be drained meanwhile unless the
// context given to Start is done.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
		close(p.results)
	})
}

// ErrPoolClosed is returned for entries submitted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// SubmitError names the entry that could not be queued.
type SubmitError struct {
	Index int
	Kanji string
	Err   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("queue entry %d (%s): %v", e.Index, e.Kanji, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
