// Package ingest builds table entries concurrently and persists them in
// table order.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/japaniel/joyodb/pkg/feed"
	"github.com/japaniel/joyodb/pkg/joyo"
)

// EntryPool is the part of WorkerPool the Ingester relies on.
type EntryPool interface {
	Start(ctx context.Context)
	Submit(ctx context.Context, index int, e feed.Entry) error
	Results() <-chan Built
	Close()
}

// Ingester parses table entries and saves them to the database.
type Ingester struct {
	DB            *sql.DB
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
	// SkipBroken logs and counts entries whose notes break the table
	// grammar instead of aborting.
	SkipBroken bool
	Logger     *zap.Logger
	// OnProgress is called with the number of entries handed to the writer
	// and the total.
	OnProgress func(current, total int)

	// PoolFactory replaces NewWorkerPool when set.
	PoolFactory func(workers, queue int, build BuildFunc) EntryPool
	// BuildOptions are passed to feed.Build for every entry.
	BuildOptions []joyo.Option
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:            conn,
		Workers:       4,
		BatchSize:     50,
		FlushInterval: 100 * time.Millisecond,
		Logger:        zap.NewNop(),
	}
}

// Result summarizes an ingestion run.
type Result struct {
	// Saved is the number of entries committed.
	Saved int
	// Skipped is the number of broken entries left out under SkipBroken.
	Skipped int
	// Errors holds the errors of the skipped entries, in table order.
	Errors []error
}

func (ig *Ingester) logger() *zap.Logger {
	if ig.Logger == nil {
		return zap.NewNop()
	}
	return ig.Logger
}

// skippable reports whether err is a table grammar error rather than a
// structural or storage failure.
func skippable(err error) bool {
	return joyo.IsGrammarError(err) || errors.Is(err, joyo.ErrUnexpectedOldKanji)
}

// Ingest builds every entry on the worker pool and saves the results in
// table order through a BatchWriter. A Kanji never leaves the worker that
// built it until the build is complete.
func (ig *Ingester) Ingest(ctx context.Context, entries []feed.Entry) (Result, error) {
	log := ig.logger()
	total := len(entries)
	if total == 0 {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	workers := ig.Workers
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := append([]joyo.Option{joyo.WithLogger(log)}, ig.BuildOptions...)
	build := func(e feed.Entry) (*joyo.Kanji, error) { return feed.Build(e, opts...) }

	var wp EntryPool
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2, build)
	} else {
		wp = NewWorkerPool(workers, workers*2, build)
	}

	bw := NewBatchWriter(ig.DB, ig.BatchSize, ig.FlushInterval)
	bw.Logger = log
	bw.OnError = func(error) { cancel() }

	doneCh := make(chan error, 1)
	var result Result

	wp.Start(ctx)

	go func() {
		doneCh <- ig.consume(ctx, cancel, wp.Results(), bw, total, &result)
	}()

	var producerErr error
	for i, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if err := wp.Submit(ctx, i, e); err != nil {
			if errors.Is(err, ErrPoolClosed) || ctx.Err() != nil {
				break
			}
			producerErr = fmt.Errorf("submit entry %s: %w", e.Kanji, err)
			cancel()
			break
		}
	}

	// Close returns once the workers are gone and closes the results.
	wp.Close()

	consumerErr := <-doneCh
	closeErr := bw.Close()
	result.Saved = bw.Committed()

	switch {
	case producerErr != nil:
		return result, producerErr
	case closeErr != nil:
		return result, closeErr
	default:
		return result, consumerErr
	}
}

// consume reorders built entries to table order and submits them to the
// writer.
func (ig *Ingester) consume(ctx context.Context, cancel context.CancelFunc, results <-chan Built, bw *BatchWriter, total int, result *Result) error {
	log := ig.logger()
	pending := make(map[int]Built)
	next := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				if next < total {
					return fmt.Errorf("ingest: %d of %d entries were not built", total-next, total)
				}
				if ig.OnProgress != nil {
					ig.OnProgress(total, total)
				}
				return nil
			}
			pending[res.Index] = res

			for {
				item, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++

				if item.Err != nil {
					if !ig.SkipBroken || !skippable(item.Err) {
						cancel()
						return item.Err
					}
					log.Warn("skipping broken entry", zap.String("kanji", item.Entry.Kanji), zap.Int("line", item.Entry.Line()), zap.Error(item.Err))
					result.Skipped++
					result.Errors = append(result.Errors, item.Err)
					continue
				}

				k := item.Kanji
				if err := bw.Submit(k); err != nil {
					cancel()
					return err
				}
				log.Debug("entry queued", zap.String("kanji", k.Kanji), zap.Int("readings", len(k.Readings)))

				if ig.OnProgress != nil && next%batchOrOne(ig.BatchSize) == 0 {
					ig.OnProgress(next, total)
				}
			}
		}
	}
}

func batchOrOne(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
