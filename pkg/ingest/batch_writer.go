package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/japaniel/joyodb/pkg/db"
	"github.com/japaniel/joyodb/pkg/joyo"
)

// SaveFunc stores one entry inside the batch transaction. tx is nil when the
// writer has no database.
type SaveFunc func(ctx context.Context, tx *sql.Tx, k *joyo.Kanji) error

// SaveKanji is the default SaveFunc. Without a transaction it does nothing.
func SaveKanji(_ context.Context, tx *sql.Tx, k *joyo.Kanji) error {
	if tx == nil {
		return nil
	}
	if _, err := db.SaveKanji(tx, k); err != nil {
		return fmt.Errorf("save %s: %w", k.Kanji, err)
	}
	return nil
}

// BatchWriter collects built entries and saves each batch in one
// transaction, so an entry is stored with all its readings or not at all.
// One failing entry rolls back its whole batch.
type BatchWriter struct {
	mu          sync.Mutex
	buf         []*joyo.Kanji
	size        int
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	commitCh chan []*joyo.Kanji
	db       *sql.DB
	Save     SaveFunc
	OnError  func(error)
	Logger   *zap.Logger

	committed atomic.Int64

	// firstErr is returned by Close.
	errMu    sync.Mutex
	firstErr error
}

// NewBatchWriter creates a writer that flushes when batchSize entries are
// pending or, if flushInterval is positive, on every tick.
func NewBatchWriter(conn *sql.DB, batchSize int, flushInterval time.Duration) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		buf:      make([]*joyo.Kanji, 0, batchSize),
		size:     batchSize,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []*joyo.Kanji, 2),
		db:       conn,
		Save:     SaveKanji,
		Logger:   zap.NewNop(),
	}

	bw.wg.Add(1)
	go bw.committer()

	if flushInterval > 0 {
		bw.flushTicker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Submit adds a built entry to the current batch. It blocks while the
// committer is two batches behind.
func (bw *BatchWriter) Submit(k *joyo.Kanji) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrWriterClosed
	}
	bw.buf = append(bw.buf, k)
	if len(bw.buf) >= bw.size {
		bw.flushLocked()
	}
	return nil
}

// Committed returns the number of entries whose batch was committed.
func (bw *BatchWriter) Committed() int {
	return int(bw.committed.Load())
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]*joyo.Kanji, 0, bw.size)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.fail(newBatchError(batch, ErrBatchDropped))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.firstErr == nil {
		bw.firstErr = err
	}
	bw.errMu.Unlock()
	bw.Logger.Error("batch not saved", zap.Error(err))
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		start := time.Now()
		if err := bw.saveBatch(batch); err != nil {
			bw.fail(newBatchError(batch, err))
			continue
		}
		bw.committed.Add(int64(len(batch)))
		bw.Logger.Debug("batch saved",
			zap.Int("entries", len(batch)),
			zap.String("first", batch[0].Kanji),
			zap.Duration("took", time.Since(start)))
	}
}

func (bw *BatchWriter) saveBatch(batch []*joyo.Kanji) error {
	if bw.db == nil {
		for _, k := range batch {
			if err := bw.Save(bw.ctx, nil, k); err != nil {
				return err
			}
		}
		return nil
	}

	// Batches still pending at Close are saved after bw.ctx is canceled.
	ctx := context.Background()

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, k := range batch {
		if err := bw.Save(ctx, tx, k); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.flushTicker.C:
			bw.mu.Lock()
			bw.flushLocked()
			bw.mu.Unlock()
		}
	}
}

// Close stops accepting entries, saves what is buffered and returns the
// first error seen by the writer.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrWriterClosed
	}
	bw.closed = true
	if bw.flushTicker != nil {
		bw.flushTicker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	bw.cancel()
	close(bw.commitCh)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

var (
	// ErrWriterClosed is returned by Submit and Close once the writer is
	// closed.
	ErrWriterClosed = errors.New("batch writer closed")
	// ErrBatchDropped is reported for a batch flushed after the writer's
	// context was canceled.
	ErrBatchDropped = errors.New("batch dropped after cancellation")
)

// BatchError reports a batch that was rolled back or dropped. Kanji lists
// its entries in table order.
type BatchError struct {
	Kanji []string
	Err   error
}

func newBatchError(batch []*joyo.Kanji, err error) *BatchError {
	chars := make([]string, len(batch))
	for i, k := range batch {
		chars[i] = k.Kanji
	}
	return &BatchError{Kanji: chars, Err: err}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s not saved: %v", strings.Join(e.Kanji, ","), e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
