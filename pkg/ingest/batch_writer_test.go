package ingest

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/joyodb/pkg/db"
	"github.com/japaniel/joyodb/pkg/joyo"
)

func kanji(char, reading string) *joyo.Kanji {
	k := joyo.NewKanji(char)
	k.AddReading(reading)
	return k
}

func storedKanji(t *testing.T, conn *sql.DB) []string {
	t.Helper()
	list, err := db.ListKanji(conn)
	if err != nil {
		t.Fatalf("list kanji: %v", err)
	}
	chars := make([]string, len(list))
	for i, k := range list {
		chars[i] = k.Kanji
	}
	return chars
}

func TestBatchWriterSavesEntries(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	bw := NewBatchWriter(conn, 2, 0)
	var errs []error
	var mu sync.Mutex
	bw.OnError = func(e error) {
		mu.Lock()
		errs = append(errs, e)
		mu.Unlock()
	}

	bw.Submit(kanji("亜", "ア"))
	bw.Submit(kanji("哀", "アイ"))

	// Close and wait for pending batches to be committed. Use a timeout to avoid hanging tests.
	doneCh := make(chan error, 1)
	go func() {
		doneCh <- bw.Close()
	}()
	select {
	case err := <-doneCh:
		if err != nil {
			t.Fatalf("close failed: %v", err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for batch commit/close")
	}

	if got := storedKanji(t, conn); !reflect.DeepEqual(got, []string{"亜", "哀"}) {
		t.Fatalf("expected 亜 and 哀 stored, got %v", got)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBatchWriterRollsBackBatch(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	bw := NewBatchWriter(conn, 2, 0)
	boom := errors.New("intentional error")
	bw.Save = func(ctx context.Context, tx *sql.Tx, k *joyo.Kanji) error {
		if k.Kanji == "哀" {
			return boom
		}
		return SaveKanji(ctx, tx, k)
	}
	errCh := make(chan error, 1)
	bw.OnError = func(e error) {
		errCh <- e
	}

	// 亜 is saved first, 哀 fails: the whole batch rolls back.
	bw.Submit(kanji("亜", "ア"))
	bw.Submit(kanji("哀", "アイ"))

	closeErr := bw.Close()

	select {
	case err := <-errCh:
		var batchErr *BatchError
		if !errors.As(err, &batchErr) {
			t.Fatalf("expected *BatchError, got %v", err)
		}
		if !reflect.DeepEqual(batchErr.Kanji, []string{"亜", "哀"}) || !errors.Is(err, boom) {
			t.Fatalf("unexpected batch error: %v", err)
		}
	default:
		t.Fatal("expected OnError to be called")
	}
	if !errors.Is(closeErr, boom) {
		t.Fatalf("expected Close to return the batch error, got %v", closeErr)
	}

	if got := storedKanji(t, conn); len(got) != 0 {
		t.Fatalf("expected no rows after rollback, got %v", got)
	}
}

func countingSave(mu *sync.Mutex, called *int) SaveFunc {
	return func(ctx context.Context, tx *sql.Tx, k *joyo.Kanji) error {
		mu.Lock()
		*called++
		mu.Unlock()
		return nil
	}
}

func TestBatchWriterFlushesBySize(t *testing.T) {
	bw := NewBatchWriter(nil, 5, 0)
	var mu sync.Mutex
	called := 0
	bw.Save = countingSave(&mu, &called)
	for _, k := range generateBenchmarkEntries(12) {
		if err := bw.Submit(kanji(k.Kanji, "ショウ")); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if called != 12 {
		t.Fatalf("expected 12 saves, got %d", called)
	}
	if bw.Committed() != 12 {
		t.Fatalf("expected 12 committed, got %d", bw.Committed())
	}
}

func TestBatchWriterFlushesOnInterval(t *testing.T) {
	bw := NewBatchWriter(nil, 10, 50*time.Millisecond)
	var mu sync.Mutex
	called := 0
	bw.Save = countingSave(&mu, &called)
	if err := bw.Submit(kanji("亜", "ア")); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	// wait for flush interval
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	flushed := called
	mu.Unlock()
	if flushed != 1 {
		t.Fatalf("expected the ticker to flush 1 entry, got %d", flushed)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBatchWriterDropsBatchOnCancel(t *testing.T) {
	bw := NewBatchWriter(nil, 1, 0)
	defer bw.Close()
	errCh := make(chan error, 1)
	bw.OnError = func(e error) {
		errCh <- e
	}

	blocker := make(chan struct{})
	bw.Save = func(ctx context.Context, tx *sql.Tx, k *joyo.Kanji) error {
		if k.Kanji == "亜" {
			<-blocker
		}
		return nil
	}

	// The committer blocks on 亜; the next two batches fill commitCh.
	for _, k := range []*joyo.Kanji{kanji("亜", "ア"), kanji("哀", "アイ"), kanji("挨", "アイ")} {
		if err := bw.Submit(k); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	bw.cancel()

	// commitCh is full and the context is done, so this batch is dropped.
	if err := bw.Submit(kanji("愛", "アイ")); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	close(blocker)

	select {
	case e := <-errCh:
		var batchErr *BatchError
		if !errors.As(e, &batchErr) || !errors.Is(e, ErrBatchDropped) {
			t.Fatalf("unexpected OnError value: %v", e)
		}
		if !reflect.DeepEqual(batchErr.Kanji, []string{"愛"}) {
			t.Fatalf("expected 愛 to be dropped, got %v", batchErr.Kanji)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected OnError to be called when batch dropped")
	}
}

func TestBatchWriterCountsCommitted(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	bw := NewBatchWriter(conn, 2, 0)
	bw.Save = func(ctx context.Context, tx *sql.Tx, k *joyo.Kanji) error {
		if k.Kanji == "愛" {
			return errors.New("intentional error")
		}
		return SaveKanji(ctx, tx, k)
	}
	// The second batch {挨, 愛} fails.
	for _, k := range []*joyo.Kanji{kanji("亜", "ア"), kanji("哀", "アイ"), kanji("挨", "アイ"), kanji("愛", "アイ")} {
		if err := bw.Submit(k); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	if err := bw.Close(); err == nil {
		t.Fatal("expected close to report the failed batch")
	}
	if got := bw.Committed(); got != 2 {
		t.Fatalf("expected 2 committed entries, got %d", got)
	}
	if got := storedKanji(t, conn); !reflect.DeepEqual(got, []string{"亜", "哀"}) {
		t.Fatalf("expected only the first batch stored, got %v", got)
	}
	if err := bw.Submit(kanji("曖", "アイ")); err != ErrWriterClosed {
		t.Fatalf("expected ErrWriterClosed, got %v", err)
	}
}
