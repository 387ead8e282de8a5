package services

import (
	"context"
	"time"

	"github.com/remoteindex/remoteindex/internal/db"
	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
)

// Batched writer defaults.
const (
	// DefaultWriterMaxSize is the flush threshold in buffered postings
	DefaultWriterMaxSize = 50
	// DefaultWriterMaxWait is the flush threshold in buffer age
	DefaultWriterMaxWait = 5 * time.Second
)

// BatchWriter buffers new-posting inserts and flushes them as bounded
// batches. A flush triggers on whichever limit is hit first: buffer size or
// buffer age. The caller must call Flush at end of run to persist a partial
// buffer below both triggers.
type BatchWriter struct {
	postings *repos.PostingRepository
	log      *RunLog

	maxSize int
	maxWait time.Duration

	buf        []*models.JobPosting
	firstAdded time.Time
	now        func() time.Time

	added   int
	skipped int
}

// NewBatchWriter creates a writer over the posting repository.
func NewBatchWriter(postings *repos.PostingRepository, maxSize int, maxWait time.Duration, log *RunLog) *BatchWriter {
	if maxSize <= 0 {
		maxSize = DefaultWriterMaxSize
	}
	if maxWait <= 0 {
		maxWait = DefaultWriterMaxWait
	}
	return &BatchWriter{
		postings: postings,
		log:      log,
		maxSize:  maxSize,
		maxWait:  maxWait,
		now:      time.Now,
	}
}

// Add buffers one posting, flushing immediately when the size limit is
// reached or the oldest buffered posting has waited past the time limit.
func (w *BatchWriter) Add(ctx context.Context, posting *models.JobPosting) error {
	if len(w.buf) == 0 {
		w.firstAdded = w.now()
	}
	w.buf = append(w.buf, posting)

	if len(w.buf) >= w.maxSize || w.now().Sub(w.firstAdded) >= w.maxWait {
		return w.Flush(ctx)
	}
	return nil
}

// Flush attempts one bulk insert of the buffer. When the bulk insert fails,
// it falls back to inserting items individually so that only genuinely
// conflicting rows are skipped. The buffer is always drained.
func (w *BatchWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	batch := w.buf
	w.buf = nil

	if err := w.postings.CreateBatch(ctx, batch); err == nil {
		w.added += len(batch)
		return nil
	}

	// Bulk insert failed, retry row by row. Duplicate-key conflicts are
	// expected under concurrent runs and count as skipped, not failed.
	for _, posting := range batch {
		item := *posting
		item.ID = 0
		if err := w.postings.Create(ctx, &item); err != nil {
			if db.IsDuplicateKeyError(err) {
				w.skipped++
				continue
			}
			w.log.Errorf("failed to insert posting %q: %v", item.SourceURL, err)
			continue
		}
		w.added++
	}
	return nil
}

// Counts reports how many postings were inserted and how many were skipped
// as conflicts so far.
func (w *BatchWriter) Counts() (added, skipped int) {
	return w.added, w.skipped
}

// Buffered reports how many postings are waiting for the next flush.
func (w *BatchWriter) Buffered() int {
	return len(w.buf)
}
