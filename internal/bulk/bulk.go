// Package bulk partitions mass mutations into batches the backing store can
// apply atomically, and runs them strictly one after another.
package bulk

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
	"github.com/campusboard/feedengine/internal/logger"
)

var (
	batchesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_committed_total",
		Help: "Bulk mutation batches applied successfully",
	})
	batchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_failed_total",
		Help: "Bulk mutation batches that returned an error",
	})
)

// Plan partitions ids into contiguous batches of at most chunkSize. Every id
// lands in exactly one batch.
func Plan(ids []domain.AnnouncementId, chunkSize int) [][]domain.AnnouncementId {
	if chunkSize < 1 {
		chunkSize = 1
	}
	var batches [][]domain.AnnouncementId
	for lo := 0; lo < len(ids); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(ids) {
			hi = len(ids)
		}
		batches = append(batches, ids[lo:hi])
	}
	return batches
}

// Apply commits one batch. It must be atomic: either the whole batch lands
// or none of it does.
type Apply func(ctx context.Context, batch []domain.AnnouncementId) error

// Run applies batches sequentially, each awaited before the next starts.
// A failure stops the sequence: earlier batches stay committed, the failing
// batch and everything after it never applies, and the caller gets a
// PartialBatchFailure with exact counts. There is no rollback and no retry.
func Run(ctx context.Context, batches [][]domain.AnnouncementId, apply Apply) error {
	succeeded := 0
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			// caller torn down mid-sequence: stop issuing further batches
			return partialFailure(succeeded, batches[i:], err)
		}
		if err := apply(ctx, batch); err != nil {
			batchesFailed.Inc()
			logger.Log.Error("bulk batch failed",
				"component", "bulk",
				"batch", i,
				"batch_size", len(batch),
				"committed", succeeded,
				"error", err)
			return partialFailure(succeeded, batches[i:], err)
		}
		succeeded += len(batch)
		batchesCommitted.Inc()
	}
	return nil
}

func partialFailure(succeeded int, remaining [][]domain.AnnouncementId, err error) error {
	failed := 0
	for _, b := range remaining {
		failed += len(b)
	}
	return &errors.PartialBatchFailure{Succeeded: succeeded, Failed: failed, Err: err}
}
