package vectorDB

import (
	"context"

	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
)

// Store is the nearest-neighbor index the pipeline writes to and the
// retrieval service reads from. The index is external and eventually
// consistent - a record upserted just before a query may not appear.
type Store interface {
	EnsureCollection(ctx context.Context) error

	// Upsert writes records in fixed-size batches. A failed batch is
	// recorded with its index and later batches still run; the caller
	// gets the count written plus the per-batch result list.
	Upsert(ctx context.Context, records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error)

	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]policyModel.Match, error)

	// PruneStale deletes records of source with chunk_index >= fromIndex,
	// converging the index after a re-chunk that produced fewer chunks.
	PruneStale(ctx context.Context, source string, fromIndex int) error

	Close() error
}
