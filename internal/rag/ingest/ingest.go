package ingest

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag/chunker"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
	"github.com/akolanti/FaqSearch/internal/rag/tokenizer"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

// Pipeline runs extract -> chunk -> embed -> upsert over a batch of
// documents. Documents are independent: one failing never aborts the
// others, the summary records what happened to each.
type Pipeline struct {
	embedder      embedding.Embedder
	store         vectorDB.Store
	codec         tokenizer.Codec
	overlapTokens int
	workers       int
	logger        *logger_i.Logger
}

func NewPipeline(e embedding.Embedder, store vectorDB.Store, codec tokenizer.Codec, overlapTokens int, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		embedder:      e,
		store:         store,
		codec:         codec,
		overlapTokens: overlapTokens,
		workers:       workers,
		logger:        logger_i.NewLogger("Document Ingestion"),
	}
}

func (p *Pipeline) Run(ctx context.Context, pattern string, maxChunkTokens int) (policyModel.IngestReport, error) {
	const op = "ingest.Run"
	log := p.logger.WithTrace(ctx)

	ck, err := chunker.New(p.codec, maxChunkTokens, p.overlapTokens)
	if err != nil {
		return policyModel.IngestReport{}, err
	}

	files, err := filepath.Glob(pattern)
	if err != nil {
		return policyModel.IngestReport{}, ragError.Wrap(ragError.KindValidation, op, err)
	}
	if len(files) == 0 {
		log.Warn("No documents found", "pattern", pattern)
		return policyModel.IngestReport{}, nil
	}
	log.Info("Found documents", "count", len(files), "pattern", pattern)

	if err := p.store.EnsureCollection(ctx); err != nil {
		return policyModel.IngestReport{}, err
	}

	jobs := make(chan string)
	results := make(chan policyModel.DocumentReport, len(files))
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.processDocument(ctx, ck, path)
			}
		}()
	}

	//stop feeding on cancellation, in-flight documents finish on their own
feed:
	for _, path := range files {
		select {
		case jobs <- path:
		case <-ctx.Done():
			log.Warn("Ingestion cancelled, not submitting remaining documents", "error", ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var report policyModel.IngestReport
	for doc := range results {
		report.Documents = append(report.Documents, doc)
		report.TotalChunks += doc.Chunks
		report.TotalRecords += doc.Records
		for _, b := range doc.Batches {
			if b.Err != nil {
				report.FailedBatches++
			}
		}
		switch doc.Status {
		case policyModel.DocumentCompleted:
			report.Processed++
		case policyModel.DocumentSkipped:
			report.Skipped++
		case policyModel.DocumentFailed:
			report.Failed++
		}
	}

	log.Info("Ingestion finished",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"chunks", report.TotalChunks,
		"records", report.TotalRecords,
		"failed batches", report.FailedBatches)
	return report, nil
}
