package ingest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/metrics"
	"github.com/akolanti/FaqSearch/internal/rag/chunker"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
)

// embedBatchSize caps one embedding call during ingestion.
const embedBatchSize = 100

func (p *Pipeline) processDocument(ctx context.Context, ck *chunker.Chunker, path string) policyModel.DocumentReport {
	filename := filepath.Base(path)
	log := p.logger.WithTrace(ctx).With("document", filename)
	report := policyModel.DocumentReport{Source: filename}

	text, err := extractText(path)
	if err != nil {
		log.Error("Extraction failed, skipping document", "error", err)
		report.Status = policyModel.DocumentSkipped
		report.Reason = err.Error()
		metrics.CountDocumentIngested(string(report.Status))
		return report
	}
	if text == "" {
		//likely a scanned image without a text layer, no OCR fallback in scope
		log.Warn("No text extracted, skipping document")
		report.Status = policyModel.DocumentSkipped
		report.Reason = "no text extracted"
		metrics.CountDocumentIngested(string(report.Status))
		return report
	}

	texts := ck.Split(text)
	report.Chunks = len(texts)
	metrics.CountChunksCreated(len(texts))
	log.Debug("Chunked document", "chunks", len(texts))

	vectors, failedChunks := p.embedChunks(ctx, texts)
	report.FailedChunks = failedChunks

	records := buildRecords(filename, texts, vectors)
	if len(records) == 0 {
		log.Error("All chunks failed embedding", "chunks", len(texts))
		report.Status = policyModel.DocumentFailed
		report.Reason = "all chunks failed embedding"
		metrics.CountDocumentIngested(string(report.Status))
		return report
	}

	upsertCtx, cancel := context.WithTimeout(ctx, config.VectorCallTimeout)
	written, batches, err := p.store.Upsert(upsertCtx, records)
	cancel()
	report.Batches = batches
	report.Records = written
	if err != nil {
		log.Error("Upsert rejected", "error", err)
		report.Status = policyModel.DocumentFailed
		report.Reason = err.Error()
		metrics.CountDocumentIngested(string(report.Status))
		return report
	}
	metrics.CountRecordsUpserted(written)

	//best-effort: a re-chunk that produced fewer chunks leaves orphans at
	//the tail of the old id range, drop them now
	pruneCtx, cancel := context.WithTimeout(ctx, config.VectorCallTimeout)
	if err := p.store.PruneStale(pruneCtx, filename, len(texts)); err != nil {
		log.Warn("Stale record prune failed", "error", err)
	}
	cancel()

	report.Status = policyModel.DocumentCompleted
	metrics.CountDocumentIngested(string(report.Status))
	log.Info("Document ingested", "chunks", report.Chunks, "records", report.Records, "failed chunks", len(report.FailedChunks))
	return report
}

// embedChunks embeds with Document intent in batches, falling back to
// per-chunk calls when a batch fails so one bad chunk only demotes
// itself. vectors[i] is nil for chunks that still failed.
func (p *Pipeline) embedChunks(ctx context.Context, texts []string) ([][]float32, []int) {
	log := p.logger.WithTrace(ctx)
	vectors := make([][]float32, len(texts))
	var failed []int

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		got, err := p.embedWithTimeout(ctx, batch)
		if err == nil && len(got) == len(batch) {
			copy(vectors[start:end], got)
			continue
		}
		log.Warn("Batch embedding failed, retrying chunks individually", "batch start", start, "error", err)

		for i, text := range batch {
			single, err := p.embedWithTimeout(ctx, []string{text})
			if err != nil || len(single) != 1 {
				log.Error("Chunk embedding failed", "chunk", start+i, "error", err)
				failed = append(failed, start+i)
				continue
			}
			vectors[start+i] = single[0]
		}
	}

	return vectors, failed
}

func (p *Pipeline) embedWithTimeout(ctx context.Context, texts []string) ([][]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return p.embedder.Embed(callCtx, texts, embedding.IntentDocument)
}

func buildRecords(filename string, texts []string, vectors [][]float32) []policyModel.IndexRecord {
	records := make([]policyModel.IndexRecord, 0, len(texts))
	for idx, text := range texts {
		if vectors[idx] == nil {
			continue
		}
		records = append(records, policyModel.IndexRecord{
			ID:     policyModel.ChunkRecordID(filename, idx),
			Vector: vectors[idx],
			Metadata: policyModel.RecordMetadata{
				Source:         filename,
				ChunkIndex:     idx,
				TotalChunks:    len(texts),
				ContentPreview: policyModel.Preview(text, config.PreviewRunes),
				Type:           policyModel.RecordType,
				CharCount:      len([]rune(text)),
			},
		})
	}
	return records
}
