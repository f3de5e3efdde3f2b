package policyModel

import (
	"fmt"
	"path/filepath"
	"strings"
)

type DocumentStatus string

const (
	DocumentCompleted DocumentStatus = "COMPLETED"
	DocumentSkipped   DocumentStatus = "SKIPPED"
	DocumentFailed    DocumentStatus = "FAILED"

	RecordType = "policy"
)

// TextChunk is one token window of a document's extracted text.
// Never mutated after the chunker produces it.
type TextChunk struct {
	Source    string `json:"source"`
	Index     int    `json:"chunk_index"`
	Text      string `json:"content"`
	CharCount int    `json:"char_count"`
}

// RecordMetadata is stored alongside the vector in the index.
type RecordMetadata struct {
	Source         string `json:"source"`
	ChunkIndex     int    `json:"chunk_index"`
	TotalChunks    int    `json:"total_chunks"`
	ContentPreview string `json:"content_preview"`
	Type           string `json:"type"`
	CharCount      int    `json:"char_count"`
}

// IndexRecord is the unit of storage in the vector index.
type IndexRecord struct {
	ID       string
	Vector   []float32
	Metadata RecordMetadata
}

// Match is a raw query hit decoded at the index-adapter boundary.
type Match struct {
	Score   float32
	Source  string
	Preview string
}

// SearchResult is the read-only projection returned to callers.
type SearchResult struct {
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Content string  `json:"content"`
}

// BatchResult records one upsert batch's outcome. Partial success across
// batches is surfaced through the full list, never a single boolean.
type BatchResult struct {
	Batch int
	Size  int
	Err   error
}

type DocumentReport struct {
	Source       string
	Status       DocumentStatus
	Reason       string
	Chunks       int
	Records      int
	FailedChunks []int
	Batches      []BatchResult
}

type IngestReport struct {
	Processed     int
	Skipped       int
	Failed        int
	TotalChunks   int
	TotalRecords  int
	FailedBatches int
	Documents     []DocumentReport
}

// ChunkRecordID derives the deterministic index id for a chunk, so
// re-ingesting the same document overwrites records instead of duplicating.
func ChunkRecordID(filename string, chunkIndex int) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return fmt.Sprintf("%s-chunk-%d", stem, chunkIndex)
}

// Preview returns the first n runes of text, the slice that gets stored
// as content_preview and returned by searches.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
