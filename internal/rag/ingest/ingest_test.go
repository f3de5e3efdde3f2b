package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
)

// --- Mocks ---

// wordCodec tokenizes on whitespace so chunk boundaries are predictable.
type wordCodec struct{}

func (wordCodec) Encode(text string) []int {
	return make([]int, len(strings.Fields(text)))
}

func (wordCodec) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i := range words {
		words[i] = "w"
	}
	return strings.Join(words, " ")
}

type mockEmbedder struct {
	mu        sync.Mutex
	intents   []embedding.Intent
	calls     int
	embedFunc func(texts []string, intent embedding.Intent) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error) {
	m.mu.Lock()
	m.intents = append(m.intents, intent)
	m.calls++
	m.mu.Unlock()

	if m.embedFunc != nil {
		return m.embedFunc(texts, intent)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimension() int32 { return 2 }

type mockStore struct {
	mu         sync.Mutex
	records    []policyModel.IndexRecord
	pruned     []string
	upsertFunc func(records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error)
}

func (m *mockStore) EnsureCollection(ctx context.Context) error { return nil }

func (m *mockStore) Upsert(ctx context.Context, records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	if m.upsertFunc != nil {
		return m.upsertFunc(records)
	}
	return len(records), []policyModel.BatchResult{{Batch: 0, Size: len(records)}}, nil
}

func (m *mockStore) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]policyModel.Match, error) {
	return nil, nil
}

func (m *mockStore) PruneStale(ctx context.Context, source string, fromIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = append(m.pruned, source)
	return nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) recordIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.records))
	for i, r := range m.records {
		ids[i] = r.ID
	}
	return ids
}

// --- Helpers ---

func writeDocs(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func manyWords(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}

// --- Tests ---

func TestRun_InvalidChunkParams(t *testing.T) {
	p := NewPipeline(&mockEmbedder{}, &mockStore{}, wordCodec{}, 50, 1)

	_, err := p.Run(context.Background(), "*.txt", 50) //overlap == window
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !ragError.IsKind(err, ragError.KindConfiguration) {
		t.Errorf("error kind got %v, want configuration", ragError.KindOf(err))
	}
}

func TestRun_NoMatches(t *testing.T) {
	p := NewPipeline(&mockEmbedder{}, &mockStore{}, wordCodec{}, 2, 1)

	report, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "*.pdf"), 50)
	if err != nil {
		t.Fatalf("empty glob should not error: %v", err)
	}
	if report.Processed != 0 || len(report.Documents) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

// One unreadable document in a batch of three: two succeed, one is
// recorded as skipped, and the run itself returns no error.
func TestRun_PartialFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{
		"policy-a.txt": manyWords(20),
		"policy-c.txt": manyWords(20),
	})
	//a pdf that is not a pdf, extraction must fail
	if err := os.WriteFile(filepath.Join(dir, "policy-b.pdf"), []byte("not a pdf at all"), 0644); err != nil {
		t.Fatal(err)
	}

	store := &mockStore{}
	p := NewPipeline(&mockEmbedder{}, store, wordCodec{}, 2, 2)

	report, err := p.Run(context.Background(), filepath.Join(dir, "policy-*"), 50)
	if err != nil {
		t.Fatalf("batch run should not error: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("processed got %d, want 2", report.Processed)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped got %d, want 1", report.Skipped)
	}
	for _, doc := range report.Documents {
		if doc.Source == "policy-b.pdf" {
			if doc.Status != policyModel.DocumentSkipped {
				t.Errorf("corrupt document status got %s, want skipped", doc.Status)
			}
			if doc.Reason == "" {
				t.Error("skipped document should carry a reason")
			}
		}
	}
}

// Re-ingesting the same document produces the same record ids, so the
// index converges instead of accumulating duplicates.
func TestRun_DeterministicIDs(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"refund-policy.txt": manyWords(120)})
	pattern := filepath.Join(dir, "*.txt")

	first := &mockStore{}
	p1 := NewPipeline(&mockEmbedder{}, first, wordCodec{}, 10, 1)
	if _, err := p1.Run(context.Background(), pattern, 50); err != nil {
		t.Fatal(err)
	}

	second := &mockStore{}
	p2 := NewPipeline(&mockEmbedder{}, second, wordCodec{}, 10, 1)
	if _, err := p2.Run(context.Background(), pattern, 50); err != nil {
		t.Fatal(err)
	}

	a, b := first.recordIDs(), second.recordIDs()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("expected matching non-empty id sets, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("record id %d differs between runs: %s vs %s", i, a[i], b[i])
		}
	}
	if a[0] != "refund-policy-chunk-0" {
		t.Errorf("first record id got %s, want refund-policy-chunk-0", a[0])
	}
}

func TestRun_UsesDocumentIntent(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"warranty.txt": manyWords(30)})

	emb := &mockEmbedder{}
	p := NewPipeline(emb, &mockStore{}, wordCodec{}, 2, 1)
	if _, err := p.Run(context.Background(), filepath.Join(dir, "*.txt"), 50); err != nil {
		t.Fatal(err)
	}

	if len(emb.intents) == 0 {
		t.Fatal("embedder was never called")
	}
	for _, intent := range emb.intents {
		if intent != embedding.IntentDocument {
			t.Errorf("ingestion embedded with intent %s, want document", intent)
		}
	}
}

func TestRun_RecordMetadata(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"shipping.txt": manyWords(120)})

	store := &mockStore{}
	p := NewPipeline(&mockEmbedder{}, store, wordCodec{}, 10, 1)
	report, err := p.Run(context.Background(), filepath.Join(dir, "*.txt"), 50)
	if err != nil {
		t.Fatal(err)
	}

	if len(store.records) != report.TotalChunks {
		t.Fatalf("records got %d, chunks %d", len(store.records), report.TotalChunks)
	}
	for i, record := range store.records {
		md := record.Metadata
		if md.Source != "shipping.txt" {
			t.Errorf("record %d source got %s", i, md.Source)
		}
		if md.ChunkIndex != i {
			t.Errorf("record %d chunk index got %d", i, md.ChunkIndex)
		}
		if md.TotalChunks != report.TotalChunks {
			t.Errorf("record %d total chunks got %d, want %d", i, md.TotalChunks, report.TotalChunks)
		}
		if md.Type != policyModel.RecordType {
			t.Errorf("record %d type got %s", i, md.Type)
		}
		if md.CharCount == 0 || md.ContentPreview == "" {
			t.Errorf("record %d missing char count or preview", i)
		}
	}

	if len(store.pruned) != 1 || store.pruned[0] != "shipping.txt" {
		t.Errorf("expected one prune for shipping.txt, got %v", store.pruned)
	}
}

// A failing batch call falls back to per-chunk embedding; a chunk that
// still fails demotes only itself.
func TestRun_PerChunkFallback(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"returns.txt": manyWords(120)})

	var singles int
	emb := &mockEmbedder{}
	emb.embedFunc = func(texts []string, intent embedding.Intent) ([][]float32, error) {
		if len(texts) > 1 {
			return nil, errors.New("batch too spicy")
		}
		singles++
		if singles == 2 {
			return nil, errors.New("chunk 1 keeps failing")
		}
		return [][]float32{{0.1, 0.2}}, nil
	}

	store := &mockStore{}
	p := NewPipeline(emb, store, wordCodec{}, 10, 1)
	report, err := p.Run(context.Background(), filepath.Join(dir, "*.txt"), 50)
	if err != nil {
		t.Fatal(err)
	}

	doc := report.Documents[0]
	if doc.Status != policyModel.DocumentCompleted {
		t.Fatalf("document status got %s, want completed", doc.Status)
	}
	if len(doc.FailedChunks) != 1 || doc.FailedChunks[0] != 1 {
		t.Errorf("failed chunks got %v, want [1]", doc.FailedChunks)
	}
	if doc.Records != doc.Chunks-1 {
		t.Errorf("records got %d, want %d", doc.Records, doc.Chunks-1)
	}
	for _, record := range store.records {
		if record.ID == "returns-chunk-1" {
			t.Error("failed chunk must not be upserted")
		}
	}
}

func TestRun_AllChunksFail(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"broken.txt": manyWords(30)})

	emb := &mockEmbedder{}
	emb.embedFunc = func(texts []string, intent embedding.Intent) ([][]float32, error) {
		return nil, errors.New("service down")
	}

	p := NewPipeline(emb, &mockStore{}, wordCodec{}, 2, 1)
	report, err := p.Run(context.Background(), filepath.Join(dir, "*.txt"), 50)
	if err != nil {
		t.Fatal(err)
	}

	if report.Failed != 1 {
		t.Errorf("failed got %d, want 1", report.Failed)
	}
	if report.TotalRecords != 0 {
		t.Errorf("no records should be written, got %d", report.TotalRecords)
	}
}
