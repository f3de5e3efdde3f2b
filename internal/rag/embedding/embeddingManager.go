package embedding

import "context"

// Intent selects the asymmetric side of the embedding space. Chunks are
// always embedded as IntentDocument and queries as IntentQuery; swapping
// them degrades retrieval silently, so call sites are tested for it.
type Intent string

const (
	IntentDocument Intent = "document"
	IntentQuery    Intent = "query"
)

type Embedder interface {
	// Embed returns one vector per input text, order-preserving.
	Embed(ctx context.Context, texts []string, intent Intent) ([][]float32, error)
	Dimension() int32
}
