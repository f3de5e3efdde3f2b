package googleEmbedding

import (
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))

	for _, text := range texts {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

// taskTypeFor maps our intent to the genai TaskType that biases the
// embedding space. RETRIEVAL_DOCUMENT for indexed content,
// RETRIEVAL_QUERY for the search side.
func taskTypeFor(intent embedding.Intent) (string, error) {
	switch intent {
	case embedding.IntentDocument:
		return "RETRIEVAL_DOCUMENT", nil
	case embedding.IntentQuery:
		return "RETRIEVAL_QUERY", nil
	default:
		return "", ragError.Newf(ragError.KindValidation, "googleEmbedding.Embed", "unknown intent %q", intent)
	}
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
