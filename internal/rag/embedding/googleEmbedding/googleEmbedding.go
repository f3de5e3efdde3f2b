package googleEmbedding

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"google.golang.org/genai"
)

// maxTextsPerCall caps one EmbedContent request; larger inputs are
// split internally and results re-joined in order.
const maxTextsPerCall = 100

const retryPause = 5 * time.Second

type Client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

func NewClient(ctx context.Context, apiKey string, modelName string, dimension int32, httpClient *http.Client) (*Client, error) {
	const op = "googleEmbedding.NewClient"
	if apiKey == "" {
		return nil, ragError.New(ragError.KindConfiguration, op, "missing GEMINI_API_KEY")
	}
	if dimension <= 0 {
		return nil, ragError.Newf(ragError.KindConfiguration, op, "invalid embedding dimension %d", dimension)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, HTTPClient: httpClient})
	if err != nil {
		return nil, ragError.Wrap(ragError.KindConfiguration, op, err)
	}

	logger := logger_i.NewLogger("google_embedding")
	logger.Info("Google Embedding client created", "model", modelName, "dimension", dimension)

	return &Client{
		genAi:     c,
		model:     modelName,
		dimension: dimension,
		logger:    logger,
	}, nil
}

func (c *Client) Dimension() int32 {
	return c.dimension
}

func (c *Client) Embed(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error) {
	const op = "googleEmbedding.Embed"
	log := c.logger.WithTrace(ctx)

	taskType, err := taskTypeFor(intent)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxTextsPerCall {
		end := start + maxTextsPerCall
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		res, err := c.doCall(ctx, batch, taskType)
		if err != nil && isRateLimited(err) {
			//one bounded retry on quota exhaustion, upsert ids make it safe
			log.Warn("Rate limit hit, retrying once", "pause", retryPause)
			select {
			case <-time.After(retryPause):
			case <-ctx.Done():
				return nil, ragError.Wrap(ragError.KindEmbedding, op, ctx.Err())
			}
			res, err = c.doCall(ctx, batch, taskType)
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err, "batch start", start)
			return nil, ragError.Wrap(ragError.KindEmbedding, op, err)
		}
		if len(res.Embeddings) != len(batch) {
			return nil, ragError.Newf(ragError.KindEmbedding, op,
				"got %d embeddings for %d texts", len(res.Embeddings), len(batch))
		}

		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
	}

	return vectors, nil
}

func (c *Client) doCall(ctx context.Context, texts []string, taskType string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, getContent(texts), &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
}
