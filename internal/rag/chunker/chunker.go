package chunker

import (
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag/tokenizer"
)

// Chunker splits text into overlapping fixed-size token windows.
// Window boundaries are token offsets, so a boundary may decode to a
// partial word - accepted, the embedding model tolerates it.
type Chunker struct {
	codec     tokenizer.Codec
	maxTokens int
	overlap   int
}

func New(codec tokenizer.Codec, maxTokens int, overlapTokens int) (*Chunker, error) {
	const op = "chunker.New"
	if codec == nil {
		return nil, ragError.New(ragError.KindConfiguration, op, "nil codec")
	}
	if maxTokens <= 0 {
		return nil, ragError.Newf(ragError.KindConfiguration, op, "maxTokens must be positive, got %d", maxTokens)
	}
	if overlapTokens < 0 {
		return nil, ragError.Newf(ragError.KindConfiguration, op, "overlapTokens must not be negative, got %d", overlapTokens)
	}
	//the advance step is (maxTokens - overlapTokens); a non-positive step never terminates
	if overlapTokens >= maxTokens {
		return nil, ragError.Newf(ragError.KindConfiguration, op, "overlap %d must be smaller than window %d", overlapTokens, maxTokens)
	}
	return &Chunker{codec: codec, maxTokens: maxTokens, overlap: overlapTokens}, nil
}

// Split windows the token stream: start at 0, emit at most maxTokens
// tokens, advance by (maxTokens - overlap), repeat until the start
// offset passes the end. The final window may be short.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	tokens := c.codec.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	step := c.maxTokens - c.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.codec.Decode(tokens[start:end]))
		if end == len(tokens) {
			//the stream is covered; a further window would only repeat the overlap
			break
		}
	}
	return chunks
}
