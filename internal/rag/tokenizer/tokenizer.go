package tokenizer

import (
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/pkoukk/tiktoken-go"
)

// Codec converts text to and from a model-specific token sequence.
// The chunker only ever measures and slices through this interface,
// so tests can run with a fake codec.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCodec returns a Codec backed by the named BPE encoding
// (cl100k_base in the default configuration).
func NewTiktokenCodec(encoding string) (Codec, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, ragError.Wrap(ragError.KindConfiguration, "tokenizer.NewTiktokenCodec", err)
	}
	return &tiktokenCodec{enc: enc}, nil
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}
