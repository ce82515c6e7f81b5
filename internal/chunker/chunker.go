// Package chunker splits document text into overlapping fixed-size windows
// suitable for embedding.
package chunker

import (
	"errors"
	"fmt"

	"relaychat/internal/model"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// ErrInvalidConfig is returned by New for size/overlap combinations that
// would never advance through the text.
var ErrInvalidConfig = errors.New("chunker: invalid configuration")

// Chunker cuts text into windows of size runes; consecutive windows share
// overlap runes. Boundaries ignore sentences and words.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidConfig, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns the ordered chunks of text, each tagged with sourceTag.
// Empty text yields no chunks. The result depends only on the input and the
// configuration.
func (c *Chunker) Split(text, sourceTag string) []model.DocumentChunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []model.DocumentChunk
	for start := 0; ; start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, model.DocumentChunk{
			Text:      string(runes[start:end]),
			SourceTag: sourceTag,
			Index:     len(chunks),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
