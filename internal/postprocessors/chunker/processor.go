// Package chunker provides a fixed-size token window chunking processor.
package chunker

import (
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// DefaultChunkSize is the default number of tokens per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of tokens repeated between chunks.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into windows of whitespace-delimited
// tokens. Windows advance by chunkSize-overlap tokens, so the overlapping
// region is repeated verbatim in adjacent chunks. Each chunk keeps the
// whitespace that follows its last token, so removing each chunk's Overlap
// prefix and concatenating reproduces the content exactly.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	content := doc.Content
	if content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	starts := tokenStarts(content)
	if len(starts) == 0 {
		// Whitespace only: keep it as a single chunk so coverage holds
		return []domain.Chunk{newChunk(doc.ID, 0, content, 0, 0)}, nil
	}

	step := p.chunkSize - p.overlap
	estimatedChunks := len(starts)/step + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	prevEnd := 0
	for first := 0; ; first += step {
		begin := starts[first]
		if first == 0 {
			begin = 0
		}

		last := first + p.chunkSize
		end := len(content)
		if last < len(starts) {
			end = starts[last]
		}

		overlap := 0
		if len(chunks) > 0 {
			overlap = prevEnd - begin
		}

		chunks = append(chunks, newChunk(doc.ID, len(chunks), content[begin:end], begin, overlap))
		prevEnd = end

		if last >= len(starts) {
			break
		}
	}

	return chunks, nil
}

func newChunk(documentID string, position int, content string, offset, overlap int) domain.Chunk {
	return domain.Chunk{
		ID:         domain.ChunkID(documentID, position),
		DocumentID: documentID,
		Content:    content,
		Position:   position,
		Offset:     offset,
		Overlap:    overlap,
	}
}

// tokenStarts returns the byte offset of every whitespace-delimited token.
func tokenStarts(content string) []int {
	var starts []int
	inToken := false
	for i, r := range content {
		if r == utf8.RuneError || !unicode.IsSpace(r) {
			if !inToken {
				starts = append(starts, i)
				inToken = true
			}
			continue
		}
		inToken = false
	}
	return starts
}
