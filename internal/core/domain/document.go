package domain

import (
	"fmt"
	"strings"
)

// Document represents a text supplied by the caller for research.
// It is immutable once ingested.
type Document struct {
	// ID is the unique, caller-supplied identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable title.
	Title string `json:"title" yaml:"title"`

	// Content is the full text content before chunking.
	Content string `json:"content" yaml:"content"`

	// Metadata contains scalar key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Validate checks the fields required for ingestion.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: document id is required", ErrValidation)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: document %q has no content", ErrValidation, d.ID)
	}
	return nil
}

// Chunk represents a contiguous window of a document's content.
// Chunks of one document partition its content in order; adjacent
// chunks repeat Overlap bytes verbatim.
type Chunk struct {
	// ID is derived from the document ID and position.
	ID string `json:"id" yaml:"id"`

	// DocumentID links back to the parent Document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Content is the text of this chunk.
	Content string `json:"content" yaml:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position" yaml:"position"`

	// Offset is the byte offset of Content within the document.
	Offset int `json:"offset" yaml:"offset"`

	// Overlap is the number of leading bytes shared with the previous chunk.
	Overlap int `json:"overlap" yaml:"overlap"`
}

// ChunkID derives the identifier for the chunk at position within a document.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s#%d", documentID, position)
}

// Reassemble concatenates ordered chunks with their overlaps removed.
func Reassemble(chunks []Chunk) string {
	var b strings.Builder
	for i := range chunks {
		content := chunks[i].Content
		if i > 0 && chunks[i].Overlap <= len(content) {
			content = content[chunks[i].Overlap:]
		}
		b.WriteString(content)
	}
	return b.String()
}
