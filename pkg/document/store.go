package document

import (
	"context"
	"time"
)

// Meta describes one stored version of a document.
type Meta struct {
	Revision   string    `json:"revision"`
	HasChanges bool      `json:"hasChanges"`
	Source     string    `json:"source,omitempty"`
	SavedAt    time.Time `json:"savedAt"`
}

// Store reads and writes document text.
//
// Text fails with ErrCodeNotFound (or ErrCodeFileNotFound) when nothing has
// been stored yet. SetText replaces the stored text wholesale.
type Store interface {
	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string, meta Meta) error
	Backend() string
	Close() error
}

// MetaStore is implemented by stores that persist [Meta] next to the text.
type MetaStore interface {
	Meta(ctx context.Context) (Meta, error)
}
