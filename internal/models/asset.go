package models

import "time"

// Asset is a stored markdown document plus its embedding. Assets are the unit
// of retrieval for the RAG chat pipeline.
type Asset struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	MarkdownContent string    `json:"markdownContent"`
	ContentVector   []float32 `json:"contentVector,omitempty"`
	Created         time.Time `json:"created"`
	Modified        time.Time `json:"modified"`
	IsDeleted       bool      `json:"-"`

	// Similarity is query-scoped: populated only on rows returned by a
	// similarity search, never persisted. A nil value means the store did not
	// report a score for the row.
	Similarity *float64 `json:"similarity,omitempty"`
}

// SimilarityOrZero returns the transient similarity score, treating a missing
// score as lowest priority.
func (a *Asset) SimilarityOrZero() float64 {
	if a.Similarity == nil {
		return 0
	}
	return *a.Similarity
}
