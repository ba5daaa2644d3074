// ABOUTME: Core data types for the catalog retrieval pipeline
// ABOUTME: Defines chunk metadata, stored records, and search results
package models

// ChunkMeta carries provenance for one chunk of ingested text.
type ChunkMeta struct {
	Source      string `json:"source"`
	ProductName string `json:"product_name,omitempty"`
}

// Record is a stored chunk: provenance plus the chunk text itself.
// Records are ordinal-aligned with the vectors in the similarity index:
// the i-th record describes the i-th vector.
type Record struct {
	Source      string `json:"source"`
	ProductName string `json:"product_name"`
	Text        string `json:"text"`
}

// SearchResult is a Record plus the cosine similarity score computed
// against the query at search time. Scores are never persisted.
type SearchResult struct {
	Record
	Score float64 `json:"score"`
}
