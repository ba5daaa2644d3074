// ABOUTME: Splits raw document text into fixed-size overlapping windows
// ABOUTME: Chunk order doubles as the ordinal position in the vector index
package chunker

import (
	"fmt"

	"github.com/artisan-market/assistant/internal/models"
)

// ChunkTexts splits each text into windows of at most chunkSize runes,
// consecutive windows overlapping by chunkOverlap runes. Windows are measured
// in code points rather than bytes so a multi-byte character is never split
// across chunks. Every emitted chunk is paired with a copy of the meta
// belonging to its source text. Empty texts produce no chunks.
//
// Output order is significant: chunks appear in input-text order, and within
// a text in left-to-right order. The vector store relies on this ordering
// for index/metadata alignment.
func ChunkTexts(texts []string, metas []models.ChunkMeta, chunkSize, chunkOverlap int) ([]string, []models.ChunkMeta, error) {
	if len(texts) != len(metas) {
		return nil, nil, fmt.Errorf("texts and metas length mismatch: %d != %d", len(texts), len(metas))
	}
	if chunkSize <= 0 {
		return nil, nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		// An overlap >= chunkSize would make the window never advance.
		return nil, nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	var allChunks []string
	var allMetas []models.ChunkMeta

	for i, text := range texts {
		meta := metas[i]
		runes := []rune(text)
		start := 0
		for start < len(runes) {
			end := start + chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			allChunks = append(allChunks, string(runes[start:end]))
			allMetas = append(allMetas, meta)
			if end == len(runes) {
				break
			}
			start = end - chunkOverlap
			if start < 0 {
				start = 0
			}
		}
	}

	return allChunks, allMetas, nil
}
