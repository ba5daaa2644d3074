// ABOUTME: Exact inner-product similarity index over unit-normalized vectors
// ABOUTME: Flat brute-force search with a compact binary file format
package vectorstore

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

const (
	indexMagic   = uint32(0x464C4154) // "FLAT"
	indexVersion = uint32(1)
)

// flatIndex is an ordered collection of vectors searched by brute-force
// inner product. With unit-normalized vectors the inner product equals
// cosine similarity.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// add appends vectors to the index in order.
func (ix *flatIndex) add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("vector %d: dimension mismatch: expected %d, got %d", i, ix.dim, len(v))
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

func (ix *flatIndex) size() int {
	return len(ix.vectors)
}

// search returns the ids and scores of the k nearest vectors by inner
// product, ordered by descending score. Both slices always have length k;
// slots with no matching vector hold id -1.
func (ix *flatIndex) search(query []float32, k int) (scores []float32, ids []int) {
	scores = make([]float32, k)
	ids = make([]int, k)
	for i := range ids {
		ids[i] = -1
	}

	if len(query) != ix.dim {
		return scores, ids
	}

	type hit struct {
		id    int
		score float32
	}
	hits := make([]hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = hit{id: i, score: dot(query, v)}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].id < hits[b].id
	})

	for i := 0; i < k && i < len(hits); i++ {
		scores[i] = hits[i].score
		ids[i] = hits[i].id
	}
	return scores, ids
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalizeL2 scales v to unit length in place. Zero vectors are left as-is.
func normalizeL2(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}

// writeTo serializes the index: magic, version, dimension, count, then the
// raw float32 vectors in ordinal order, all little-endian.
func (ix *flatIndex) writeTo(w io.Writer) error {
	header := []uint32{indexMagic, indexVersion, uint32(ix.dim), uint32(len(ix.vectors))}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return fmt.Errorf("writing index header: %w", err)
		}
	}
	for i, v := range ix.vectors {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("writing vector %d: %w", i, err)
		}
	}
	return nil
}

// readFlatIndex deserializes an index written by writeTo.
func readFlatIndex(r io.Reader) (*flatIndex, error) {
	var magic, version, dim, count uint32
	for _, field := range []*uint32{&magic, &version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("reading index header: %w", err)
		}
	}
	if magic != indexMagic {
		return nil, fmt.Errorf("not an index file: bad magic 0x%08X", magic)
	}
	if version != indexVersion {
		return nil, fmt.Errorf("unsupported index version %d", version)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index has zero dimension")
	}

	ix := newFlatIndex(int(dim))
	ix.vectors = make([][]float32, 0, count)
	for i := uint32(0); i < count; i++ {
		v := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("reading vector %d: %w", i, err)
		}
		ix.vectors = append(ix.vectors, v)
	}
	return ix, nil
}
