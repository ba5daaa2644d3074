// ABOUTME: VectorStore orchestrates embedding, the similarity index, and metadata
// ABOUTME: Full-rebuild semantics with atomic two-artifact persistence on disk
package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artisan-market/assistant/internal/models"
)

const (
	// IndexFileName is the similarity index artifact inside the index directory.
	IndexFileName = "index.flat"
	// MetaFileName is the metadata artifact, ordinal-aligned with the index.
	MetaFileName = "meta.json"
)

// ErrIndexNotFound is returned by Search when no index has been built or
// loaded. Callers should build the index first; an empty store never
// produces an empty successful result.
var ErrIndexNotFound = errors.New("vector index not found")

// Embedder maps a batch of texts to one vector per text, order-preserving.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// manifest is the on-disk shape of the metadata artifact. Besides the
// records it carries enough provenance to recognize what the index was
// built with.
type manifest struct {
	BuildID   string          `json:"build_id"`
	Model     string          `json:"model"`
	Dimension int             `json:"dimension"`
	BuiltAt   time.Time       `json:"built_at"`
	Records   []models.Record `json:"records"`
}

// Stats describes the state of a store for display purposes.
type Stats struct {
	Ready     bool
	Count     int
	Dimension int
	Model     string
	BuildID   string
	BuiltAt   time.Time
}

// Store owns a similarity index and its ordinal-aligned metadata records,
// both persisted under a single index directory. Every build replaces the
// index wholesale; there is no incremental insert or delete.
type Store struct {
	dir      string
	model    string
	embedder Embedder

	index   *flatIndex
	records []models.Record
	buildID string
	builtAt time.Time
}

// New creates a store over the given index directory. If a prior index was
// persisted there, both artifacts are loaded eagerly; otherwise the store
// starts empty, which is a valid "not yet built" state. Finding only one of
// the two artifacts is an error: they are a single atomic unit.
func New(dir, model string, embedder Embedder) (*Store, error) {
	s := &Store{dir: dir, model: model, embedder: embedder}

	indexPath := filepath.Join(dir, IndexFileName)
	metaPath := filepath.Join(dir, MetaFileName)
	haveIndex := fileExists(indexPath)
	haveMeta := fileExists(metaPath)

	switch {
	case haveIndex && haveMeta:
		if err := s.load(indexPath, metaPath); err != nil {
			return nil, err
		}
	case haveIndex != haveMeta:
		return nil, fmt.Errorf("inconsistent index directory %s: %s and %s must exist together", dir, IndexFileName, MetaFileName)
	}

	return s, nil
}

// Ready reports whether an index is loaded and Search may be called.
func (s *Store) Ready() bool {
	return s.index != nil
}

// Stats returns display information about the loaded index.
func (s *Store) Stats() Stats {
	st := Stats{Ready: s.Ready(), Model: s.model, BuildID: s.buildID, BuiltAt: s.builtAt}
	if s.index != nil {
		st.Count = s.index.size()
		st.Dimension = s.index.dim
	}
	return st
}

// BuildOrUpdate embeds all chunks in one batch call, replaces the index and
// metadata wholesale, and persists both artifacts atomically. On any
// failure the previously persisted index, on disk and in memory, is left
// untouched.
func (s *Store) BuildOrUpdate(ctx context.Context, chunks []string, metas []models.ChunkMeta) error {
	if len(chunks) != len(metas) {
		return fmt.Errorf("chunks and metas length mismatch: %d != %d", len(chunks), len(metas))
	}
	if len(chunks) == 0 {
		return errors.New("no chunks to index")
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for _, v := range vectors {
		normalizeL2(v)
	}

	index := newFlatIndex(len(vectors[0]))
	if err := index.add(vectors); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	records := make([]models.Record, len(chunks))
	for i, meta := range metas {
		records[i] = models.Record{
			Source:      meta.Source,
			ProductName: meta.ProductName,
			Text:        chunks[i],
		}
	}

	m := manifest{
		BuildID:   uuid.New().String(),
		Model:     s.model,
		Dimension: index.dim,
		BuiltAt:   time.Now().UTC(),
		Records:   records,
	}
	if err := s.persist(index, &m); err != nil {
		return err
	}

	// Swap in-memory state only once both artifacts are durable.
	s.index = index
	s.records = records
	s.buildID = m.BuildID
	s.builtAt = m.BuiltAt
	return nil
}

// Search embeds the query and returns up to topK records ranked by
// descending cosine similarity. Fewer than topK results are returned when
// the index holds fewer vectors.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if s.index == nil {
		return nil, fmt.Errorf("%w: build the index before searching", ErrIndexNotFound)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	q := vectors[0]
	normalizeL2(q)

	scores, ids := s.index.search(q, topK)

	results := make([]models.SearchResult, 0, topK)
	for pos, id := range ids {
		if id < 0 {
			continue
		}
		results = append(results, models.SearchResult{
			Record: s.records[id],
			Score:  float64(scores[pos]),
		})
	}
	return results, nil
}

// persist writes both artifacts through temp files and renames them into
// place only after both writes succeed, so a reader never sees a torn pair.
func (s *Store) persist(index *flatIndex, m *manifest) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	indexTmp, err := writeTempIndex(s.dir, index)
	if err != nil {
		return err
	}
	defer os.Remove(indexTmp)

	metaTmp, err := writeTempMeta(s.dir, m)
	if err != nil {
		return err
	}
	defer os.Remove(metaTmp)

	if err := os.Rename(indexTmp, filepath.Join(s.dir, IndexFileName)); err != nil {
		return fmt.Errorf("replacing index artifact: %w", err)
	}
	if err := os.Rename(metaTmp, filepath.Join(s.dir, MetaFileName)); err != nil {
		return fmt.Errorf("replacing metadata artifact: %w", err)
	}
	return nil
}

func writeTempIndex(dir string, index *flatIndex) (string, error) {
	f, err := os.CreateTemp(dir, IndexFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp index file: %w", err)
	}
	if err := index.writeTo(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp index file: %w", err)
	}
	return f.Name(), nil
}

func writeTempMeta(dir string, m *manifest) (string, error) {
	f, err := os.CreateTemp(dir, MetaFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp metadata file: %w", err)
	}
	enc := json.NewEncoder(f)
	if err := enc.Encode(m); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp metadata file: %w", err)
	}
	return f.Name(), nil
}

func (s *Store) load(indexPath, metaPath string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("opening index artifact: %w", err)
	}
	defer f.Close()

	index, err := readFlatIndex(f)
	if err != nil {
		return fmt.Errorf("loading index artifact: %w", err)
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("reading metadata artifact: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decoding metadata artifact: %w", err)
	}

	if len(m.Records) != index.size() {
		return fmt.Errorf("inconsistent index directory %s: %d vectors but %d records", s.dir, index.size(), len(m.Records))
	}

	s.index = index
	s.records = m.Records
	s.buildID = m.BuildID
	s.builtAt = m.BuiltAt
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
