// ABOUTME: Document ingestion for catalog CSVs and PDF files
// ABOUTME: Produces pre-chunk text units with provenance, best-effort per file
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artisan-market/assistant/internal/models"
)

// Unit is one pre-chunk text unit: the text that will be chunked and
// embedded, plus the provenance that travels with every chunk cut from it.
type Unit struct {
	Source      string
	ProductName string
	Text        string
}

// Meta returns the chunk metadata for this unit.
func (u Unit) Meta() models.ChunkMeta {
	return models.ChunkMeta{Source: u.Source, ProductName: u.ProductName}
}

// LoadDir ingests every CSV and PDF file in dir. Ingestion is best-effort:
// a malformed file is skipped and reported in skipped, the rest proceed.
// Files with other extensions are ignored silently.
func LoadDir(dir string) (units []Unit, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading uploads directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var fileUnits []Unit
		var fileErr error
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			fileUnits, fileErr = ReadCatalogCSV(path)
		case ".pdf":
			fileUnits, fileErr = ReadPDFPages(path)
		default:
			continue
		}

		if fileErr != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", entry.Name(), fileErr))
			continue
		}
		units = append(units, fileUnits...)
	}

	return units, skipped, nil
}
