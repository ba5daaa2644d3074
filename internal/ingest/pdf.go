// ABOUTME: PDF ingestion, one text unit per extracted page
// ABOUTME: Pages carry no product name; provenance is the file itself
package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadPDFPages extracts plain text from each page of a PDF. Every page
// becomes one unit with empty ProductName. Pages that fail to extract are
// skipped; the file only fails as a whole when it cannot be opened.
func ReadPDFPages(path string) ([]Unit, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var units []Unit
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		units = append(units, Unit{
			Source: path,
			Text:   strings.TrimSpace(text),
		})
	}
	return units, nil
}
