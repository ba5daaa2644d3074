// ABOUTME: Catalog CSV ingestion, one text unit per product row
// ABOUTME: Expects product_name and description columns, header-addressed
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCatalogCSV reads a tabular product catalog. Each row becomes one unit
// whose text is "<product_name> <description>". Missing columns yield empty
// values rather than errors; fully empty rows produce empty-text units that
// the chunker later drops.
func ReadCatalogCSV(path string) ([]Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	nameCol, descCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "product_name":
			nameCol = i
		case "description":
			descCol = i
		}
	}

	var units []Unit
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}

		name := field(row, nameCol)
		desc := field(row, descCol)
		units = append(units, Unit{
			Source:      path,
			ProductName: name,
			Text:        strings.TrimSpace(name + " " + desc),
		})
	}
	return units, nil
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
