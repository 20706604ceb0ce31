package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// FromCSV loads a headered CSV file into a Table. Every cell below the header
// must parse as a float.
func FromCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := records[0]
	data := make([][]float64, len(header))
	for c := range data {
		data[c] = make([]float64, 0, len(records)-1)
	}
	for line, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("dataset %s line %d has %d fields, expected %d", path, line+2, len(record), len(header))
		}
		for c, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s line %d column %q: %w", path, line+2, header[c], err)
			}
			data[c] = append(data[c], v)
		}
	}

	return New(header, data)
}
