package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// csvText flattens a CSV file into one line of space-joined fields per
// record, header included, so row values stay adjacent for retrieval.
func csvText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, strings.Join(record, " "))
	}
	return strings.Join(lines, "\n"), nil
}
