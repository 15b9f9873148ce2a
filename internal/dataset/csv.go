// Package dataset loads owner assignments from CSV files, for runs that
// bypass the warehouse assignment table (ad-hoc books, local dry runs).
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"execbrief/internal/models"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

var requiredColumns = []string{"owner_id", "subject_ids"}

// LoadAssignments reads an assignment CSV. The header row names the columns;
// owner_id and subject_ids are required, owner_name, owner_contact, and
// region are optional. The subject_ids cell holds either a JSON string array
// or a semicolon-separated list.
func LoadAssignments(path string) ([]models.Assignment, error) {
	rows, err := loadCSV(path)
	if err != nil {
		return nil, err
	}

	var out []models.Assignment
	for i, row := range rows {
		for _, col := range requiredColumns {
			if strings.TrimSpace(row[col]) == "" {
				return nil, fmt.Errorf("csv: row %d is missing %s", i+2, col)
			}
		}
		out = append(out, models.Assignment{
			OwnerID:      strings.TrimSpace(row["owner_id"]),
			OwnerName:    strings.TrimSpace(row["owner_name"]),
			OwnerContact: strings.TrimSpace(row["owner_contact"]),
			SubjectIDs:   splitSubjectIDs(row["subject_ids"]),
			Region:       strings.TrimSpace(row["region"]),
		})
	}
	return out, nil
}

// loadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func loadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func splitSubjectIDs(cell string) []string {
	trimmed := strings.TrimSpace(cell)

	var ids []string
	if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
		ids = strings.Split(trimmed, ";")
	}

	var out []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
