package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/confsnap/confsnap/internal/model"
)

// Column names the inventory file must provide. Extra columns are ignored
// and column order does not matter.
const (
	ColumnName     = "Name"
	ColumnIP       = "Management IP"
	ColumnUsername = "Username"
	ColumnPassword = "Password"
)

var requiredColumns = []string{ColumnName, ColumnIP, ColumnUsername, ColumnPassword}

// ValidationError reports an inventory that cannot be used. It covers an
// unreadable file, a missing header column, and a row with an empty
// required field. Inventory problems are fatal; there is no retry.
type ValidationError struct {
	Path   string
	Row    int    // 1-based data row; 0 when the file or header is the problem
	Field  string // offending column; empty when the file or header is the problem
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("inventory %s row %d: field %q %s", e.Path, e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("inventory %s: %s", e.Path, e.Reason)
}

// Read loads device records from a CSV inventory file, one record per row,
// in file order. Every record carries name, management IP, username and
// password; any row missing one of them fails the whole read.
func Read(path string) ([]model.DeviceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // ragged rows surface as empty-field errors below

	header, err := r.Read()
	if err == io.EOF {
		return nil, &ValidationError{Path: path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("missing column %q", col)}
		}
	}

	var records []model.DeviceRecord
	row := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &ValidationError{Path: path, Row: row, Reason: err.Error()}
		}

		rec := model.DeviceRecord{
			Name:         cell(fields, index[ColumnName]),
			ManagementIP: cell(fields, index[ColumnIP]),
			Username:     cell(fields, index[ColumnUsername]),
			Password:     cell(fields, index[ColumnPassword]),
		}

		switch {
		case rec.Name == "":
			return nil, &ValidationError{Path: path, Row: row, Field: ColumnName, Reason: "is empty"}
		case rec.ManagementIP == "":
			return nil, &ValidationError{Path: path, Row: row, Field: ColumnIP, Reason: "is empty"}
		case rec.Username == "":
			return nil, &ValidationError{Path: path, Row: row, Field: ColumnUsername, Reason: "is empty"}
		case rec.Password == "":
			return nil, &ValidationError{Path: path, Row: row, Field: ColumnPassword, Reason: "is empty"}
		}

		records = append(records, rec)
	}

	return records, nil
}

// cell returns the trimmed field at i, or "" when the row is too short.
func cell(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
