package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeInventory writes content to a temp file and returns its path.
func writeInventory(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write inventory: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	path := writeInventory(t, "Name,Management IP,Username,Password\nR1,10.0.0.1,admin,cisco\nR2,10.0.0.2,admin,cisco\n")

	records, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Name != "R1" || records[0].ManagementIP != "10.0.0.1" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].Username != "admin" || records[1].Password != "cisco" {
		t.Errorf("Unexpected second record: %+v", records[1])
	}
}

func TestRead_ColumnOrderAndExtras(t *testing.T) {
	// Columns shuffled, extra column present, padded cells.
	path := writeInventory(t, "Username,Name,Location,Password,Management IP\nadmin, R1 ,lab7,secret,192.168.1.1\n")

	records, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Name != "R1" {
		t.Errorf("Expected name R1, got %q", rec.Name)
	}
	if rec.ManagementIP != "192.168.1.1" {
		t.Errorf("Expected IP 192.168.1.1, got %q", rec.ManagementIP)
	}
	if rec.Password != "secret" {
		t.Errorf("Expected password to survive, got %q", rec.Password)
	}
}

func TestRead_Validation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantRow   int
		wantField string
	}{
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "missing password column",
			content: "Name,Management IP,Username\nR1,10.0.0.1,admin\n",
		},
		{
			name:      "row missing IP",
			content:   "Name,Management IP,Username,Password\nR1,,admin,cisco\n",
			wantRow:   1,
			wantField: ColumnIP,
		},
		{
			name:      "second row missing name",
			content:   "Name,Management IP,Username,Password\nR1,10.0.0.1,admin,cisco\n,10.0.0.2,admin,cisco\n",
			wantRow:   2,
			wantField: ColumnName,
		},
		{
			name:      "short row",
			content:   "Name,Management IP,Username,Password\nR1,10.0.0.1\n",
			wantRow:   1,
			wantField: ColumnUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInventory(t, tt.content)

			_, err := Read(path)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Row != tt.wantRow {
				t.Errorf("Expected row %d, got %d", tt.wantRow, verr.Row)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
}

func TestRead_NoRows(t *testing.T) {
	path := writeInventory(t, "Name,Management IP,Username,Password\n")

	records, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
