package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cnicdet/pkg/card"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestReplaceWritesHeaderAndRowsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.csv")
	s := CSVSink{Path: path}
	record := card.FieldSet{
		{Name: "Name", Value: "Ali"},
		{Name: "Guardian Name", Value: "Ahmed"},
		{Name: "Id Card Number", Value: "1234512345671"},
	}
	if err := s.Replace(record); err != nil {
		t.Fatalf("replace: %v", err)
	}
	want := [][]string{
		{"key", "value"},
		{"Name", "Ali"},
		{"Guardian Name", "Ahmed"},
		{"Id Card Number", "1234512345671"},
	}
	if got := readRows(t, path); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v want %v", got, want)
	}
}

func TestReplaceOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.csv")
	s := CSVSink{Path: path}
	if err := s.Replace(card.FieldSet{{Name: "Name", Value: "First"}, {Name: "Extra", Value: "x"}}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.Replace(card.FieldSet{{Name: "Name", Value: "Second"}}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row after overwrite, got %v", rows)
	}
	if rows[1][1] != "Second" {
		t.Fatalf("stale contents survived: %v", rows)
	}
}

func TestReplaceUnwritablePathErrors(t *testing.T) {
	s := CSVSink{Path: filepath.Join(t.TempDir(), "missing", "card.csv")}
	if err := s.Replace(card.FieldSet{{Name: "Name", Value: "Ali"}}); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
