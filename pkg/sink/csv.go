// Package sink persists a merged card record as a tabular key/value dump.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"cnicdet/pkg/card"
)

// CSVSink writes the record to a CSV file: a header row followed by one
// key/value row per field in mapping order. Each write replaces the file
// wholesale; there is no append or audit history.
type CSVSink struct {
	Path string
}

func (s CSVSink) Replace(record card.FieldSet) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"key", "value"}); err != nil {
		_ = f.Close()
		return err
	}
	for _, fl := range record {
		if err := w.Write([]string{fl.Name, fl.Value}); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
