package card

import (
	"bytes"
	"encoding/json"
	"image"
)

// Token is a single piece of text recognized inside a card region, in the
// order the reader returned it (top-to-bottom, left-to-right is assumed
// but not guaranteed).
type Token struct {
	Box        image.Rectangle
	Text       string
	Confidence float64
}

// Detection is one object found by the region detector.
type Detection struct {
	Box     image.Rectangle
	Score   float32
	ClassID int
}

// Field is a named card value, e.g. {"Name", "Ali"}.
type Field struct {
	Name  string
	Value string
}

// FieldSet is an ordered mapping of field name to value. Order matters:
// it is the order fields were assigned from OCR output and the order rows
// are written to the sink.
type FieldSet []Field

// Get returns the value for name and whether it is present.
func (fs FieldSet) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON renders the set as a JSON object preserving insertion order.
func (fs FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Outcome classifies how a pipeline run ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNoFace
	OutcomeMismatch
)

// Code returns the wire error code for the outcome, empty on success.
func (o Outcome) Code() string {
	switch o {
	case OutcomeNoFace:
		return "no_face_detected"
	case OutcomeMismatch:
		return "cnic_mismatch"
	}
	return ""
}

// Result is the final artifact of one pipeline run. CardInfo is populated
// only when Outcome is OutcomeOK; FrontCNIC/BackCNIC are carried on a
// mismatch so callers can diagnose which side disagreed.
type Result struct {
	Outcome   Outcome
	CardInfo  FieldSet
	FrontCNIC string
	BackCNIC  string
	UpperRaw  []string
	LowerRaw  []string
}
