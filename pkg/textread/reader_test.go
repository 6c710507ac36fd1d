package textread

import "testing"

func TestCloseWithoutUse(t *testing.T) {
	r := NewReader()
	if err := r.Close(); err != nil {
		t.Fatalf("Close on unused reader: %v", err)
	}
	if r.client != nil {
		t.Fatalf("Close initialised the client on an unused reader")
	}
	if err := r.Close(); err != nil { // idempotent
		t.Fatalf("second Close: %v", err)
	}
}

func TestNewReaderDefaultsToEnglish(t *testing.T) {
	r := NewReader()
	if len(r.languages) != 1 || r.languages[0] != "eng" {
		t.Fatalf("languages = %v", r.languages)
	}
	r = NewReader("eng", "urd")
	if len(r.languages) != 2 {
		t.Fatalf("languages = %v", r.languages)
	}
}
