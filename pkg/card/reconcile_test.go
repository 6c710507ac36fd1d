package card

import "testing"

func TestReconcile(t *testing.T) {
	cases := []struct {
		front, back string
		want        bool
	}{
		{"1234512345671", "1234512345671", true},
		{"A", "B", false},
		{"", "X", false},
		{"X", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		if got := Reconcile(c.front, c.back); got != c.want {
			t.Fatalf("Reconcile(%q,%q) = %v want %v", c.front, c.back, got, c.want)
		}
	}
}

func TestBackCNICFixedSubstring(t *testing.T) {
	payload := "AAAAAAAAAAAA1234512345671ZZZ"
	if got := BackCNIC(payload); got != "1234512345671" {
		t.Fatalf("BackCNIC = %q", got)
	}
}

func TestBackCNICShortPayloads(t *testing.T) {
	if got := BackCNIC("short"); got != "" {
		t.Fatalf("expected empty for short payload, got %q", got)
	}
	// payloads ending inside the identifier window are clamped, not rejected
	if got := BackCNIC("AAAAAAAAAAAA12345"); got != "12345" {
		t.Fatalf("expected clamped tail, got %q", got)
	}
}
