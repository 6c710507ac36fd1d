package card

import (
	"reflect"
	"testing"
)

func toks(texts ...string) []Token {
	out := make([]Token, len(texts))
	for i, s := range texts {
		out[i] = Token{Text: s}
	}
	return out
}

func TestExtractUpperEmpty(t *testing.T) {
	fs, raw := ExtractUpper(nil)
	if len(fs) != 0 || len(raw) != 0 {
		t.Fatalf("expected empty extraction, got %v raw=%v", fs, raw)
	}
}

func TestExtractUpperSingleTokenStripsHyphen(t *testing.T) {
	fs, _ := ExtractUpper(toks("Name-ish"))
	if len(fs) != 1 {
		t.Fatalf("expected 1 field, got %v", fs)
	}
	if v, _ := fs.Get("Name"); v != "Nameish" {
		t.Fatalf("Name = %q want %q", v, "Nameish")
	}
}

func TestExtractUpperTwoTokensWithBoilerplate(t *testing.T) {
	fs, raw := ExtractUpper(toks("PAKISTAN", "Ali", "Name", "Ahmed", "/"))
	if len(raw) != 2 {
		t.Fatalf("boilerplate not filtered, raw=%v", raw)
	}
	if v, _ := fs.Get("Name"); v != "Ali" {
		t.Fatalf("Name = %q", v)
	}
	if v, _ := fs.Get("Guardian Name"); v != "Ahmed" {
		t.Fatalf("Guardian Name = %q", v)
	}
}

func TestExtractLowerTooFewTokens(t *testing.T) {
	cnic, fs, _ := ExtractLower(toks("12345-1234567-1", "01.02.1990"))
	if len(fs) != 0 {
		t.Fatalf("expected no fields with fewer than %d tokens, got %v", minLowerTokens, fs)
	}
	// the identifier scan still runs over the raw tokens
	if cnic != "1234512345671" {
		t.Fatalf("cnic = %q", cnic)
	}
}

func TestExtractLowerFullMapping(t *testing.T) {
	cnic, fs, _ := ExtractLower(toks("12345-1234567-1", "01.02.1990", "01.01.2020", "01.01.2030"))
	want := FieldSet{
		{"Id Card Number", "1234512345671"},
		{"Date Of Birth", "010290"},
		{"Date Of Issue", "010120"},
		{"Date Of Expiry", "010130"},
	}
	if !reflect.DeepEqual(fs, want) {
		t.Fatalf("fields = %v want %v", fs, want)
	}
	if cnic != "1234512345671" {
		t.Fatalf("cnic = %q", cnic)
	}
}

func TestExtractLowerBoilerplateFiltered(t *testing.T) {
	_, fs, raw := ExtractLower(toks("Date of Birth", "United Arab Emirates", "12345-1234567-1", "01.02.1990", "01.01.2020"))
	if len(raw) != 3 {
		t.Fatalf("boilerplate not filtered, raw=%v", raw)
	}
	if len(fs) != 0 {
		t.Fatalf("3 survivors must not map, got %v", fs)
	}
}

func TestConvertDates(t *testing.T) {
	got := convertDates([]string{"01.02.2030", "hello", "31.12.1999"})
	want := []string{"010230", "hello", "311299"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("convertDates = %v want %v", got, want)
	}
}

func TestCNICScanRequiresPrintedShape(t *testing.T) {
	// 10 characters: right separators, wrong length
	cnic, _, _ := ExtractLower(toks("1234-123-1"))
	if cnic != "" {
		t.Fatalf("short token must not match, got %q", cnic)
	}
	// 13 digits without separators: wrong shape
	cnic, _, _ = ExtractLower(toks("1234512345671"))
	if cnic != "" {
		t.Fatalf("separator-less token must not match, got %q", cnic)
	}
	// first matching token wins
	cnic, _, _ = ExtractLower(toks("99999-9999999-9", "12345-1234567-1"))
	if cnic != "9999999999999" {
		t.Fatalf("cnic = %q", cnic)
	}
}
