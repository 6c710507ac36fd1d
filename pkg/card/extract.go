package card

import (
	"strings"
	"time"
)

// Phrases commonly printed on the card that must never become field values.
// Matching is exact, including the OCR misreading in the country banner.
var frontBoilerplate = map[string]struct{}{
	"/":                            {},
	"Pakistan":                     {},
	"pakistan":                     {},
	"Name":                         {},
	"Father Name":                  {},
	"Gender":                       {},
	"Country of Stay":              {},
	"Identity Number":              {},
	"Date of Issue":                {},
	"Date of Expiry":               {},
	"Signature":                    {},
	"PAKISTAN":                     {},
	"ISLAMIC REpUBLIC OF PAKISTAN": {},
}

var lowerBoilerplate = map[string]struct{}{
	"Date of Expiry":       {},
	"United Arab Emirates": {},
	"Date":                 {},
	"of Expiry":            {},
	"Date of Birth":        {},
	"/":                    {},
	"Pakistan":             {},
}

// Positional field mapping: the order of surviving tokens determines field
// identity. The tables keep that implicit contract explicit and testable.
var upperFieldOrder = []string{"Name", "Guardian Name"}

var lowerFieldOrder = []string{"Id Card Number", "Date Of Birth", "Date Of Issue", "Date Of Expiry"}

// minLowerTokens is the minimum surviving-token count for the lower region;
// with fewer, positional assignment would mislabel fields, so nothing is mapped.
const minLowerTokens = 4

// A CNIC prints as xxxxx-xxxxxxx-x: 15 characters including the dashes.
const cnicPrintedLen = 15

// survivors drops boilerplate tokens and strips internal hyphens from the rest.
func survivors(tokens []Token, boilerplate map[string]struct{}) []string {
	var out []string
	for _, t := range tokens {
		if _, drop := boilerplate[t.Text]; drop {
			continue
		}
		out = append(out, strings.ReplaceAll(t.Text, "-", ""))
	}
	return out
}

// ExtractUpper maps recognized upper-region tokens to Name / Guardian Name.
// Fewer surviving tokens than fields is not an error; unmatched fields are
// simply absent. Returns the mapped fields and the surviving raw texts.
func ExtractUpper(tokens []Token) (FieldSet, []string) {
	texts := survivors(tokens, frontBoilerplate)
	var fs FieldSet
	for i, name := range upperFieldOrder {
		if i >= len(texts) {
			break
		}
		fs = append(fs, Field{Name: name, Value: texts[i]})
	}
	return fs, texts
}

// ExtractLower maps lower-region tokens to card number and dates, and scans
// for the printed CNIC. The CNIC scan runs over ALL raw tokens, not the
// filtered subset: the number line itself may match the boilerplate filters
// once dashes are involved, so filtering must not hide it.
func ExtractLower(tokens []Token) (cnic string, fs FieldSet, texts []string) {
	texts = convertDates(survivors(tokens, lowerBoilerplate))
	if len(texts) >= minLowerTokens {
		for i, name := range lowerFieldOrder {
			fs = append(fs, Field{Name: name, Value: texts[i]})
		}
	}
	for _, t := range tokens {
		if strings.Contains(t.Text, "-") && len(t.Text) == cnicPrintedLen {
			cnic = strings.ReplaceAll(t.Text, "-", "")
			break
		}
	}
	return cnic, fs, texts
}

// convertDates rewrites tokens shaped like DD.MM.YYYY to a compact DDMMYY
// digit string. This is a best-effort reformat, not a validating parse:
// anything that does not parse passes through unchanged.
func convertDates(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, s := range texts {
		if dt, err := time.Parse("02.01.2006", s); err == nil {
			out = append(out, dt.Format("020106"))
		} else {
			out = append(out, s)
		}
	}
	return out
}
