package card

import "strings"

// Merge unions the upper and lower field sets into the final record.
// The union is right-biased: on a name collision the lower-region value wins,
// but the field keeps the upper set's position. Collisions are not expected
// since the two regions carry disjoint field names.
// Every value has periods stripped as a final sanitization step.
func Merge(upper, lower FieldSet) FieldSet {
	out := make(FieldSet, 0, len(upper)+len(lower))
	for _, f := range upper {
		if v, ok := lower.Get(f.Name); ok {
			f.Value = v
		}
		out = append(out, f)
	}
	for _, f := range lower {
		if _, ok := upper.Get(f.Name); ok {
			continue
		}
		out = append(out, f)
	}
	for i := range out {
		out[i].Value = strings.ReplaceAll(out[i].Value, ".", "")
	}
	return out
}
