// Package validate checks inbound records against a feed registry. Failures
// are batched: the caller gets every offending label in one error so the HTTP
// layer can produce a single actionable message per request.
package validate

import (
	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/schema"
)

// Shape is the observed layout of one field of an inbound record: the array
// dimensions (empty for scalars) and whether the elements are character data.
type Shape struct {
	Dims []int
	Text bool
}

// Validate compares a record, keyed by field label, against the registry
// fields. Missing required fields short-circuit with their own error class:
// shape checks on absent fields are meaningless. Otherwise every present
// field is shape- and kind-checked, a field failing both is reported once,
// and offenders are listed in registry order.
func Validate(record map[string]Shape, fields []schema.Field) error {
	var missing []string
	for _, f := range fields {
		if _, ok := record[f.Label]; !ok && f.Required {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return model.MissingFields(missing)
	}

	// Wildcard dimensions are fixed per record: the first present wildcard
	// field sets the size the rest must agree with.
	wildcard := 0
	for _, f := range fields {
		v, ok := record[f.Label]
		if !ok {
			continue
		}
		if dim := wildcardDim(f, v); dim > 0 {
			wildcard = dim
			break
		}
	}

	var failing []string
	for _, f := range fields {
		v, ok := record[f.Label]
		if !ok {
			continue
		}
		if !shapeOK(f, v, wildcard) || !kindOK(f, v) {
			failing = append(failing, f.Label)
		}
	}
	if len(failing) > 0 {
		return model.InvalidSize(failing)
	}
	return nil
}

func wildcardDim(f schema.Field, v Shape) int {
	for i, want := range f.Shape {
		if want == schema.Wildcard && i < len(v.Dims) {
			return v.Dims[i]
		}
	}
	return 0
}

func shapeOK(f schema.Field, v Shape, wildcard int) bool {
	if len(v.Dims) != len(f.Shape) {
		return false
	}
	for i, want := range f.Shape {
		if want == schema.Wildcard {
			want = wildcard
		}
		if v.Dims[i] != want {
			return false
		}
	}
	return true
}

func kindOK(f schema.Field, v Shape) bool {
	if f.Kind == schema.KindText {
		return v.Text
	}
	return !v.Text
}
