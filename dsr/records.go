// Package dsr holds the Demand-Side Response record list: an append-only
// ordered sequence of validated multi-dimensional simulation outputs.
package dsr

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/schema"
	"github.com/gridlington/datahub/validate"
)

// Array is one field of a record: row-major numeric data or character data,
// with its shape. Exactly one of Floats/Strings is populated.
type Array struct {
	Shape   []int
	Floats  []float64
	Strings []string
}

func (a Array) Text() bool {
	return a.Strings != nil
}

// Nested rebuilds the natural nested-slice form for serialization:
// a (1440, 13) array becomes 1440 slices of 13 values.
func (a Array) Nested() any {
	if a.Text() {
		if len(a.Shape) == 0 {
			if len(a.Strings) == 0 {
				return ""
			}
			return a.Strings[0]
		}
		return a.Strings
	}
	if len(a.Shape) < 2 {
		return a.Floats
	}
	rows, cols := a.Shape[0], a.Shape[1]
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = a.Floats[i*cols : (i+1)*cols]
	}
	return out
}

// Record is one validated DSR upload. Arrays is keyed by field label;
// Name and Warn are the free-text metadata fields, defaulting to empty.
type Record struct {
	ID     uuid.UUID
	Name   string
	Warn   string
	Arrays map[string]Array
}

// NewRecord assigns an identity to a parsed record and fills the text
// metadata defaults from the registry.
func NewRecord(arrays map[string]Array) Record {
	rec := Record{ID: uuid.New(), Arrays: arrays}
	if a, ok := arrays["Name"]; ok && a.Text() && len(a.Shape) == 0 {
		rec.Name = a.Nested().(string)
		delete(arrays, "Name")
	}
	if a, ok := arrays["Warn"]; ok && a.Text() && len(a.Shape) == 0 {
		rec.Warn = a.Nested().(string)
		delete(arrays, "Warn")
	}
	return rec
}

// Shapes projects a record into the validator's view of it.
func (r Record) Shapes() map[string]validate.Shape {
	shapes := make(map[string]validate.Shape, len(r.Arrays)+2)
	for label, a := range r.Arrays {
		shapes[label] = validate.Shape{Dims: a.Shape, Text: a.Text()}
	}
	// Name and Warn are optional scalars with defaults, always well-formed.
	shapes["Name"] = validate.Shape{Text: true}
	shapes["Warn"] = validate.Shape{Text: true}
	return shapes
}

// Validate checks the record against the DSR registry.
func (r Record) Validate() error {
	return validate.Validate(r.Shapes(), schema.DSR())
}

// List is the append-only record sequence. Insertion order is arrival order;
// there is no key, no upsert and no deletion short of a full reset.
type List struct {
	records []Record
}

func NewList() *List {
	return &List{}
}

func (l *List) Append(rec Record) {
	l.records = append(l.records, rec)
}

func (l *List) Len() int {
	return len(l.records)
}

// Slice returns records by position, 0-indexed, end inclusive. Out-of-range
// bounds clamp; end < start fails.
func (l *List) Slice(start, end int) ([]Record, error) {
	if end < start {
		return nil, model.InvalidRange(int64(start), int64(end))
	}
	if start < 0 {
		start = 0
	}
	if end >= len(l.records) {
		end = len(l.records) - 1
	}
	if start > end {
		return []Record{}, nil
	}
	return l.records[start : end+1], nil
}

// Project renders records with only the requested labels retained. cols is a
// comma-separated, case-insensitive list; underscores match spaces. An empty
// cols keeps every field. Character arrays come out as plain strings.
func Project(records []Record, cols string) ([]map[string]any, error) {
	labels, err := resolveColumns(cols)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(labels))
		for _, label := range labels {
			switch label {
			case "Name":
				row[label] = rec.Name
			case "Warn":
				row[label] = rec.Warn
			default:
				if a, ok := rec.Arrays[label]; ok {
					row[label] = a.Nested()
				}
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func resolveColumns(cols string) ([]string, error) {
	fields := schema.DSR()
	if strings.TrimSpace(cols) == "" {
		labels := make([]string, len(fields))
		for i, f := range fields {
			labels[i] = f.Label
		}
		return labels, nil
	}
	byNorm := make(map[string]string, len(fields))
	for _, f := range fields {
		byNorm[normalize(f.Label)] = f.Label
	}
	var labels []string
	for _, col := range strings.Split(cols, ",") {
		label, ok := byNorm[normalize(col)]
		if !ok {
			return nil, model.InvalidColumn(strings.TrimSpace(col))
		}
		labels = append(labels, label)
	}
	return labels, nil
}

func normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, "_", " ")
}
