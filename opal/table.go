// Package opal holds the real-time telemetry table: one row of scalar fields
// per frame, ordered by frame number.
package opal

import (
	"math"
	"time"

	"github.com/tidwall/btree"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/schema"
)

// StartDate is the simulation epoch. The wire "time" field carries an offset
// in seconds from this instant.
var StartDate = time.Date(2035, time.January, 22, 0, 0, 0, 0, time.UTC)

// ArrayLength is the element count of the legacy flat-array payload:
// frame, time offset, three padding slots, then the 40 telemetry fields in
// registry order.
const ArrayLength = 45

const arrayPadding = 3

// Row is one frame of telemetry. Values holds the 40 telemetry fields in
// registry order; int-kind fields are stored truncated so column kinds never
// widen across upserts.
type Row struct {
	Frame  int64
	Time   time.Time
	Values []float64
}

// Table is an ordered collection of rows keyed by frame number. The column
// set and per-column kinds are fixed from the registry for the table's
// lifetime; range queries run in ascending key order.
type Table struct {
	fields  []schema.Field
	columns []string
	rows    *btree.BTreeG[Row]
}

// New returns an empty table. With seedRow set the table starts with one
// zero-filled sentinel row at frame 0, Time at the epoch; the default is
// zero rows.
func New(seedRow bool) *Table {
	fields := schema.Opal()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Label
	}
	t := &Table{
		fields:  fields,
		columns: columns,
		rows: btree.NewBTreeG(func(a, b Row) bool {
			return a.Frame < b.Frame
		}),
	}
	if seedRow {
		t.rows.Set(Row{
			Frame:  0,
			Time:   StartDate,
			Values: make([]float64, len(fields)-1),
		})
	}
	return t
}

// Columns returns the table's live column list, Time first. Mutating it out
// of band is exactly the corruption Upsert defends against.
func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) Len() int {
	return t.rows.Len()
}

// Upsert validates a canonical mapping payload (field key -> scalar) and
// writes the row at its frame key, replacing any existing row there.
// Validation happens before any mutation: on error the table is untouched.
func (t *Table) Upsert(payload map[string]float64) error {
	if err := t.checkColumns(); err != nil {
		return err
	}

	var missing []string
	if _, ok := payload["frame"]; !ok {
		missing = append(missing, "frame")
	}
	for _, f := range t.fields {
		if _, ok := payload[f.Key]; !ok {
			missing = append(missing, f.Key)
		}
	}
	if len(missing) > 0 {
		return model.MissingFields(missing)
	}

	row := Row{
		Frame:  int64(payload["frame"]),
		Time:   StartDate.Add(time.Duration(payload["time"] * float64(time.Second))),
		Values: make([]float64, len(t.fields)-1),
	}
	for i, f := range t.fields[1:] {
		v := payload[f.Key]
		if f.Kind == schema.KindInt {
			v = math.Trunc(v)
		}
		row.Values[i] = v
	}
	t.rows.Set(row)
	return nil
}

// FromArray resolves the legacy flat wire format to the canonical mapping
// form: index 0 is the frame number, index 1 the time offset in seconds,
// indices 2-4 are padding, the rest map 1:1 to the telemetry fields.
func FromArray(values []float64) (map[string]float64, error) {
	if len(values) != ArrayLength {
		return nil, model.InvalidArrayLength(ArrayLength, len(values))
	}
	fields := schema.Opal()
	payload := make(map[string]float64, len(fields)+1)
	payload["frame"] = values[0]
	payload["time"] = values[1]
	for i, f := range fields[1:] {
		payload[f.Key] = values[2+arrayPadding+i]
	}
	return payload, nil
}

// Slice returns the rows whose frame lies in [start, end], ascending, as a
// split-orientation table. An empty result is not an error; end < start is.
func (t *Table) Slice(start, end int64) (*model.Table, error) {
	if end < start {
		return nil, model.InvalidRange(start, end)
	}
	out := model.NewTable(t.columns)
	t.rows.Ascend(Row{Frame: start}, func(r Row) bool {
		if r.Frame > end {
			return false
		}
		row := make([]any, 0, len(t.columns))
		row = append(row, r.Time)
		for i, f := range t.fields[1:] {
			if f.Kind == schema.KindInt {
				row = append(row, int64(r.Values[i]))
			} else {
				row = append(row, r.Values[i])
			}
		}
		out.AppendRow(r.Frame, row)
		return true
	})
	return out, nil
}

// Get returns the row at a frame key, if any.
func (t *Table) Get(frame int64) (Row, bool) {
	return t.rows.Get(Row{Frame: frame})
}

func (t *Table) checkColumns() error {
	fields := schema.Opal()
	if len(t.columns) != len(fields) {
		return model.CorruptTableState("column count no longer matches the registry")
	}
	for i, f := range fields {
		if t.columns[i] != f.Label {
			return model.CorruptTableState("column set no longer matches the registry")
		}
	}
	return nil
}
