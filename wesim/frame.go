// Package wesim reshapes the whole-system capacity/flow workbook into
// normalized tables: one wide capacity table plus long (hour, code) tables
// for regional output and interconnector flows.
package wesim

import "strconv"

// Frame is one raw sheet as read from the workbook: a two-level column
// header (group, code) over rows keyed by the sheet's index column.
type Frame struct {
	IndexName string
	Index     []any
	Columns   [][2]string
	Data      [][]any
}

// DropEmptyColumns removes columns with no data at all, mirroring the
// blank spacer columns the workbook uses between blocks.
func (f *Frame) DropEmptyColumns() *Frame {
	var keep []int
	for c := range f.Columns {
		for _, row := range f.Data {
			if c < len(row) && row[c] != nil {
				keep = append(keep, c)
				break
			}
		}
	}
	out := &Frame{
		IndexName: f.IndexName,
		Index:     f.Index,
		Columns:   make([][2]string, len(keep)),
		Data:      make([][]any, len(f.Data)),
	}
	for i, c := range keep {
		out.Columns[i] = f.Columns[c]
	}
	for r, row := range f.Data {
		nr := make([]any, len(keep))
		for i, c := range keep {
			if c < len(row) {
				nr[i] = row[c]
			}
		}
		out.Data[r] = nr
	}
	return out
}

// parseCell maps a spreadsheet cell to nil (empty), int64, float64 or string.
func parseCell(s string) any {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v == float64(int64(v)) {
			return int64(v)
		}
		return v
	}
	return s
}
