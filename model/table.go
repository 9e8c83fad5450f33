package model

// Table is the split-orientation serialization of a two-dimensional result:
// parallel index, columns and data arrays, reconstructible into a table.
type Table struct {
	Index   []any   `json:"index"`
	Columns []any   `json:"columns"`
	Data    [][]any `json:"data"`
}

func NewTable(columns []string) *Table {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	return &Table{
		Index:   []any{},
		Columns: cols,
		Data:    [][]any{},
	}
}

func (t *Table) AppendRow(index any, row []any) {
	t.Index = append(t.Index, index)
	t.Data = append(t.Data, row)
}

func (t *Table) Rows() int {
	return len(t.Data)
}
