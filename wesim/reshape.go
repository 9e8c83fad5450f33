package wesim

import (
	"fmt"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/schema"
)

// Long is a pivoted sheet: one row per (hour, code), one value column per
// source category (the first header level).
type Long struct {
	Cats []string
	Rows []LongRow
}

type LongRow struct {
	Hour any
	Code string
	Vals []any
}

// Table renders the long form as a split-orientation table with columns
// Hour, Code and the categories.
func (l *Long) Table() *model.Table {
	cols := append([]string{"Hour", "Code"}, l.Cats...)
	out := model.NewTable(cols)
	for i, r := range l.Rows {
		row := make([]any, 0, len(cols))
		row = append(row, r.Hour, r.Code)
		row = append(row, r.Vals...)
		out.AppendRow(int64(i), row)
	}
	return out
}

// StructureWide pivots a two-level-header sheet into long form. Columns whose
// code is outside the allow-list (five regions, four interconnectors, Total)
// are dropped, as are (hour, code) rows with no data in any category.
func StructureWide(f *Frame) (*Long, error) {
	f = f.DropEmptyColumns()

	var keep []int
	for c, col := range f.Columns {
		if col[0] == "" || col[1] == "" {
			return nil, model.MalformedLayout(
				fmt.Sprintf("column %d is missing a header level", c))
		}
		if schema.AllowedCode(col[1]) {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		return nil, model.MalformedLayout("no region, interconnector or Total columns found")
	}

	var (
		cats  []string
		codes []string
		at    = make(map[[2]string]int, len(keep))
	)
	for _, c := range keep {
		col := f.Columns[c]
		if _, ok := at[col]; !ok {
			at[col] = c
		}
		if !contains(cats, col[0]) {
			cats = append(cats, col[0])
		}
		if !contains(codes, col[1]) {
			codes = append(codes, col[1])
		}
	}

	long := &Long{Cats: cats}
	for r, hour := range f.Index {
		for _, code := range codes {
			vals := make([]any, len(cats))
			empty := true
			for i, cat := range cats {
				c, ok := at[[2]string{cat, code}]
				if !ok || c >= len(f.Data[r]) {
					continue
				}
				if v := f.Data[r][c]; v != nil {
					vals[i] = v
					empty = false
				}
			}
			if empty {
				continue
			}
			long.Rows = append(long.Rows, LongRow{Hour: hour, Code: code, Vals: vals})
		}
	}
	return long, nil
}

// StructureCapacity transposes the capacity sheet's Region block so that
// technologies become columns and codes become rows, remapping the five
// known codes to their full region names.
func StructureCapacity(f *Frame) (*model.Table, error) {
	f = f.DropEmptyColumns()

	var keep []int
	for c, col := range f.Columns {
		if col[0] == "Region" {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		return nil, model.MalformedLayout("capacity sheet has no Region header block")
	}

	cols := make([]string, 0, len(f.Index)+1)
	cols = append(cols, "Code")
	for _, tech := range f.Index {
		cols = append(cols, fmt.Sprint(tech))
	}

	out := model.NewTable(cols)
	for i, c := range keep {
		row := make([]any, 0, len(cols))
		row = append(row, schema.RegionName(f.Columns[c][1]))
		for r := range f.Index {
			var v any
			if c < len(f.Data[r]) {
				v = f.Data[r][c]
			}
			row = append(row, v)
		}
		out.AppendRow(int64(i), row)
	}
	return out, nil
}

// MergeLong outer-joins long tables on (hour, code): a key present in one
// table but not another appears once, with the missing categories left null.
func MergeLong(longs []*Long) *Long {
	merged := &Long{}
	offsets := make([]int, len(longs))
	for i, l := range longs {
		offsets[i] = len(merged.Cats)
		merged.Cats = append(merged.Cats, l.Cats...)
	}

	type key struct {
		hour any
		code string
	}
	at := make(map[key]int)
	for i, l := range longs {
		for _, r := range l.Rows {
			k := key{r.Hour, r.Code}
			idx, ok := at[k]
			if !ok {
				idx = len(merged.Rows)
				at[k] = idx
				merged.Rows = append(merged.Rows, LongRow{
					Hour: r.Hour,
					Code: r.Code,
					Vals: make([]any, len(merged.Cats)),
				})
			}
			copy(merged.Rows[idx].Vals[offsets[i]:offsets[i]+len(l.Cats)], r.Vals)
		}
	}
	return merged
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
