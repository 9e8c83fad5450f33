package wesim

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gridlington/datahub/model"
)

// Workbook layout constants: the sheets carry three banner rows, then the
// group header row, the code header row and the data. The interconnector
// sheet has a single header row plus a separate capacity block in columns
// J:K.
const (
	groupHeaderRow = 3
	codeHeaderRow  = 4
	dataStartRow   = 5

	indexCol     = 1
	dataStartCol = 2

	flowsHeaderRow = 4
	flowsEndCol    = 6

	flowCapHeaderRow = 3
	flowCapCol       = 9
	flowCapRows      = 4
)

// Source is the raw workbook content: the capacity sheet, the three regional
// output sheets in workbook order, the interconnector flows sheet and the
// interconnector capacity lookup block.
type Source struct {
	Capacity     *Frame
	Regions      []*Frame
	RegionNames  []string
	Flows        *Frame
	FlowCapacity *model.Table
}

// ReadSource reads the five known sheets from the workbook on disk. This is
// the hub's only disk input; everything downstream is in-memory.
func ReadSource(path string) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open wesim workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 5 {
		return nil, model.MalformedLayout(
			fmt.Sprintf("workbook has %d sheets, expected at least 5", len(sheets)))
	}

	src := &Source{}
	src.Capacity, err = readMultiHeader(f, sheets[0])
	if err != nil {
		return nil, err
	}
	for _, name := range sheets[1:4] {
		frame, err := readMultiHeader(f, name)
		if err != nil {
			return nil, err
		}
		src.Regions = append(src.Regions, frame)
		src.RegionNames = append(src.RegionNames, name)
	}
	src.Flows, err = readFlows(f, sheets[4])
	if err != nil {
		return nil, err
	}
	src.FlowCapacity, err = readFlowCapacity(f, sheets[4])
	if err != nil {
		return nil, err
	}
	return src, nil
}

// readMultiHeader reads a sheet with the two header rows. The first header
// level sits in merged cells, so it is forward-filled across the columns it
// spans.
func readMultiHeader(f *excelize.File, sheet string) (*Frame, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) <= dataStartRow {
		return nil, model.MalformedLayout(
			fmt.Sprintf("sheet %q is too short for the expected header layout", sheet))
	}

	groups := rows[groupHeaderRow]
	codes := rows[codeHeaderRow]
	ncols := len(groups)
	if len(codes) > ncols {
		ncols = len(codes)
	}
	for _, row := range rows[dataStartRow:] {
		if len(row) > ncols {
			ncols = len(row)
		}
	}
	if ncols <= dataStartCol {
		return nil, model.MalformedLayout(fmt.Sprintf("sheet %q has no data columns", sheet))
	}

	frame := &Frame{IndexName: cell(codes, indexCol)}
	group := ""
	for c := dataStartCol; c < ncols; c++ {
		if g := cell(groups, c); g != "" {
			group = g
		}
		frame.Columns = append(frame.Columns, [2]string{group, cell(codes, c)})
	}
	for _, row := range rows[dataStartRow:] {
		idx := parseCell(cell(row, indexCol))
		if idx == nil && emptyRow(row, dataStartCol, ncols) {
			continue
		}
		frame.Index = append(frame.Index, idx)
		data := make([]any, ncols-dataStartCol)
		for c := dataStartCol; c < ncols; c++ {
			data[c-dataStartCol] = parseCell(cell(row, c))
		}
		frame.Data = append(frame.Data, data)
	}
	return frame, nil
}

// readFlows reads the interconnector flows block (columns B:G, one header
// row) and synthesizes the "Interconnector" group level the pivot expects.
func readFlows(f *excelize.File, sheet string) (*Frame, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) <= dataStartRow {
		return nil, model.MalformedLayout(
			fmt.Sprintf("sheet %q is too short for the expected header layout", sheet))
	}

	header := rows[flowsHeaderRow]
	frame := &Frame{IndexName: cell(header, indexCol)}
	for c := dataStartCol; c <= flowsEndCol; c++ {
		frame.Columns = append(frame.Columns, [2]string{"Interconnector", cell(header, c)})
	}
	for _, row := range rows[dataStartRow:] {
		idx := parseCell(cell(row, indexCol))
		if idx == nil && emptyRow(row, dataStartCol, flowsEndCol+1) {
			continue
		}
		frame.Index = append(frame.Index, idx)
		data := make([]any, flowsEndCol+1-dataStartCol)
		for c := dataStartCol; c <= flowsEndCol; c++ {
			data[c-dataStartCol] = parseCell(cell(row, c))
		}
		frame.Data = append(frame.Data, data)
	}
	return frame, nil
}

// readFlowCapacity extracts the small Code / Capacity (MW) lookup block from
// the interconnector sheet and promotes its header row.
func readFlowCapacity(f *excelize.File, sheet string) (*model.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) <= flowCapHeaderRow+flowCapRows {
		return nil, model.MalformedLayout(
			fmt.Sprintf("sheet %q has no interconnector capacity block", sheet))
	}

	header := rows[flowCapHeaderRow]
	left, right := cell(header, flowCapCol), cell(header, flowCapCol+1)
	if left == "" || right == "" {
		return nil, model.MalformedLayout(
			fmt.Sprintf("sheet %q is missing the capacity block header", sheet))
	}

	out := model.NewTable([]string{left, right})
	for i := 0; i < flowCapRows; i++ {
		row := rows[flowCapHeaderRow+1+i]
		out.AppendRow(int64(i), []any{
			parseCell(cell(row, flowCapCol)),
			parseCell(cell(row, flowCapCol+1)),
		})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func emptyRow(row []string, from, to int) bool {
	for c := from; c < to && c < len(row); c++ {
		if row[c] != "" {
			return false
		}
	}
	return true
}
