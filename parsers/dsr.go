package parsers

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"github.com/gridlington/datahub/dsr"
	"github.com/gridlington/datahub/model"
)

// ParseDSR decodes a POST /dsr JSON body: an object keyed by field label,
// each value a scalar string or a nested (1-D or 2-D) array. The observed
// shape is recorded alongside the data for the validator.
func ParseDSR(r io.Reader) (map[string]dsr.Array, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, model.BadRequest("cannot read request body: " + err.Error())
	}

	arrays := make(map[string]dsr.Array)
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		arr, err := decodeValue(d)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		arrays[key] = arr
		return nil
	})
	if err != nil {
		return nil, model.BadRequest("malformed JSON body: " + err.Error())
	}
	return arrays, nil
}

func decodeValue(d *jx.Decoder) (dsr.Array, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return dsr.Array{}, err
		}
		return dsr.Array{Strings: []string{s}}, nil
	case jx.Array:
		return decodeArray(d)
	}
	return dsr.Array{}, fmt.Errorf("expected a string or an array")
}

// decodeArray reads a 1-D or 2-D JSON array. Rows of a 2-D array must all
// have the same length; ragged input is rejected before validation since no
// rectangular shape describes it.
func decodeArray(d *jx.Decoder) (dsr.Array, error) {
	var (
		arr    dsr.Array
		rows   int
		cols   = -1
		curRow int
		twoDim bool
		first  = true
	)
	err := d.Arr(func(d *jx.Decoder) error {
		switch d.Next() {
		case jx.Array:
			if !first && !twoDim {
				return fmt.Errorf("mixed scalar and array elements")
			}
			twoDim = true
			first = false
			curRow = 0
			err := d.Arr(func(d *jx.Decoder) error {
				v, err := d.Float64()
				if err != nil {
					return err
				}
				arr.Floats = append(arr.Floats, v)
				curRow++
				return nil
			})
			if err != nil {
				return err
			}
			if cols == -1 {
				cols = curRow
			} else if curRow != cols {
				return fmt.Errorf("ragged array: row %d has %d elements, want %d", rows, curRow, cols)
			}
			rows++
			return nil
		case jx.String:
			if twoDim {
				return fmt.Errorf("mixed string and array elements")
			}
			first = false
			s, err := d.Str()
			if err != nil {
				return err
			}
			arr.Strings = append(arr.Strings, s)
			return nil
		default:
			if twoDim {
				return fmt.Errorf("mixed scalar and array elements")
			}
			first = false
			v, err := d.Float64()
			if err != nil {
				return err
			}
			arr.Floats = append(arr.Floats, v)
			return nil
		}
	})
	if err != nil {
		return dsr.Array{}, err
	}
	switch {
	case twoDim:
		arr.Shape = []int{rows, cols}
	case arr.Strings != nil:
		arr.Shape = []int{len(arr.Strings)}
	default:
		arr.Shape = []int{len(arr.Floats)}
	}
	return arr, nil
}
