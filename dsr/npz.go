package dsr

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"

	"github.com/gridlington/datahub/model"
)

// ReadNPZ parses an uploaded .npz archive (a zip of .npy entries, one per
// field label) into the record's array map. Numeric entries go through
// npyio; |Sn character entries are decoded from the raw payload since npyio
// only reads numeric dtypes.
func ReadNPZ(data []byte) (map[string]Array, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.BadRequest("not a valid npz archive: " + err.Error())
	}
	arrays := make(map[string]Array, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, model.BadRequest(fmt.Sprintf("npz entry %q: %v", f.Name, err))
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, model.BadRequest(fmt.Sprintf("npz entry %q: %v", f.Name, err))
		}
		arr, err := parseNpy(raw)
		if err != nil {
			return nil, model.BadRequest(fmt.Sprintf("npz entry %q: %v", f.Name, err))
		}
		arrays[strings.TrimSuffix(f.Name, ".npy")] = arr
	}
	return arrays, nil
}

func parseNpy(raw []byte) (Array, error) {
	r, err := npyio.NewReader(bytes.NewReader(raw))
	if err != nil {
		return Array{}, err
	}
	hdr := r.Header
	if hdr.Descr.Fortran {
		return Array{}, fmt.Errorf("fortran-ordered arrays are not supported")
	}
	shape := append([]int(nil), hdr.Descr.Shape...)

	if size, ok := stringSize(hdr.Descr.Type); ok {
		strs, err := parseNpyStrings(raw, shape, size)
		if err != nil {
			return Array{}, err
		}
		return Array{Shape: shape, Strings: strs}, nil
	}

	floats, err := readNumeric(r, hdr.Descr.Type, count(shape))
	if err != nil {
		return Array{}, err
	}
	return Array{Shape: shape, Floats: floats}, nil
}

func readNumeric(r *npyio.Reader, dtype string, n int) ([]float64, error) {
	switch dtype {
	case "<f8", "=f8", "f8":
		data := make([]float64, 0, n)
		if err := r.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case "<f4", "=f4", "f4":
		data := make([]float32, 0, n)
		if err := r.Read(&data); err != nil {
			return nil, err
		}
		return toFloat64(data, func(v float32) float64 { return float64(v) }), nil
	case "<i8", "=i8", "i8":
		data := make([]int64, 0, n)
		if err := r.Read(&data); err != nil {
			return nil, err
		}
		return toFloat64(data, func(v int64) float64 { return float64(v) }), nil
	case "<i4", "=i4", "i4":
		data := make([]int32, 0, n)
		if err := r.Read(&data); err != nil {
			return nil, err
		}
		return toFloat64(data, func(v int32) float64 { return float64(v) }), nil
	}
	return nil, fmt.Errorf("unsupported dtype %q", dtype)
}

func toFloat64[T any](data []T, conv func(T) float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = conv(v)
	}
	return out
}

// stringSize extracts n from a |Sn dtype.
func stringSize(dtype string) (int, bool) {
	s := strings.TrimPrefix(dtype, "|")
	if !strings.HasPrefix(s, "S") {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseNpyStrings reads fixed-width character data directly from the npy
// payload. The header layout is fixed by the format: 6 magic bytes, a
// two-byte version, then a header of declared length.
func parseNpyStrings(raw []byte, shape []int, size int) ([]string, error) {
	if len(raw) < 10 {
		return nil, fmt.Errorf("truncated npy header")
	}
	var offset int
	if raw[6] == 1 {
		offset = 10 + int(binary.LittleEndian.Uint16(raw[8:10]))
	} else {
		if len(raw) < 12 {
			return nil, fmt.Errorf("truncated npy header")
		}
		offset = 12 + int(binary.LittleEndian.Uint32(raw[8:12]))
	}
	n := count(shape)
	if len(raw) < offset+n*size {
		return nil, fmt.Errorf("truncated character data")
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		chunk := raw[offset+i*size : offset+(i+1)*size]
		out[i] = string(bytes.TrimRight(chunk, "\x00"))
	}
	return out, nil
}

func count(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
