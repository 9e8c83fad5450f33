// Package parsers resolves inbound JSON bodies into the canonical record
// shapes the core operates on. Opal's two wire forms (named fields or the
// legacy flat array) are collapsed here: the table only ever sees the
// mapping form.
package parsers

import (
	"io"

	"github.com/go-faster/jx"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/opal"
)

// ParseOpal decodes a POST /opal body. A top-level "array" key selects the
// legacy 45-element flat form; otherwise every key is a scalar telemetry
// field. Unknown scalar keys are ignored, as the original API did.
func ParseOpal(r io.Reader) (map[string]float64, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, model.BadRequest("cannot read request body: " + err.Error())
	}

	var (
		payload = make(map[string]float64)
		flat    []float64
		isArray bool
	)
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		if key == "array" {
			isArray = true
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Float64()
				if err != nil {
					return err
				}
				flat = append(flat, v)
				return nil
			})
		}
		v, err := d.Float64()
		if err != nil {
			return err
		}
		payload[key] = v
		return nil
	})
	if err != nil {
		return nil, model.BadRequest("malformed JSON body: " + err.Error())
	}

	if isArray {
		return opal.FromArray(flat)
	}
	return payload, nil
}
