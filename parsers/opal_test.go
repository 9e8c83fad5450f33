package parsers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/opal"
)

func TestParseOpalScalars(t *testing.T) {
	body := `{"frame": 1, "time": 8.58, "total_gen": 34.9, "ev_charge": 4}`
	payload, err := ParseOpal(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 1.0, payload["frame"])
	assert.Equal(t, 8.58, payload["time"])
	assert.Equal(t, 34.9, payload["total_gen"])
	assert.Equal(t, 4.0, payload["ev_charge"])
}

func TestParseOpalUnknownKeysIgnoredDownstream(t *testing.T) {
	body := `{"frame": 1, "nonsense": 9}`
	payload, err := ParseOpal(strings.NewReader(body))
	require.NoError(t, err)
	// the parser keeps the key; the table's validation decides its fate
	assert.Equal(t, 9.0, payload["nonsense"])
}

func TestParseOpalArrayForm(t *testing.T) {
	values := make([]string, opal.ArrayLength)
	for i := range values {
		values[i] = fmt.Sprint(i)
	}
	body := `{"array": [` + strings.Join(values, ",") + `]}`

	payload, err := ParseOpal(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 0.0, payload["frame"])
	assert.Equal(t, 1.0, payload["time"])
	assert.Equal(t, 5.0, payload["total_gen"])
}

func TestParseOpalArrayWrongLength(t *testing.T) {
	_, err := ParseOpal(strings.NewReader(`{"array": [1, 2, 3]}`))
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindInvalidArrayLength, apiErr.Kind)
}

func TestParseOpalMalformed(t *testing.T) {
	for _, body := range []string{``, `[1, 2]`, `{"frame": "one"}`, `{"frame": 1`} {
		_, err := ParseOpal(strings.NewReader(body))
		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr, body)
		assert.Equal(t, model.KindBadRequest, apiErr.Kind, body)
	}
}
