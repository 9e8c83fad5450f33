package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpalRegistry(t *testing.T) {
	fields := Opal()
	require.Len(t, fields, 41)
	assert.Equal(t, "Time", fields[0].Label)
	assert.Equal(t, "time", fields[0].Key)

	ints := 0
	for _, f := range fields {
		require.True(t, f.Required, "opal field %q must be required", f.Label)
		require.Nil(t, f.Shape, "opal field %q must be scalar", f.Label)
		if f.Kind == KindInt {
			ints++
		}
	}
	// seven activity counters plus the three EV status counters
	assert.Equal(t, 10, ints)
}

func TestDSRRegistry(t *testing.T) {
	fields := DSR()
	require.Len(t, fields, 18)

	byLabel := make(map[string]Field, len(fields))
	for _, f := range fields {
		byLabel[f.Label] = f
	}

	cost, ok := byLabel["Cost"]
	require.True(t, ok)
	assert.Equal(t, []int{1440, 13}, cost.Shape)
	assert.True(t, cost.Required)

	ev, ok := byLabel["EV State"]
	require.True(t, ok)
	assert.Equal(t, []int{Wildcard, 4329}, ev.Shape)

	types, ok := byLabel["Activity Types"]
	require.True(t, ok)
	assert.Equal(t, KindText, types.Kind)

	name, ok := byLabel["Name"]
	require.True(t, ok)
	assert.False(t, name.Required)
	assert.Equal(t, KindText, name.Kind)
}

func TestLookups(t *testing.T) {
	key, ok := OpalKeyFor("Total Generation")
	require.True(t, ok)
	assert.Equal(t, "total_gen", key)

	label, ok := OpalLabelFor("ev_charge")
	require.True(t, ok)
	assert.Equal(t, "EV Status (Charging)", label)

	_, ok = OpalKeyFor("No Such Column")
	assert.False(t, ok)

	key, ok = DSRKeyFor("kWh Cost")
	require.True(t, ok)
	assert.Equal(t, "kwh_cost", key)

	label, ok = DSRLabelFor("baseline_non_ev")
	require.True(t, ok)
	assert.Equal(t, "Baseline Non-EV", label)
}

func TestRegionNames(t *testing.T) {
	assert.Equal(t, "Scotland", RegionName("SCO"))
	assert.Equal(t, "London", RegionName("LON"))
	// unknown codes pass through unchanged
	assert.Equal(t, "Total", RegionName("Total"))
	assert.Equal(t, "XYZ", RegionName("XYZ"))
	assert.Len(t, RegionCodes(), 5)
}

func TestAllowedCode(t *testing.T) {
	for _, code := range []string{"SCO", "NEW", "MID", "LON", "SEW", "SCO-IE", "NEW-NOR", "NEW-IE", "SEW-CE", "Total"} {
		assert.True(t, AllowedCode(code), code)
	}
	for _, code := range []string{"", "GB", "IE", "total", "sco"} {
		assert.False(t, AllowedCode(code), code)
	}
}
