package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	InitConfig("")

	assert.Equal(t, "0.0.0.0", Config.Host)
	assert.Equal(t, "8000", Config.Port)
	assert.Equal(t, "1_Wesim_GB_hourly_data.xlsx", Config.WesimFile)
	assert.False(t, Config.OpalInitRow)
}

func TestInitConfigFromFile(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9100\"\nwesim_file: data/wesim.xlsx\nopal_init_row: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	InitConfig(path)

	assert.Equal(t, "0.0.0.0", Config.Host)
	assert.Equal(t, "9100", Config.Port)
	assert.Equal(t, "data/wesim.xlsx", Config.WesimFile)
	assert.True(t, Config.OpalInitRow)
}

func TestInitConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("DATAHUB_PORT", "9200")

	InitConfig("")
	assert.Equal(t, "9200", Config.Port)
}
