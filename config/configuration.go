package config

import (
	"github.com/spf13/viper"
)

type Configuration struct {
	Host        string `json:"host" mapstructure:"host" default:"0.0.0.0"`
	Port        string `json:"port" mapstructure:"port" default:"8000"`
	WesimFile   string `json:"wesim_file" mapstructure:"wesim_file" default:""`
	OpalInitRow bool   `json:"opal_init_row" mapstructure:"opal_init_row" default:"false"`
}

var Config *Configuration

// InitConfig loads the configuration: defaults, then an optional config
// file, then environment overrides (DATAHUB_HOST and friends).
func InitConfig(file string) {
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", "8000")
	viper.SetDefault("wesim_file", "1_Wesim_GB_hourly_data.xlsx")
	viper.SetDefault("opal_init_row", false)

	viper.SetEnvPrefix("DATAHUB")
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			panic(err)
		}
	}

	Config = &Configuration{}
	if err := viper.Unmarshal(Config); err != nil {
		panic(err)
	}
}
