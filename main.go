package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gridlington/datahub/config"
	"github.com/gridlington/datahub/handler"
	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/repository"
	"github.com/gridlington/datahub/router"
)

// initFlags initializes the command line flags
func initFlags() *model.CommandLineFlags {
	appFlags := &model.CommandLineFlags{}
	appFlags.Host = flag.String("host", "", "API host. Overrides the config file.")
	appFlags.Port = flag.String("port", "", "API port. Overrides the config file.")
	appFlags.Config = flag.String("config", "", "Configuration file path. Default to none.")
	appFlags.WesimFile = flag.String("wesim", "", "WESIM workbook path. Overrides the config file.")
	flag.Parse()
	return appFlags
}

func main() {
	appFlags := initFlags()
	config.InitConfig(*appFlags.Config)
	if *appFlags.Host != "" {
		config.Config.Host = *appFlags.Host
	}
	if *appFlags.Port != "" {
		config.Config.Port = *appFlags.Port
	}
	if *appFlags.WesimFile != "" {
		config.Config.WesimFile = *appFlags.WesimFile
	}

	hub := repository.NewHub(config.Config.WesimFile, config.Config.OpalInitRow)
	r := router.NewRouter(handler.Routes(&handler.Handler{Hub: hub}))

	fmt.Printf("Datahub API Running: %s:%s\n", config.Config.Host, config.Config.Port)
	if err := http.ListenAndServe(config.Config.Host+":"+config.Config.Port, r); err != nil {
		log.Fatal(err)
	}
}
