package main

import (
	"log"
	"os"

	echoportal "github.com/darasahq/darasa/apps/portal/echo"
	"github.com/darasahq/darasa/core"
	logsvc "github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/services/schoolapi"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile)
	var appLogger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		appLogger = core.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, conf)
	}

	auth := schoolapi.NewAuthService(&schoolapi.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
	})

	app := echoportal.NewServer(&echoportal.Options{
		Addr:   conf.Server.Addr,
		Conf:   conf,
		Logger: appLogger,
		Auth:   auth,
	})
	app.Start()
}
