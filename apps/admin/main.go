package main

import (
	"log"
	"os"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/services/schoolapi"
	filestore "github.com/darasahq/darasa/storage/session/file"
	memstore "github.com/darasahq/darasa/storage/session/inmem"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stderr, "", 0)
	appLogger := core.NewStdLogger(std)

	// session survives between invocations via the config-dir file; when that
	// is unusable the CLI still works, just one login per invocation
	var store session.Store
	if fs, err := filestore.Open(conf.SessionFile); err == nil {
		store = fs
	} else {
		appLogger.Warn("session file unavailable; sessions will not persist", err)
		store = memstore.New()
	}

	auth := schoolapi.NewAuthService(&schoolapi.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
	})
	ctrl := session.NewController(conf, auth, store, appLogger)
	ctrl.Restore()

	cli := &commandLine{
		ctrl: ctrl,
		api: schoolapi.NewClient(&schoolapi.Options{
			BaseURL: conf.API.BaseURL,
			Timeout: conf.API.Timeout,
		}, ctrl),
		out: os.Stdout,
	}

	if err := cli.run(os.Args); err != nil && err != errHelp {
		std.Fatal(err)
	}
}
