package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/api/handlers"
	"github.com/fortexlabs/early-warning-api/api/scheduler"
	"github.com/fortexlabs/early-warning-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize stores and router
		zap.S().With(err).Fatal("failed to initialize")
	}

	s := scheduler.New(a.CDB, a.Live, a.Config.SendgridAPIKey, a.Config.AdminEmail)
	s.Start()
	defer s.Stop()
	defer a.Notifier.Stop()

	port := a.Config.Port
	if port == "" {
		port = "8080"
	}
	zap.S().Infow("early-warning-api is up and running",
		"port", port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
