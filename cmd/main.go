package main

import (
	"flag"
	"os"

	"fxconvert/internal/app"

	"github.com/sirupsen/logrus"
)

// @title FX Convert API
// @version 1.0
// @description Currency conversion over known and derived exchange rates.
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		logrus.WithError(err).Error("application stopped")
		os.Exit(1)
	}
}
