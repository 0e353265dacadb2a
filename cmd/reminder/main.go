package main

import (
	"os"

	"github.com/azemskov/tasktrack/internal/app"
)

// One invocation is one full reminder scan. Meant to be run by an
// external scheduler (cron) every 15 minutes or less.
func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()

	failed := app.RunReminderScan()
	app.DisconnectPostgres()

	if failed > 0 {
		os.Exit(1)
	}
}
