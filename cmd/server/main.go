package main

import "github.com/azemskov/tasktrack/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustMigratePostgres()

	app.MustListenAndServeHTTP()
}
