package main

import (
	"github.com/newsroom-labs/domaingraph/internal/server"
	"github.com/newsroom-labs/domaingraph/internal/util"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:        debug,
		ReportCaller: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
