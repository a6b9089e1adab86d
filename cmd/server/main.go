package main

import (
	"github.com/vats98754/auto-kg/backend/internal/server"
	"github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
	"github.com/vats98754/auto-kg/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
