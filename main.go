package main

import (
	"os"

	"hiringdesk/core/logger"
	"hiringdesk/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
