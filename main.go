package main

import (
	"os"

	"acadplot/cmd"
	"acadplot/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.GetLogger().WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
