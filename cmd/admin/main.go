package main

import (
	"os"

	"github.com/yigit/attendance/internal/pkg/logger"
)

func main() {
	cl := &commandLine{out: os.Stdout}
	if err := cl.app().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Admin command failed")
		os.Exit(1)
	}
}
