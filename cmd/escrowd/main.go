package main

import (
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/cmd/escrowd/commands"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := commands.RootCmd.Execute(); err != nil {
		log.WithField("error", err).Error("escrowd failed")
		os.Exit(1)
	}
}
