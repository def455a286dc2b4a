package main

import (
	"log"
	"os"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/services/console"
	"github.com/trezcool/edutrack/services/logger"
)

func main() {
	std := log.New(os.Stderr, "EDUTRACK : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	wd, err := os.Getwd()
	if err != nil {
		std.Fatal(err)
	}
	conf, err := core.LoadConfig(wd)
	if err != nil {
		std.Fatal(err)
	}

	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	a, err := newApp(conf, consolesvc.New(), logger)
	if err != nil {
		logger.Fatal("starting", err)
	}
	a.run()
}
