package main

import (
	"log"
	"os"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/attendance"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/services/console"
	"github.com/trezcool/edutrack/services/logger"
	"github.com/trezcool/edutrack/storage/jsonstore"
	"github.com/trezcool/edutrack/storage/userfile"
)

func main() {
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	wd, err := os.Getwd()
	errAndDie(std, err)
	conf, err := core.LoadConfig(wd)
	errAndDie(std, err)

	logger := logsvc.NewRollbarLogger(std, conf)

	cli, err := newCommandLine(conf, consolesvc.New(), logger)
	errAndDie(std, err)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

func newCommandLine(conf *core.Config, console core.Console, logger core.Logger) (*commandLine, error) {
	curriculum, err := directory.LoadCurriculum(conf.CurriculumFile)
	if err != nil {
		return nil, err
	}
	db, err := userfile.Open(conf.Path(conf.Files.Users), logger)
	if err != nil {
		return nil, err
	}
	store := jsonstore.New(conf.DataDir, logger)
	rolls := rollno.NewRegistry(store, conf)
	dir := directory.New(store, conf, rolls, curriculum)
	return &commandLine{
		conf:    conf,
		console: console,
		usrSvc:  user.NewService(userfile.NewUserRepository(db), conf.AdminSecret),
		rolls:   rolls,
		ledger:  attendance.NewLedger(store, conf, dir, console, logger),
		reload:  db.Reload,
	}, nil
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
