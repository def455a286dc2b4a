package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/assignment"
	"github.com/trezcool/edutrack/core/attendance"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/core/exam"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/core/topic"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/storage/jsonstore"
	"github.com/trezcool/edutrack/storage/userfile"
)

// app holds every component the menus drive.
type app struct {
	conf    *core.Config
	console core.Console
	log     core.Logger

	db     *userfile.DB
	users  *user.Service
	rolls  *rollno.Registry
	dir    *directory.Directory
	ledger *attendance.Ledger
	exams  *exam.Calendar
	topics *topic.Log
	box    *assignment.Box
}

func newApp(conf *core.Config, console core.Console, logger core.Logger) (*app, error) {
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
	return &app{
		conf:    conf,
		console: console,
		log:     logger,
		db:      db,
		users:   user.NewService(userfile.NewUserRepository(db), conf.AdminSecret),
		rolls:   rolls,
		dir:     dir,
		ledger:  attendance.NewLedger(store, conf, dir, console, logger),
		exams:   exam.NewCalendar(store, conf, dir),
		topics:  topic.NewLog(store, conf, dir),
		box:     assignment.NewBox(store, conf, dir),
	}, nil
}

func (a *app) printf(format string, args ...interface{}) {
	a.console.Printf(format, args...)
}

// fail reports err to the operator. Input problems list each offending field.
func (a *app) fail(err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		if len(verr.Fields) == 0 {
			a.printf("Invalid input: %s\n", verr.Error())
			return
		}
		for _, f := range verr.Fields {
			a.printf("Invalid input: %s\n", f.Error)
		}
		return
	}
	a.log.Warn("operation failed", err)
	a.printf("Error: %s\n", err)
}

// menu prints options and dispatches the chosen one until an action returns true
// or the input is exhausted.
func (a *app) menu(title string, options []string, actions map[string]func() bool) {
	for !a.console.Done() {
		a.printf("\n--- %s ---\n", title)
		for i, opt := range options {
			a.printf("%d. %s\n", i+1, opt)
		}
		choice := a.console.ReadLine("Enter choice: ")
		action, ok := actions[choice]
		if !ok {
			a.printf("Invalid choice.\n")
			continue
		}
		if action() {
			return
		}
	}
}

// pickNumbers parses a comma-separated list of 1-based indexes into items, ignoring junk.
func pickNumbers(input string, items []string) []string {
	var picked []string
	for _, part := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && n >= 1 && n <= len(items) {
			picked = append(picked, items[n-1])
		}
	}
	return picked
}

func bar(percentage float64) string {
	return strings.Repeat("#", int(percentage/5))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
