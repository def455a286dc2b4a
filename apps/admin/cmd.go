package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/attendance"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	console core.Console
	usrSvc  *user.Service
	rolls   *rollno.Registry
	ledger  *attendance.Ledger
	reload  func() error // re-reads the user file after a migration
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate-userdata - rewrite the user file in the canonical layout")
	fmt.Println("  resetpassword -username USERNAME - reset user's password")
	fmt.Println("  adduser -username USERNAME -role ROLE [-question N] - create a user")
	fmt.Println("  init-attendance - create attendance records for every assigned student")
	fmt.Println("  normalize-attendance - re-key name-keyed attendance entries by subject code")
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The new user's username. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "One of admin, teacher or student.")
	addUserQuestion := addUserCmd.Int("question", 1, fmt.Sprintf("Security question number (1-%d).", len(user.SecurityQuestions)))

	switch args[1] {
	case "migrate-userdata":
		return cli.migrateUserData()
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserUname == "" || *addUserQuestion < 1 || *addUserQuestion > len(user.SecurityQuestions) {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserRole, pwd, *addUserQuestion)
	case "init-attendance":
		return cli.initAttendance()
	case "normalize-attendance":
		return cli.normalizeAttendance()
	default:
		cli.printUsage()
		return errHelp
	}
}
