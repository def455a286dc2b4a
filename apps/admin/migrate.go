package main

import (
	"fmt"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/storage/userfile"
)

func (cli *commandLine) migrateUserData() error {
	res, err := userfile.Migrate(cli.conf.Path(cli.conf.Files.Users), cli.askRole)
	if err != nil {
		return err
	}
	if cli.reload != nil {
		if err := cli.reload(); err != nil {
			return err
		}
	}
	fmt.Printf("Migration complete: %d kept, %d reordered, %d resolved, %d skipped.\n",
		res.Canonical, res.Reordered, res.Resolved, res.Skipped)
	return nil
}

func (cli *commandLine) askRole(uname string) (string, error) {
	for !cli.console.Done() {
		role := core.CleanString(cli.console.ReadLine("Enter role for '"+uname+"' (admin/teacher/student) [student]: "), true /* lower */)
		if role == "" {
			return user.RoleStudent, nil
		}
		if user.IsRole(role) {
			return role, nil
		}
	}
	return user.RoleStudent, nil
}

func (cli *commandLine) initAttendance() error {
	n, err := cli.ledger.InitializeAll()
	if err != nil {
		return err
	}
	m, err := cli.ledger.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Attendance records initialized for %d students, %d on file.\n", n, len(m.Records))
	return nil
}

func (cli *commandLine) normalizeAttendance() error {
	res, err := cli.ledger.NormalizeKeys()
	if err != nil {
		return err
	}
	fmt.Printf("Re-keyed %d attendance entries.\n", res.Renamed)
	for _, c := range res.Conflicts {
		fmt.Printf("  conflict left untouched: %s\n", c)
	}
	return nil
}
