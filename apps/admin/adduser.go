package main

import (
	"fmt"

	"github.com/trezcool/edutrack/core/user"
)

// addUser creates a user of any role; the operator is trusted with the admin creation secret.
func (cli *commandLine) addUser(uname, role, pwd string, question int) error {
	q := user.SecurityQuestions[question-1]
	answer := cli.console.ReadLine(fmt.Sprintf("%s ", q))

	usr, err := cli.usrSvc.Create(user.NewUser{
		Username:    uname,
		Role:        role,
		Password:    pwd,
		Question:    q,
		Answer:      answer,
		AdminSecret: cli.conf.AdminSecret,
	})
	if err != nil {
		return err
	}
	roll, err := cli.rolls.Get(usr.Username, usr.Role)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s %s with roll number %s.\n", usr.Role, usr.Username, roll)
	return nil
}
