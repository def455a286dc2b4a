package main

import "fmt"

func (cli *commandLine) resetPassword(uname, pwd string) error {
	if _, err := cli.usrSvc.ChangePassword(uname, pwd); err != nil {
		return err
	}
	fmt.Printf("Password of %s changed.\n", uname)
	return nil
}
