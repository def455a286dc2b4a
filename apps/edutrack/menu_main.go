package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/storage/userfile"
)

// run shows the main menu until the operator exits or the input ends.
func (a *app) run() {
	for !a.console.Done() {
		a.printf("\n===== %s Main Menu =====\n", a.conf.AppName)
		a.printf("1. Create account\n")
		a.printf("2. Login\n")
		a.printf("3. Forgot password\n")
		a.printf("4. Repair user data (one-time migration)\n")
		a.printf("5. Exit\n")

		switch core.CleanString(a.console.ReadLine("Enter your choice (1-5): "), true /* lower */) {
		case "1":
			a.createAccount()
		case "2":
			a.login()
		case "3":
			a.forgotPassword()
		case "4":
			a.repairUserData()
		case "5", "q", "quit", "exit":
			a.printf("Thank you for using %s! Goodbye.\n", a.conf.AppName)
			return
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

func (a *app) createAccount() {
	nu := user.NewUser{
		Role: a.console.ReadLine("Are you a teacher, student, or admin? (teacher/student/admin): "),
	}
	if core.CleanString(nu.Role, true /* lower */) == user.RoleAdmin {
		secret, err := a.console.ReadPassword("Enter admin creation password: ")
		if err != nil {
			a.fail(err)
			return
		}
		nu.AdminSecret = secret
	}
	nu.Username = a.console.ReadLine("Enter username: ")

	for i, q := range user.SecurityQuestions {
		a.printf(" %d. %s\n", i+1, q)
	}
	for nu.Question == "" && !a.console.Done() {
		n, err := a.console.ReadInt("Enter question number (1-5): ")
		if err == nil && n >= 1 && n <= len(user.SecurityQuestions) {
			nu.Question = user.SecurityQuestions[n-1]
		}
	}
	nu.Answer = a.console.ReadLine("Enter answer to your security question: ")

	pwd, err := a.console.ReadPassword("Enter password (must be more than 4 characters): ")
	if err != nil {
		a.fail(err)
		return
	}
	nu.Password = pwd

	usr, err := a.users.Create(nu)
	if err != nil {
		a.fail(err)
		return
	}
	roll, err := a.rolls.Get(usr.Username, usr.Role)
	if err != nil {
		a.fail(err)
		return
	}
	a.log.Info("account created", usr)
	a.printf("Your roll no is %s\n", roll)
	a.printf("Account created successfully!\n")
}

func (a *app) login() {
	uname := a.console.ReadLine("Enter username: ")
	pwd, err := a.console.ReadPassword("Enter password: ")
	if err != nil {
		a.fail(err)
		return
	}
	usr, err := a.users.Authenticate(uname, pwd)
	switch {
	case errors.Is(err, user.ErrNotFound):
		a.printf("No such user.\n")
		return
	case errors.Is(err, user.ErrWrongPassword):
		a.log.Info("failed login", map[string]interface{}{"username": uname})
		a.printf("Wrong password.\n")
		return
	case err != nil:
		a.fail(err)
		return
	}

	a.log.Info("logged in", usr)
	a.printf("Login successful as %s!\n", usr.Role)
	switch {
	case usr.IsAdmin():
		a.adminSession(usr)
	case usr.IsTeacher():
		a.memberSession(usr, "teacher", func() { a.teacherMenu(usr.Username) })
	case usr.IsStudent():
		a.memberSession(usr, "student", func() { a.studentMenu(usr.Username) })
	default:
		a.printf("Unknown role.\n")
	}
}

func (a *app) adminSession(usr user.User) {
	a.menu("Account", []string{
		"Change own password",
		"Change another user's password",
		"To open admin menu",
		"Logout",
	}, map[string]func() bool{
		"1": func() bool {
			a.printf("Security question: %s\n", usr.Question)
			ans := a.console.ReadLine("Enter answer: ")
			if _, err := a.users.CheckAnswer(usr.Username, ans); err != nil {
				a.printf("Incorrect answer. Cannot change password.\n")
				return false
			}
			a.changePassword(func(pwd string) (user.User, error) {
				return a.users.ResetWithAnswer(usr.Username, ans, pwd)
			})
			return false
		},
		"2": func() bool {
			target := a.console.ReadLine("Enter username to change password: ")
			if _, err := a.users.Get(target); err != nil {
				a.printf("User not found.\n")
				return false
			}
			a.changePassword(func(pwd string) (user.User, error) {
				return a.users.AdminResetPassword(usr, target, pwd)
			})
			return false
		},
		"3": func() bool {
			a.adminMenu()
			return false
		},
		"4": func() bool {
			a.printf("Logged out.\n")
			return true
		},
	})
}

func (a *app) memberSession(usr user.User, role string, open func()) {
	a.menu("Account", []string{
		"Change password",
		"To open " + role + " menu",
		"Logout",
	}, map[string]func() bool{
		"1": func() bool {
			a.changePassword(func(pwd string) (user.User, error) {
				return a.users.ChangePassword(usr.Username, pwd)
			})
			return false
		},
		"2": func() bool {
			open()
			return false
		},
		"3": func() bool {
			a.printf("Logged out.\n")
			return true
		},
	})
}

func (a *app) changePassword(apply func(pwd string) (user.User, error)) {
	pwd, err := a.console.ReadPassword("Enter new password: ")
	if err != nil {
		a.fail(err)
		return
	}
	usr, err := apply(pwd)
	switch {
	case errors.Is(err, user.ErrCannotResetAdmin):
		a.printf("Cannot change password for another admin.\n")
	case err != nil:
		a.fail(err)
	default:
		a.log.Info("password changed", usr)
		a.printf("Password changed!\n")
	}
}

func (a *app) forgotPassword() {
	uname := a.console.ReadLine("Enter username to reset password: ")
	usr, err := a.users.Get(uname)
	if err != nil {
		a.printf("No such user.\n")
		return
	}
	a.printf("Security question: %s\n", usr.Question)
	ans := a.console.ReadLine("Enter answer: ")
	if _, err := a.users.CheckAnswer(usr.Username, ans); err != nil {
		a.printf("Incorrect answer.\n")
		return
	}
	a.changePassword(func(pwd string) (user.User, error) {
		return a.users.ResetWithAnswer(usr.Username, ans, pwd)
	})
}

func (a *app) repairUserData() {
	res, err := userfile.Migrate(a.conf.Path(a.conf.Files.Users), a.askRole)
	if err != nil {
		if errors.Is(err, userfile.ErrNoUserData) {
			a.printf("No %s found\n", a.conf.Files.Users)
			return
		}
		a.fail(err)
		return
	}
	if err := a.db.Reload(); err != nil {
		a.fail(err)
		return
	}
	a.log.Info("user data migrated", map[string]interface{}{
		"canonical": res.Canonical, "reordered": res.Reordered, "resolved": res.Resolved, "skipped": res.Skipped,
	})
	a.printf("Migration complete: %d kept, %d reordered, %d resolved, %d skipped.\n",
		res.Canonical, res.Reordered, res.Resolved, res.Skipped)
}

// askRole prompts for the role of a user whose line carries none; empty input means student.
func (a *app) askRole(uname string) (string, error) {
	for !a.console.Done() {
		role := core.CleanString(a.console.ReadLine("Enter role for '"+uname+"' (admin/teacher/student) [student]: "), true /* lower */)
		if role == "" {
			return user.RoleStudent, nil
		}
		if user.IsRole(role) {
			return role, nil
		}
	}
	return user.RoleStudent, nil
}
