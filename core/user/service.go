package user

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

var (
	// errors
	ErrNotFound         = errors.New("user not found")
	ErrUsernameExists   = errors.New("a user with this username already exists")
	ErrWrongPassword    = errors.New("wrong password")
	ErrWrongAnswer      = errors.New("incorrect answer to the security question")
	ErrWrongAdminSecret = errors.New("incorrect admin creation password")
	ErrCannotResetAdmin = errors.New("cannot change password for another admin")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string) error
		CreateUser(user User) (User, error)
		// QueryAllUsers returns users in insertion order.
		QueryAllUsers() ([]User, error)
		GetUserByUsername(username string) (User, error)
		UpdateUser(user User) (User, error)
	}

	Service struct {
		repo        Repository
		adminSecret string
	}
)

func NewService(repo Repository, adminSecret string) *Service {
	return &Service{repo: repo, adminSecret: adminSecret}
}

func (svc *Service) checkUniqueness(uname string) error {
	if err := svc.repo.CheckUsernameUniqueness(uname); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	if core.CleanString(nu.Role, true /* lower */) == RoleAdmin && nu.AdminSecret != svc.adminSecret {
		return User{}, ErrWrongAdminSecret
	}
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}
	usr := User{
		Username: nu.Username,
		Role:     nu.Role,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	if err := usr.SetAnswer(nu.Question, nu.Answer); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) Get(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname))
}

// Authenticate returns the user when pwd matches its stored hash.
func (svc *Service) Authenticate(uname, pwd string) (User, error) {
	usr, err := svc.Get(uname)
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, err
	}
	return usr, nil
}

// CheckAnswer verifies the security answer of the named user.
func (svc *Service) CheckAnswer(uname, answer string) (User, error) {
	usr, err := svc.Get(uname)
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckAnswer(answer); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) ChangePassword(uname, newPwd string) (User, error) {
	usr, err := svc.Get(uname)
	if err != nil {
		return User{}, err
	}
	return svc.setPassword(usr, newPwd)
}

// ResetWithAnswer sets a new password once the security answer has been verified.
func (svc *Service) ResetWithAnswer(uname, answer, newPwd string) (User, error) {
	usr, err := svc.CheckAnswer(uname, answer)
	if err != nil {
		return User{}, err
	}
	return svc.setPassword(usr, newPwd)
}

// AdminResetPassword lets an admin set the password of a teacher or a student.
func (svc *Service) AdminResetPassword(admin User, target, newPwd string) (User, error) {
	if !admin.IsAdmin() {
		return User{}, ErrPermissionDenied
	}
	usr, err := svc.Get(target)
	if err != nil {
		return User{}, err
	}
	if usr.IsAdmin() {
		return User{}, ErrCannotResetAdmin
	}
	return svc.setPassword(usr, newPwd)
}

func (svc *Service) setPassword(usr User, pwd string) (User, error) {
	if err := (PasswordChange{Username: usr.Username, Password: pwd}).Validate(); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(usr)
}
