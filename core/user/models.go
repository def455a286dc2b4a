package user

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const saltLen = 16

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

	SecurityQuestions = []string{
		"What is the name of your first pet?",
		"What is the first dish you learned to cook?",
		"What is your favorite book?",
		"What is the first word you said (except mother and father)?",
		"What city were you born in?",
	}
)

// IsRole reports whether r is one of AllRoles.
func IsRole(r string) bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	Salt         string `json:"-"`
	PasswordHash string `json:"-"`
	Question     string `json:"question"`
	AnswerSalt   string `json:"-"`
	AnswerHash   string `json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	salt, err := MakeSalt()
	if err != nil {
		return err
	}
	u.Salt = salt
	u.PasswordHash = MakeHash(pwd, salt)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	if !hashEqual(MakeHash(pwd, u.Salt), u.PasswordHash) {
		return ErrWrongPassword
	}
	return nil
}

func (u *User) SetAnswer(question, answer string) error {
	salt, err := MakeSalt()
	if err != nil {
		return err
	}
	u.Question = question
	u.AnswerSalt = salt
	u.AnswerHash = MakeHash(core.CleanString(answer), salt)
	return nil
}

func (u *User) CheckAnswer(answer string) error {
	if !hashEqual(MakeHash(core.CleanString(answer), u.AnswerSalt), u.AnswerHash) {
		return ErrWrongAnswer
	}
	return nil
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// MakeSalt returns 16 random bytes, hex-encoded.
func MakeSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	return hex.EncodeToString(b), nil
}

// MakeHash returns hex(sha256(salt || text)). The salt is hex-decoded when possible,
// otherwise its UTF-8 bytes are used as is.
func MakeHash(text, salt string) string {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		saltBytes = []byte(salt)
	}
	h := sha256.New()
	h.Write(saltBytes)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username    string `json:"username" validate:"required,notblank,nocolon"`
	Role        string `json:"role" validate:"required,role"`
	Password    string `json:"password" validate:"required"`
	Question    string `json:"question" validate:"required,secquestion"`
	Answer      string `json:"answer" validate:"required,notblank"`
	AdminSecret string `json:"admin_secret"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.Answer = core.CleanString(nu.Answer)

	if err := core.ValidateStruct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username)
}

// PasswordChange carries a new password for an existing user.
type PasswordChange struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (pc PasswordChange) Validate() error { return core.ValidateStruct(pc) }
