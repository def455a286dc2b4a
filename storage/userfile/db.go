// Package userfile persists users as colon-delimited lines:
//
//	username:role:salt:hash:question:ans_salt:ans_hash
package userfile

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
)

const (
	sep       = ":"
	numFields = 7
)

var (
	ErrMalformedLine = errors.New("malformed user line")
	ErrMissingRole   = errors.New("user line carries no role")
)

type (
	DB struct {
		path string
		log  core.Logger
		user *userTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string // usernames, insertion order
		raw   []string // unparsable lines, written back untouched until Migrate repairs them
	}
)

// Open loads the user file at path. A missing file yields an empty DB.
// Both historical layouts are read. Lines that cannot be parsed are kept aside with a warning
// and written back as they are; run Migrate to repair them.
func Open(path string, logger core.Logger) (*DB, error) {
	db := &DB{
		path: path,
		log:  logger,
		user: &userTable{table: make(map[string]*user.User)},
	}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Reload discards the in-memory users and reads the file again.
func (db *DB) Reload() error {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.order = nil
	db.user.raw = nil
	db.user.Unlock()
	return db.load()
}

func (db *DB) load() error {
	data, err := os.ReadFile(db.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", db.path)
	}

	db.user.Lock()
	defer db.user.Unlock()

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		usr, err := ParseLine(line)
		if err != nil {
			if db.log != nil {
				db.log.Warn("keeping unparsable user line", map[string]interface{}{"file": db.path, "line": lineNo, "error": err.Error()})
			}
			db.user.raw = append(db.user.raw, line)
			continue
		}
		if _, dup := db.user.table[usr.Username]; dup {
			db.user.raw = append(db.user.raw, line)
			continue
		}
		u := usr
		db.user.table[usr.Username] = &u
		db.user.order = append(db.user.order, usr.Username)
	}
	return errors.Wrapf(scanner.Err(), "scanning %s", db.path)
}

// flush rewrites the whole file. Caller must hold the write lock.
func (db *DB) flush() error {
	var buf bytes.Buffer
	for _, uname := range db.user.order {
		buf.WriteString(FormatLine(*db.user.table[uname]))
		buf.WriteByte('\n')
	}
	for _, line := range db.user.raw {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return writeFile(db.path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o600), "writing %s", path)
}

// FormatLine renders usr in the canonical layout.
func FormatLine(usr user.User) string {
	return strings.Join([]string{
		usr.Username,
		usr.Role,
		usr.Salt,
		usr.PasswordHash,
		usr.Question,
		usr.AnswerSalt,
		usr.AnswerHash,
	}, sep)
}

// ParseLine reads a line in either historical layout:
//
//	username:role:salt:hash:question:ans_salt:ans_hash
//	username:salt:hash:role:question:ans_salt:ans_hash
func ParseLine(line string) (user.User, error) {
	p := strings.Split(line, sep)
	if len(p) != numFields {
		return user.User{}, errors.Wrapf(ErrMalformedLine, "%d fields", len(p))
	}
	switch {
	case user.IsRole(p[1]):
		return fromFields(p[0], p[1], p[2], p[3], p[4], p[5], p[6]), nil
	case user.IsRole(p[3]):
		return fromFields(p[0], p[3], p[1], p[2], p[4], p[5], p[6]), nil
	}
	return user.User{}, errors.Wrapf(ErrMissingRole, "user %q", p[0])
}

func fromFields(uname, role, salt, hash, question, ansSalt, ansHash string) user.User {
	return user.User{
		Username:     uname,
		Role:         role,
		Salt:         salt,
		PasswordHash: hash,
		Question:     question,
		AnswerSalt:   ansSalt,
		AnswerHash:   ansHash,
	}
}
