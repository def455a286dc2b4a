package userfile

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/user"
)

var ErrNoUserData = errors.New("no user data file found")

// RoleResolver supplies the role of a user whose line carries none.
type RoleResolver func(username string) (string, error)

// MigrateResult counts what Migrate did with each line.
type MigrateResult struct {
	Canonical int // already in canonical layout
	Reordered int // role found at field 3, rewritten
	Resolved  int // role supplied by the RoleResolver
	Skipped   int // wrong number of fields
}

// Migrate rewrites the user file at path in the canonical layout.
//
// Two historical layouts are recognised:
//
//	username:role:salt:hash:question:ans_salt:ans_hash
//	username:salt:hash:role:question:ans_salt:ans_hash
//
// Lines matching neither ask resolve for the role.
func Migrate(path string, resolve RoleResolver) (MigrateResult, error) {
	var res MigrateResult

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, ErrNoUserData
		}
		return res, errors.Wrapf(err, "reading %s", path)
	}

	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p := strings.Split(line, sep)
		if len(p) != numFields {
			res.Skipped++
			continue
		}

		var usr user.User
		switch {
		case user.IsRole(p[1]):
			usr = fromFields(p[0], p[1], p[2], p[3], p[4], p[5], p[6])
			res.Canonical++
		case user.IsRole(p[3]):
			usr = fromFields(p[0], p[3], p[1], p[2], p[4], p[5], p[6])
			res.Reordered++
		default:
			role, err := resolve(p[0])
			if err != nil {
				return res, errors.Wrapf(err, "resolving role of %q", p[0])
			}
			if !user.IsRole(role) {
				return res, errors.Errorf("invalid role %q for %q", role, p[0])
			}
			usr = fromFields(p[0], role, p[1], p[2], p[4], p[5], p[6])
			res.Resolved++
		}
		out.WriteString(FormatLine(usr))
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return res, errors.Wrapf(err, "scanning %s", path)
	}
	return res, writeFile(path, out.Bytes())
}
