// Package rollno hands out stable, per-role sequential identifiers.
package rollno

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

var ErrInvalidRole = errors.New("invalid role")

type document struct {
	Map      map[string]map[string]string `json:"map"`      // role -> username -> roll
	Counters map[string]int               `json:"counters"` // role -> last issued number
}

type Registry struct {
	store  *jsonstore.Store
	file   string
	prefix string
}

func NewRegistry(store *jsonstore.Store, conf *core.Config) *Registry {
	return &Registry{store: store, file: conf.Files.RollNumbers, prefix: conf.RollPrefix}
}

func (r *Registry) load() (document, error) {
	var doc document
	if err := r.store.Load(r.file, &doc); err != nil {
		return doc, err
	}
	if doc.Map == nil || doc.Counters == nil {
		doc = document{Map: make(map[string]map[string]string), Counters: make(map[string]int)}
	}
	for _, role := range user.AllRoles {
		if doc.Map[role] == nil {
			doc.Map[role] = make(map[string]string)
		}
	}
	return doc, nil
}

func (r *Registry) format(role string, n int) string {
	switch role {
	case user.RoleTeacher:
		return fmt.Sprintf("T%04d", n)
	case user.RoleAdmin:
		return fmt.Sprintf("A%04d", n)
	default:
		return fmt.Sprintf("%s%04d", r.prefix, n)
	}
}

// Get returns the roll number of username in role, issuing the next one on first reference.
func (r *Registry) Get(username, role string) (string, error) {
	if !user.IsRole(role) {
		return "", errors.Wrapf(ErrInvalidRole, "%q", role)
	}
	doc, err := r.load()
	if err != nil {
		return "", err
	}
	if roll, ok := doc.Map[role][username]; ok {
		return roll, nil
	}
	doc.Counters[role]++
	roll := r.format(role, doc.Counters[role])
	doc.Map[role][username] = roll
	if err := r.store.Save(r.file, doc); err != nil {
		return "", err
	}
	return roll, nil
}

// Lookup returns the roll number of username in role without issuing one.
func (r *Registry) Lookup(username, role string) (string, bool, error) {
	doc, err := r.load()
	if err != nil {
		return "", false, err
	}
	roll, ok := doc.Map[role][username]
	return roll, ok, nil
}

// Students returns the student username -> roll map.
func (r *Registry) Students() (map[string]string, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Map[user.RoleStudent], nil
}

// StudentName returns the username holding the student roll.
func (r *Registry) StudentName(roll string) (string, bool, error) {
	students, err := r.Students()
	if err != nil {
		return "", false, err
	}
	for name, rn := range students {
		if rn == roll {
			return name, true, nil
		}
	}
	return "", false, nil
}
