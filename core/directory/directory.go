// Package directory maps subjects, sections, students and teachers to each other.
package directory

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

var (
	// errors
	ErrSubjectExists  = errors.New("subject code already exists")
	ErrSectionExists  = errors.New("section already exists")
	ErrUnknownStudent = errors.New("invalid roll number")
	ErrNoSections     = errors.New("no valid sections selected")
	ErrInvalidTeacher = errors.New("invalid teacher username")
)

type Directory struct {
	store      *jsonstore.Store
	files      core.FileNames
	rolls      *rollno.Registry
	curriculum Curriculum
}

func New(store *jsonstore.Store, conf *core.Config, rolls *rollno.Registry, curriculum Curriculum) *Directory {
	return &Directory{
		store:      store,
		files:      conf.Files,
		rolls:      rolls,
		curriculum: curriculum,
	}
}

func (d *Directory) Curriculum() Curriculum {
	return d.curriculum
}
