package directory

import (
	"github.com/trezcool/edutrack/core"
)

func (d *Directory) loadTeacherSections() (map[string][]string, error) {
	var m map[string][]string
	if err := d.store.Load(d.files.TeacherSections, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string][]string)
	}
	return m, nil
}

// AssignTeacher replaces the sections teacher may access.
func (d *Directory) AssignTeacher(teacher string, sections []string) ([]string, error) {
	teacher = core.CleanString(teacher)
	if teacher == "" {
		return nil, core.NewValidationError(ErrInvalidTeacher, core.FieldError{Field: "teacher", Error: ErrInvalidTeacher.Error()})
	}
	chosen := normalizeSections(sections)
	if len(chosen) == 0 {
		return nil, core.NewValidationError(ErrNoSections, core.FieldError{Field: "sections", Error: ErrNoSections.Error()})
	}
	m, err := d.loadTeacherSections()
	if err != nil {
		return nil, err
	}
	m[teacher] = chosen
	if err := d.store.Save(d.files.TeacherSections, m); err != nil {
		return nil, err
	}
	return chosen, nil
}

// TeacherSections returns the sections of teacher. Teacher names are matched ignoring case
// and the sections of every matching entry are merged.
func (d *Directory) TeacherSections(teacher string) ([]string, error) {
	m, err := d.loadTeacherSections()
	if err != nil {
		return nil, err
	}
	var sections []string
	for name, secs := range m {
		if core.FoldEqual(name, teacher) {
			sections = append(sections, secs...)
		}
	}
	return normalizeSections(sections), nil
}
