package directory

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

// StudentSubjects is a student's entry in studentsubjects.json.
type StudentSubjects struct {
	Section  string   `json:"section"`
	Subjects []string `json:"subjects"`
}

// Assignment is the outcome of AssignStudent.
type Assignment struct {
	Roll     string
	Name     string
	Section  string
	Subjects []string // empty when the section has no curriculum
}

func (d *Directory) loadStudentSections() (map[string]string, error) {
	var m map[string]string
	if err := d.store.Load(d.files.Sections, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]string)
	}
	return m, nil
}

func (d *Directory) loadStudentSubjects() (map[string]StudentSubjects, error) {
	var m map[string]StudentSubjects
	if err := d.store.Load(d.files.StudentSubjects, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]StudentSubjects)
	}
	return m, nil
}

// AssignStudent puts the student holding roll in section; the last assignment wins.
// The student's subject list is copied from the section curriculum when it has one.
func (d *Directory) AssignStudent(roll, section string) (Assignment, error) {
	roll = core.CleanString(roll)
	section = core.CleanLabel(section)
	if section == "" {
		return Assignment{}, blankSectionError()
	}

	name, ok, err := d.rolls.StudentName(roll)
	if err != nil {
		return Assignment{}, err
	}
	if !ok {
		return Assignment{}, errors.Wrapf(ErrUnknownStudent, "%q", roll)
	}

	sections, err := d.loadStudentSections()
	if err != nil {
		return Assignment{}, err
	}
	sections[roll] = section
	if err := d.store.Save(d.files.Sections, sections); err != nil {
		return Assignment{}, err
	}

	res := Assignment{Roll: roll, Name: name, Section: section}
	subjects, err := d.SectionSubjects(section)
	if err != nil || len(subjects) == 0 {
		return res, err
	}
	studentSubjects, err := d.loadStudentSubjects()
	if err != nil {
		return res, err
	}
	studentSubjects[roll] = StudentSubjects{Section: section, Subjects: subjects}
	if err := d.store.Save(d.files.StudentSubjects, studentSubjects); err != nil {
		return res, err
	}
	res.Subjects = subjects
	return res, nil
}

// SectionOf returns the section of roll, if assigned.
func (d *Directory) SectionOf(roll string) (string, bool, error) {
	sections, err := d.loadStudentSections()
	if err != nil {
		return "", false, err
	}
	section, ok := sections[core.CleanString(roll)]
	if !ok || core.CleanString(section) == "" {
		return "", false, nil
	}
	return core.CleanLabel(section), true, nil
}

// StudentSections returns every roll -> section assignment.
func (d *Directory) StudentSections() (map[string]string, error) {
	sections, err := d.loadStudentSections()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sections))
	for roll, section := range sections {
		out[roll] = core.CleanLabel(section)
	}
	return out, nil
}

// StudentSubjects returns the subjects recorded for roll.
func (d *Directory) StudentSubjects(roll string) ([]string, error) {
	m, err := d.loadStudentSubjects()
	if err != nil {
		return nil, err
	}
	return m[core.CleanString(roll)].Subjects, nil
}

// AllStudentSubjects returns the whole studentsubjects.json mapping.
func (d *Directory) AllStudentSubjects() (map[string]StudentSubjects, error) {
	return d.loadStudentSubjects()
}

// Assignments groups assigned rolls by section; both levels are sorted.
func (d *Directory) Assignments() (map[string][]string, error) {
	sections, err := d.StudentSections()
	if err != nil {
		return nil, err
	}
	bySection := make(map[string][]string)
	for roll, section := range sections {
		bySection[section] = append(bySection[section], roll)
	}
	for _, rolls := range bySection {
		sort.Strings(rolls)
	}
	return bySection, nil
}
