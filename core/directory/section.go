package directory

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

var ErrBlankSection = errors.New("section must not be blank")

// normalizeSections upper-cases, de-duplicates and sorts section labels, dropping blanks.
func normalizeSections(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = core.CleanLabel(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func blankSectionError() error {
	return core.NewValidationError(ErrBlankSection, core.FieldError{Field: "section", Error: ErrBlankSection.Error()})
}

// Sections returns every created section, sorted.
func (d *Directory) Sections() ([]string, error) {
	var labels []string
	if err := d.store.Load(d.files.SectionList, &labels); err != nil {
		return nil, err
	}
	return normalizeSections(labels), nil
}

// CreateSection registers a new section. When the label follows the curriculum naming
// convention, its subject list is preset and returned.
func (d *Directory) CreateSection(label string) (string, []string, error) {
	label = core.CleanLabel(label)
	if label == "" {
		return "", nil, blankSectionError()
	}
	sections, err := d.Sections()
	if err != nil {
		return "", nil, err
	}
	for _, s := range sections {
		if s == label {
			return "", nil, core.NewValidationError(ErrSectionExists, core.FieldError{Field: "section", Error: ErrSectionExists.Error()})
		}
	}
	if err := d.store.Save(d.files.SectionList, normalizeSections(append(sections, label))); err != nil {
		return "", nil, err
	}

	subjects, ok := d.curriculum.SubjectsFor(label)
	if !ok {
		return label, nil, nil
	}
	if err := d.SetSectionSubjects(label, subjects); err != nil {
		return "", nil, err
	}
	return label, subjects, nil
}

func (d *Directory) loadSectionSubjects() (map[string][]string, error) {
	var m map[string][]string
	if err := d.store.Load(d.files.SectionSubjects, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string][]string)
	}
	return m, nil
}

// SectionSubjects returns the curriculum of section.
func (d *Directory) SectionSubjects(section string) ([]string, error) {
	m, err := d.loadSectionSubjects()
	if err != nil {
		return nil, err
	}
	return m[core.CleanLabel(section)], nil
}

// SetSectionSubjects overwrites the curriculum of section.
func (d *Directory) SetSectionSubjects(section string, subjects []string) error {
	section = core.CleanLabel(section)
	if section == "" {
		return blankSectionError()
	}
	m, err := d.loadSectionSubjects()
	if err != nil {
		return err
	}
	m[section] = subjects
	return d.store.Save(d.files.SectionSubjects, m)
}
