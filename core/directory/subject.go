package directory

import (
	"github.com/bytedance/sonic"

	"github.com/trezcool/edutrack/core"
)

type Subject struct {
	Name string `json:"name" validate:"required,notblank"`
	Code string `json:"code" validate:"required,subjectcode"`
}

type subjectsDoc struct {
	Subjects []Subject `json:"subjects"`
}

// UnmarshalJSON accepts both {"subjects": [...]} and a bare list.
func (doc *subjectsDoc) UnmarshalJSON(data []byte) error {
	var list []Subject
	if err := sonic.Unmarshal(data, &list); err == nil {
		doc.Subjects = list
		return nil
	}
	var obj struct {
		Subjects []Subject `json:"subjects"`
	}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return err
	}
	doc.Subjects = obj.Subjects
	return nil
}

func (d *Directory) loadSubjects() ([]Subject, error) {
	var doc subjectsDoc
	if err := d.store.Load(d.files.Subjects, &doc); err != nil {
		return nil, err
	}
	return doc.Subjects, nil
}

// AddSubject appends a subject to the catalog. Codes are unique and upper-cased.
func (d *Directory) AddSubject(s Subject) (Subject, error) {
	s.Name = core.CleanString(s.Name)
	s.Code = core.CleanLabel(s.Code)
	if err := core.ValidateStruct(s); err != nil {
		return Subject{}, err
	}

	subjects, err := d.loadSubjects()
	if err != nil {
		return Subject{}, err
	}
	for _, existing := range subjects {
		if existing.Code == s.Code {
			return Subject{}, core.NewValidationError(ErrSubjectExists, core.FieldError{Field: "code", Error: ErrSubjectExists.Error()})
		}
	}
	subjects = append(subjects, s)
	if err := d.store.Save(d.files.Subjects, subjectsDoc{Subjects: subjects}); err != nil {
		return Subject{}, err
	}
	return s, nil
}

// Subjects lists the catalog in insertion order.
func (d *Directory) Subjects() ([]Subject, error) {
	return d.loadSubjects()
}

// CodeToName maps every catalog code to its subject name.
func (d *Directory) CodeToName() (map[string]string, error) {
	subjects, err := d.loadSubjects()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(subjects))
	for _, s := range subjects {
		m[s.Code] = s.Name
	}
	return m, nil
}

// NameToCode maps every catalog subject name to its code.
func (d *Directory) NameToCode() (map[string]string, error) {
	subjects, err := d.loadSubjects()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(subjects))
	for _, s := range subjects {
		m[s.Name] = s.Code
	}
	return m, nil
}

// SubjectByCode looks a code up in the catalog.
func (d *Directory) SubjectByCode(code string) (Subject, bool, error) {
	subjects, err := d.loadSubjects()
	if err != nil {
		return Subject{}, false, err
	}
	code = core.CleanLabel(code)
	for _, s := range subjects {
		if s.Code == code {
			return s, true, nil
		}
	}
	return Subject{}, false, nil
}
