// Package exam keeps the exam date of every subject.
package exam

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

// NotSet is reported for subjects without an exam date.
const NotSet = "Not set"

var ErrUnknownSubject = errors.New("subject not found")

// Catalog is what the calendar needs from the directory.
type Catalog interface {
	Subjects() ([]directory.Subject, error)
	SubjectByCode(code string) (directory.Subject, bool, error)
	NameToCode() (map[string]string, error)
	SectionSubjects(section string) ([]string, error)
	AllStudentSubjects() (map[string]directory.StudentSubjects, error)
	Curriculum() directory.Curriculum
}

type Entry struct {
	Code string `json:"subject_code"`
	Name string `json:"subject_name"`
	Date string `json:"exam_date"`
}

type schedule struct {
	Entries []Entry `json:"exam_schedule"`
}

// SectionSchedule lists the exam dates relevant to one section.
type SectionSchedule struct {
	Section string
	// Allocated is false when the section has no known subjects and every subject is listed.
	Allocated bool
	Lines     []Entry
}

type Calendar struct {
	store   *jsonstore.Store
	file    string
	catalog Catalog
}

func NewCalendar(store *jsonstore.Store, conf *core.Config, catalog Catalog) *Calendar {
	return &Calendar{store: store, file: conf.Files.ExamDates, catalog: catalog}
}

// load accepts {"exam_schedule": [...]} or a bare list, with subject_code/code and
// subject_name/name keys.
func (c *Calendar) load() (map[string]Entry, error) {
	doc, ok, err := c.store.LoadRaw(c.file)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]Entry)
	if !ok {
		return entries, nil
	}

	var items []interface{}
	switch v := doc.(type) {
	case map[string]interface{}:
		items, _ = v["exam_schedule"].([]interface{})
	case []interface{}:
		items = v
	}
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		code := core.CleanLabel(firstString(m, "subject_code", "code"))
		if code == "" {
			continue
		}
		entries[code] = Entry{
			Code: code,
			Name: firstString(m, "subject_name", "name"),
			Date: firstString(m, "exam_date"),
		}
	}
	return entries, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (c *Calendar) save(entries map[string]Entry) error {
	doc := schedule{Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, e)
	}
	sort.Slice(doc.Entries, func(i, j int) bool { return doc.Entries[i].Code < doc.Entries[j].Code })
	return c.store.Save(c.file, doc)
}

type dateInput struct {
	Code string `json:"subject_code" validate:"required"`
	Date string `json:"exam_date" validate:"required,ddmmyyyy"`
}

// SetDate sets the exam date (DD/MM/YYYY) of a catalog subject.
func (c *Calendar) SetDate(code, date string) (Entry, error) {
	in := dateInput{Code: core.CleanLabel(code), Date: core.CleanString(date)}
	if err := core.ValidateStruct(in); err != nil {
		return Entry{}, err
	}
	subject, ok, err := c.catalog.SubjectByCode(in.Code)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, errors.Wrapf(ErrUnknownSubject, "%s", in.Code)
	}

	entries, err := c.load()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Code: subject.Code, Name: subject.Name, Date: in.Date}
	entries[e.Code] = e
	if err := c.save(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Date returns the exam date of code, or NotSet.
func (c *Calendar) Date(code string) (string, error) {
	code = core.CleanLabel(code)
	if code == "" {
		return NotSet, nil
	}
	entries, err := c.load()
	if err != nil {
		return "", err
	}
	if e, ok := entries[code]; ok && e.Date != "" {
		return e.Date, nil
	}
	return NotSet, nil
}

// All lists every catalog subject with its exam date.
func (c *Calendar) All() ([]Entry, error) {
	subjects, err := c.catalog.Subjects()
	if err != nil {
		return nil, err
	}
	entries, err := c.load()
	if err != nil {
		return nil, err
	}
	lines := make([]Entry, 0, len(subjects))
	for _, s := range subjects {
		lines = append(lines, line(core.CleanLabel(s.Code), s.Name, entries))
	}
	return lines, nil
}

func line(code, name string, entries map[string]Entry) Entry {
	date := NotSet
	if e, ok := entries[code]; ok && e.Date != "" {
		date = e.Date
	}
	return Entry{Code: code, Name: name, Date: date}
}

// codeFor resolves a subject name to a code: the catalog first, then the curriculum,
// then the upper-cased name with spaces replaced by underscores.
func (c *Calendar) codeFor(name string, nameToCode map[string]string) string {
	if code, ok := nameToCode[name]; ok {
		return code
	}
	if code, ok := c.catalog.Curriculum().CodeFor(name); ok {
		return code
	}
	return strings.ReplaceAll(core.CleanLabel(name), " ", "_")
}

// SectionSchedule lists the exam dates of the subjects of section. Subjects come from the
// section curriculum, else from any student of that section, else the whole catalog.
func (c *Calendar) SectionSchedule(section string) (SectionSchedule, error) {
	section = core.CleanLabel(section)
	res := SectionSchedule{Section: section}

	names, err := c.catalog.SectionSubjects(section)
	if err != nil {
		return res, err
	}
	if len(names) == 0 {
		students, err := c.catalog.AllStudentSubjects()
		if err != nil {
			return res, err
		}
		rolls := make([]string, 0, len(students))
		for roll := range students {
			rolls = append(rolls, roll)
		}
		sort.Strings(rolls)
		for _, roll := range rolls {
			ss := students[roll]
			if core.CleanLabel(ss.Section) == section && len(ss.Subjects) > 0 {
				names = ss.Subjects
				break
			}
		}
	}

	entries, err := c.load()
	if err != nil {
		return res, err
	}
	if len(names) == 0 {
		res.Lines, err = c.All()
		return res, err
	}

	nameToCode, err := c.catalog.NameToCode()
	if err != nil {
		return res, err
	}
	res.Allocated = true
	for _, name := range names {
		res.Lines = append(res.Lines, line(c.codeFor(name, nameToCode), name, entries))
	}
	return res, nil
}
