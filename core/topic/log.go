// Package topic records the topics teachers cover in their sections.
package topic

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

var (
	// errors
	ErrNoSections     = errors.New("teacher is not assigned to any section")
	ErrNotYourSection = errors.New("teacher is not assigned to this section")
	ErrNoSection      = errors.New("student is not assigned to any section")
)

type Sections interface {
	SectionOf(roll string) (string, bool, error)
	TeacherSections(teacher string) ([]string, error)
}

type Entry struct {
	Teacher string `json:"teacher"`
	Topic   string `json:"topic" validate:"required,notblank"`
	Date    string `json:"date"`
}

// SectionTopics is the topic list of one section.
type SectionTopics struct {
	Section string
	Topics  []Entry
}

type Log struct {
	store    *jsonstore.Store
	file     string
	sections Sections
}

func NewLog(store *jsonstore.Store, conf *core.Config, sections Sections) *Log {
	return &Log{store: store, file: conf.Files.Topics, sections: sections}
}

func (l *Log) load() (map[string][]Entry, error) {
	var m map[string][]Entry
	if err := l.store.Load(l.file, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string][]Entry)
	}
	return m, nil
}

// Add appends topic to the log of section, dated today. teacher must hold section.
func (l *Log) Add(teacher, section, topic string) (Entry, error) {
	teacher = core.CleanString(teacher)
	section = core.CleanLabel(section)

	held, err := l.sections.TeacherSections(teacher)
	if err != nil {
		return Entry{}, err
	}
	if len(held) == 0 {
		return Entry{}, ErrNoSections
	}
	if !core.ContainsFold(held, section) {
		return Entry{}, errors.Wrapf(ErrNotYourSection, "%s", section)
	}

	e := Entry{Teacher: teacher, Topic: core.CleanString(topic), Date: core.TodayDMY()}
	if err := core.ValidateStruct(e); err != nil {
		return Entry{}, err
	}
	m, err := l.load()
	if err != nil {
		return Entry{}, err
	}
	key := section
	for k := range m {
		if core.FoldEqual(k, section) {
			key = k
			break
		}
	}
	m[key] = append(m[key], e)
	if err := l.store.Save(l.file, m); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ForSection returns the topics of section in insertion order.
func (l *Log) ForSection(section string) ([]Entry, error) {
	m, err := l.load()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for k, entries := range m {
		if core.FoldEqual(k, section) {
			out = append(out, entries...)
		}
	}
	return out, nil
}

// ForStudent returns the section of roll and its topics.
func (l *Log) ForStudent(roll string) (SectionTopics, error) {
	section, ok, err := l.sections.SectionOf(roll)
	if err != nil {
		return SectionTopics{}, err
	}
	if !ok {
		return SectionTopics{}, ErrNoSection
	}
	entries, err := l.ForSection(section)
	return SectionTopics{Section: section, Topics: entries}, err
}

// ForTeacher returns the topics of every section held by teacher, in section order.
func (l *Log) ForTeacher(teacher string) ([]SectionTopics, error) {
	held, err := l.sections.TeacherSections(teacher)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, ErrNoSections
	}
	out := make([]SectionTopics, 0, len(held))
	for _, section := range held {
		entries, err := l.ForSection(section)
		if err != nil {
			return nil, err
		}
		out = append(out, SectionTopics{Section: section, Topics: entries})
	}
	return out, nil
}
