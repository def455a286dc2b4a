package attendance

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

const defaultAcademicYear = "2024-2025"

// InitializeStudent creates a zeroed, code-keyed record for roll. It does nothing when a
// record already exists. Subject names without a catalog code are skipped.
func (l *Ledger) InitializeStudent(roll, section string, subjectNames []string) (bool, error) {
	roll = core.CleanString(roll)
	m, err := l.load()
	if err != nil {
		return false, err
	}
	if _, ok := m.Records[roll]; ok {
		return false, nil
	}
	nameToCode, err := l.dir.NameToCode()
	if err != nil {
		return false, err
	}

	rec := &Record{Name: roll, Section: core.CleanLabel(section), Subjects: make(map[string]*SubjectAttendance)}
	today := core.Today()
	for _, name := range subjectNames {
		code, ok := nameToCode[name]
		if !ok {
			continue
		}
		rec.Subjects[code] = &SubjectAttendance{SubjectName: name, LastUpdated: today}
	}
	m.Records[roll] = rec

	// earlier writes may have left a partial metadata block
	if m.Metadata == nil {
		m.Metadata = &Metadata{}
	}
	if m.Metadata.AcademicYear == "" {
		m.Metadata.AcademicYear = l.academicYear
		if m.Metadata.AcademicYear == "" {
			m.Metadata.AcademicYear = defaultAcademicYear
		}
	}
	if m.Metadata.TotalSubjects == 0 {
		m.Metadata.TotalSubjects = len(nameToCode)
	}
	if err := l.save(m); err != nil {
		return false, err
	}
	return true, nil
}

// InitializeAll initializes every student assigned to a section with a curriculum.
// It returns the number of students considered.
func (l *Ledger) InitializeAll() (int, error) {
	sections, err := l.dir.StudentSections()
	if err != nil {
		return 0, err
	}
	rolls := make([]string, 0, len(sections))
	for roll := range sections {
		rolls = append(rolls, roll)
	}
	sort.Strings(rolls)

	var count int
	for _, roll := range rolls {
		subjects, err := l.dir.SectionSubjects(sections[roll])
		if err != nil {
			return count, err
		}
		if len(subjects) == 0 {
			continue
		}
		if _, err := l.InitializeStudent(roll, sections[roll], subjects); err != nil {
			return count, errors.Wrapf(err, "initializing %s", roll)
		}
		count++
	}
	return count, nil
}

// EnrollStudent is the section assignment hook: it creates the record of roll, or moves an
// existing one to section. New entries are keyed by catalog code, by name when the catalog
// has none. It reports whether a record was created.
func (l *Ledger) EnrollStudent(roll, name, section string, subjectNames []string) (bool, error) {
	roll = core.CleanString(roll)
	section = core.CleanLabel(section)
	m, err := l.load()
	if err != nil {
		return false, err
	}

	if rec, ok := m.Records[roll]; ok {
		rec.Section = section
		return false, l.save(m)
	}

	nameToCode, err := l.dir.NameToCode()
	if err != nil {
		return false, err
	}
	if name == "" {
		name = roll
	}
	rec := &Record{Name: name, Section: section, Subjects: make(map[string]*SubjectAttendance, len(subjectNames))}
	today := core.Today()
	for _, subject := range subjectNames {
		key := subject
		if code, ok := nameToCode[subject]; ok {
			key = code
		}
		rec.Subjects[key] = &SubjectAttendance{SubjectName: subject, LastUpdated: today}
	}
	m.Records[roll] = rec
	if err := l.save(m); err != nil {
		return false, err
	}
	return true, nil
}

// Summary reports every subject of roll.
func (l *Ledger) Summary(roll string) (Report, error) {
	roll = core.CleanString(roll)
	m, err := l.load()
	if err != nil {
		return Report{}, err
	}
	rec, ok := m.Records[roll]
	if !ok {
		return Report{}, errors.Wrapf(ErrNoData, "%s", roll)
	}
	rep := Report{Roll: roll, Name: rec.Name, Section: rec.Section}
	for _, key := range rec.Keys() {
		rep.Subjects = append(rep.Subjects, SubjectLine{Key: key, SubjectAttendance: *rec.Subjects[key]})
	}
	return rep, nil
}

// TeacherOverview lists the percentage of every (student, subject) in the sections of teacher.
func (l *Ledger) TeacherOverview(teacher string) ([]OverviewRow, error) {
	sections, err := l.dir.TeacherSections(teacher)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}
	m, err := l.load()
	if err != nil {
		return nil, err
	}

	rolls := make([]string, 0, len(m.Records))
	for roll := range m.Records {
		rolls = append(rolls, roll)
	}
	sort.Strings(rolls)

	var rows []OverviewRow
	for _, roll := range rolls {
		rec := m.Records[roll]
		if !core.ContainsFold(sections, rec.Section) {
			continue
		}
		for _, key := range rec.Keys() {
			sa := rec.Subjects[key]
			rows = append(rows, OverviewRow{
				Roll:        roll,
				Section:     rec.Section,
				SubjectKey:  key,
				SubjectName: sa.SubjectName,
				Percentage:  sa.AttendancePercentage,
			})
		}
	}
	return rows, nil
}

// NormalizeKeys re-keys name-keyed entries to their catalog code. An entry whose code key
// already exists is left untouched and reported as a conflict.
func (l *Ledger) NormalizeKeys() (NormalizeResult, error) {
	var res NormalizeResult
	m, err := l.load()
	if err != nil {
		return res, err
	}
	nameToCode, err := l.dir.NameToCode()
	if err != nil {
		return res, err
	}

	rolls := make([]string, 0, len(m.Records))
	for roll := range m.Records {
		rolls = append(rolls, roll)
	}
	sort.Strings(rolls)

	for _, roll := range rolls {
		rec := m.Records[roll]
		for _, key := range rec.Keys() {
			code, ok := nameToCode[key]
			if !ok || code == key {
				continue
			}
			if _, taken := rec.Subjects[code]; taken {
				res.Conflicts = append(res.Conflicts, roll+": "+key+" -> "+code)
				continue
			}
			rec.Subjects[code] = rec.Subjects[key]
			delete(rec.Subjects, key)
			res.Renamed++
		}
	}
	if res.Renamed == 0 {
		return res, nil
	}
	return res, l.save(m)
}
