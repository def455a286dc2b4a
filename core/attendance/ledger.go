// Package attendance keeps per student, per subject working/present day counters.
package attendance

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

var (
	// errors
	ErrNotAssigned     = errors.New("student not assigned to any section")
	ErrUnauthorized    = errors.New("unauthorized: teacher is not assigned to the student's section")
	ErrStudentNotFound = errors.New("student not found in attendance records")
	ErrNoData          = errors.New("no attendance data found for this student")
	ErrNotANumber      = errors.New("invalid input, please enter numbers")
)

const unknownSubject = "UNKNOWN"

// Directory is what the ledger needs to know about sections and subjects.
type Directory interface {
	SectionOf(roll string) (string, bool, error)
	StudentSections() (map[string]string, error)
	SectionSubjects(section string) ([]string, error)
	TeacherSections(teacher string) ([]string, error)
	CodeToName() (map[string]string, error)
	NameToCode() (map[string]string, error)
}

type Ledger struct {
	store        *jsonstore.Store
	file         string
	academicYear string
	dir          Directory
	console      core.Console
	log          core.Logger
}

func NewLedger(store *jsonstore.Store, conf *core.Config, dir Directory, console core.Console, logger core.Logger) *Ledger {
	return &Ledger{
		store:        store,
		file:         conf.Files.Attendance,
		academicYear: conf.AcademicYear,
		dir:          dir,
		console:      console,
		log:          logger,
	}
}

func (l *Ledger) load() (*Master, error) {
	var m Master
	if err := l.store.Load(l.file, &m); err != nil {
		return nil, err
	}
	if m.Records == nil {
		m.Records = make(map[string]*Record)
	}
	for _, rec := range m.Records {
		if rec.Subjects == nil {
			rec.Subjects = make(map[string]*SubjectAttendance)
		}
	}
	return &m, nil
}

// save stamps the metadata and writes the whole document.
func (l *Ledger) save(m *Master) error {
	if m.Metadata == nil {
		m.Metadata = &Metadata{}
	}
	m.Metadata.LastUpdated = core.Today()
	m.Metadata.TotalStudents = len(m.Records)
	return l.store.Save(l.file, m)
}

// Load returns the current attendance document.
func (l *Ledger) Load() (*Master, error) {
	return l.load()
}

// ResolveAuthorization returns the section of roll if teacher may access it.
func (l *Ledger) ResolveAuthorization(teacher, roll string) (string, error) {
	section, ok, err := l.dir.SectionOf(roll)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrapf(ErrNotAssigned, "%s", roll)
	}
	sections, err := l.dir.TeacherSections(teacher)
	if err != nil {
		return "", err
	}
	if !core.ContainsFold(sections, section) {
		return "", errors.Wrapf(ErrUnauthorized, "section %s", section)
	}
	return section, nil
}

// resolveKey finds the entry of rec matching code, creating a zeroed one on miss.
// extended enables the fallback used by Update, where code may also be a subject name or key.
func resolveKey(rec *Record, code string, codeToName map[string]string, extended bool) (key string, created bool) {
	if _, ok := rec.Subjects[code]; ok {
		return code, false
	}
	name := codeToName[code]
	if name != "" {
		if _, ok := rec.Subjects[name]; ok {
			return name, false
		}
		for k, sa := range rec.Subjects {
			if core.FoldEqual(sa.SubjectName, name) {
				return k, false
			}
		}
	}
	if extended {
		for _, k := range rec.Keys() {
			if core.FoldEqual(k, code) || core.FoldEqual(rec.Subjects[k].SubjectName, code) {
				return k, false
			}
		}
	}

	key = code
	if key == "" {
		key = name
	}
	if key == "" {
		key = unknownSubject
	}
	subjectName := name
	if subjectName == "" {
		subjectName = code
	}
	if subjectName == "" {
		subjectName = unknownSubject
	}
	rec.Subjects[key] = &SubjectAttendance{SubjectName: subjectName}
	return key, true
}

func (l *Ledger) resolve(m *Master, roll, code string, extended bool) (string, error) {
	codeToName, err := l.dir.CodeToName()
	if err != nil {
		return "", err
	}
	key, created := resolveKey(m.Records[roll], code, codeToName, extended)
	if created {
		if err := l.save(m); err != nil {
			return "", err
		}
		l.log.Info("created missing subject entry", map[string]interface{}{"roll": roll, "subject": code, "key": key})
		l.console.Printf("Subject entry for '%s' was missing for %s. Created new entry '%s'.\n", code, roll, key)
	}
	return key, nil
}

// ResolveSubjectKey returns the key under which the record of roll stores code,
// creating and persisting a zeroed entry when none matches.
func (l *Ledger) ResolveSubjectKey(roll, code string) (string, error) {
	m, err := l.load()
	if err != nil {
		return "", err
	}
	roll = core.CleanString(roll)
	if _, ok := m.Records[roll]; !ok {
		return "", errors.Wrapf(ErrStudentNotFound, "%s", roll)
	}
	return l.resolve(m, roll, core.CleanLabel(code), false)
}

// Mark records one working day for roll in subject code, and one present day if present.
// It returns false without error when the operator declines the confirmation.
func (l *Ledger) Mark(teacher, roll, code string, present bool) (bool, error) {
	roll = core.CleanString(roll)
	code = core.CleanLabel(code)

	section, err := l.ResolveAuthorization(teacher, roll)
	if err != nil {
		return false, err
	}
	m, err := l.load()
	if err != nil {
		return false, err
	}
	if _, ok := m.Records[roll]; !ok {
		m.Records[roll] = &Record{Name: roll, Section: section, Subjects: make(map[string]*SubjectAttendance)}
	}
	key, err := l.resolve(m, roll, code, false)
	if err != nil {
		return false, err
	}

	sa := m.Records[roll].Subjects[key]
	status := "absent"
	if present {
		status = "present"
	}
	if !l.console.Confirm("Mark " + roll + " as " + status + " for " + sa.SubjectName + "?") {
		return false, nil
	}

	sa.TotalWorkingDays++
	if present {
		sa.TotalPresentDays++
	}
	sa.recompute()
	sa.LastUpdated = core.Today()
	if err := l.save(m); err != nil {
		return false, err
	}
	return true, nil
}

// Update overwrites the counters of roll in subject code with values read from the console.
// It returns false without error when the operator declines the confirmation.
func (l *Ledger) Update(teacher, roll, code string) (bool, error) {
	roll = core.CleanString(roll)
	code = core.CleanLabel(code)

	if _, err := l.ResolveAuthorization(teacher, roll); err != nil {
		return false, err
	}
	m, err := l.load()
	if err != nil {
		return false, err
	}
	if _, ok := m.Records[roll]; !ok {
		return false, errors.Wrapf(ErrStudentNotFound, "%s", roll)
	}
	key, err := l.resolve(m, roll, code, true)
	if err != nil {
		return false, err
	}

	sa := m.Records[roll].Subjects[key]
	l.console.Printf("\nCurrent attendance for %s - %s:\n", roll, sa.SubjectName)
	l.console.Printf("Total working days: %d\n", sa.TotalWorkingDays)
	l.console.Printf("Total present days: %d\n", sa.TotalPresentDays)
	l.console.Printf("Attendance %%: %.2f%%\n", sa.AttendancePercentage)

	var counts Counts
	if counts.Working, err = l.console.ReadInt("Enter new total working days: "); err != nil {
		return false, notANumber("total_working_days")
	}
	if counts.Present, err = l.console.ReadInt("Enter new total present days: "); err != nil {
		return false, notANumber("total_present_days")
	}
	if err := core.ValidateStruct(counts); err != nil {
		return false, err
	}
	if !l.console.Confirm("Update attendance for " + roll + "?") {
		return false, nil
	}

	sa.TotalWorkingDays = counts.Working
	sa.TotalPresentDays = counts.Present
	sa.recompute()
	sa.LastUpdated = core.Today()
	if err := l.save(m); err != nil {
		return false, err
	}
	return true, nil
}

func notANumber(field string) error {
	return core.NewValidationError(ErrNotANumber, core.FieldError{Field: field, Error: ErrNotANumber.Error()})
}
