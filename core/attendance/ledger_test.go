package attendance

import (
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/storage/jsonstore"
	"github.com/trezcool/edutrack/tests"
)

const (
	subjectsJSON = `{"subjects": [
		{"name": "Basic Maths", "code": "TMA101"},
		{"name": "English-I", "code": "TEA101"},
		{"name": "C Lang", "code": "TCA101"}
	]}`
	sectionsJSON        = `{"20250001": "AI", "20250002": "BI", "20250003": "ai"}`
	teacherSectionsJSON = `{"t1": ["AI"], "t2": ["bi"]}`
	sectionSubjectsJSON = `{"AI": ["Basic Maths", "English-I", "Electronics"], "BI": ["C Lang"]}`
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ledger  *Ledger
	console *testutil.Console
	conf    *core.Config
	store   *jsonstore.Store
}

func setup(t *testing.T, inputs ...string) *fixture {
	t.Helper()
	core.NowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { core.NowFunc = time.Now })

	conf := testutil.Config(t)
	testutil.WriteFile(t, conf.DataDir, conf.Files.Subjects, subjectsJSON)
	testutil.WriteFile(t, conf.DataDir, conf.Files.Sections, sectionsJSON)
	testutil.WriteFile(t, conf.DataDir, conf.Files.TeacherSections, teacherSectionsJSON)
	testutil.WriteFile(t, conf.DataDir, conf.Files.SectionSubjects, sectionSubjectsJSON)

	logger := testutil.NewLogger()
	store := jsonstore.New(conf.DataDir, logger)
	dir := directory.New(store, conf, rollno.NewRegistry(store, conf), directory.DefaultCurriculum())
	console := testutil.NewConsole(inputs...)
	return &fixture{
		ledger:  NewLedger(store, conf, dir, console, logger),
		console: console,
		conf:    conf,
		store:   store,
	}
}

func (f *fixture) writeMaster(t *testing.T, content string) {
	t.Helper()
	testutil.WriteFile(t, f.conf.DataDir, f.conf.Files.Attendance, content)
}

func (f *fixture) master(t *testing.T) *Master {
	t.Helper()
	m, err := f.ledger.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return m
}

func (f *fixture) rawMaster(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.store.Path(f.conf.Files.Attendance))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("reading master failed: %v", err)
	}
	return string(data)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		present, working int
		want             float64
	}{
		{0, 0, 0},
		{1, 1, 100},
		{1, 2, 50},
		{2, 3, 66.67},
		{1, 3, 33.33},
		{5, 0, 0},
		{7, 8, 87.5},
		{1, 32, 3.12},
		{5, 32, 15.62},
		{1, 160, 0.62},
		{3, 32, 9.38},
	}
	for _, tt := range tests {
		if got := Percentage(tt.present, tt.working); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.present, tt.working, got, tt.want)
		}
	}
}

func TestLedger_ResolveAuthorization(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name        string
		teacher     string
		roll        string
		wantSection string
		wantErr     error
	}{
		{name: "not assigned", teacher: "t1", roll: "20259999", wantErr: ErrNotAssigned},
		{name: "unauthorized", teacher: "t1", roll: "20250002", wantErr: ErrUnauthorized},
		{name: "unknown teacher", teacher: "nobody", roll: "20250001", wantErr: ErrUnauthorized},
		{name: "authorized", teacher: "t1", roll: "20250001", wantSection: "AI"},
		{name: "teacher name case-insensitive", teacher: "T1", roll: "20250001", wantSection: "AI"},
		{name: "section case-insensitive", teacher: "t1", roll: "20250003", wantSection: "AI"},
		{name: "teacher section stored lowercase", teacher: "t2", roll: "20250002", wantSection: "BI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ledger.ResolveAuthorization(tt.teacher, tt.roll)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveAuthorization() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.wantSection {
				t.Errorf("ResolveAuthorization() = %v, want %v", got, tt.wantSection)
			}
		})
	}
}

func TestLedger_Mark(t *testing.T) {
	f := setup(t, "y", "y")

	ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true)
	if err != nil || !ok {
		t.Fatalf("Mark(present) = %v, %v", ok, err)
	}
	sa := f.master(t).Records["20250001"].Subjects["TMA101"]
	if sa.TotalWorkingDays != 1 || sa.TotalPresentDays != 1 || sa.AttendancePercentage != 100.0 {
		t.Errorf("after present: got %+v, want 1/1/100.0", *sa)
	}
	if sa.SubjectName != "Basic Maths" || sa.LastUpdated != "2025-03-14" {
		t.Errorf("after present: got %+v", *sa)
	}

	ok, err = f.ledger.Mark("t1", "20250001", "tma101", false)
	if err != nil || !ok {
		t.Fatalf("Mark(absent) = %v, %v", ok, err)
	}
	m := f.master(t)
	sa = m.Records["20250001"].Subjects["TMA101"]
	if sa.TotalWorkingDays != 2 || sa.TotalPresentDays != 1 || sa.AttendancePercentage != 50.0 {
		t.Errorf("after absent: got %+v, want 2/1/50.0", *sa)
	}
	rec := m.Records["20250001"]
	if rec.Section != "AI" || rec.Name != "20250001" {
		t.Errorf("record = %+v", *rec)
	}
	if m.Metadata == nil || m.Metadata.TotalStudents != 1 || m.Metadata.LastUpdated != "2025-03-14" {
		t.Errorf("metadata = %+v", m.Metadata)
	}
}

func TestLedger_Mark_declined(t *testing.T) {
	f := setup(t, "n")
	f.writeMaster(t, `{"attendance_records": {"20250001": {"name": "alice", "section": "AI", "subjects": {
		"TMA101": {"subject_name": "Basic Maths", "total_working_days": 3, "total_present_days": 2, "attendance_percentage": 66.67, "last_updated": "2025-01-01"}
	}}}, "metadata": {"last_updated": "2025-01-01", "total_students": 1}}`)

	ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true)
	if err != nil || ok {
		t.Fatalf("Mark() = %v, %v, want false, nil", ok, err)
	}
	sa := f.master(t).Records["20250001"].Subjects["TMA101"]
	if sa.TotalWorkingDays != 3 || sa.TotalPresentDays != 2 || sa.LastUpdated != "2025-01-01" {
		t.Errorf("declined mark mutated the entry: %+v", *sa)
	}
}

func TestLedger_Mark_unauthorizedLeavesStateUnchanged(t *testing.T) {
	f := setup(t, "y", "y")
	f.writeMaster(t, `{"attendance_records": {"20250002": {"name": "bob", "section": "BI", "subjects": {
		"TCA101": {"subject_name": "C Lang", "total_working_days": 1, "total_present_days": 1, "attendance_percentage": 100, "last_updated": "2025-01-01"}
	}}}}`)
	before := f.rawMaster(t)

	tests := []struct {
		name    string
		teacher string
		roll    string
		wantErr error
	}{
		{name: "other section", teacher: "t1", roll: "20250002", wantErr: ErrUnauthorized},
		{name: "not assigned", teacher: "t1", roll: "20250042", wantErr: ErrNotAssigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.ledger.Mark(tt.teacher, tt.roll, "TCA101", true)
			if ok || !errors.Is(err, tt.wantErr) {
				t.Errorf("Mark() = %v, error = %v, wantErr %v", ok, err, tt.wantErr)
			}
			if _, err := f.ledger.Update(tt.teacher, tt.roll, "TCA101"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if after := f.rawMaster(t); after != before {
		t.Errorf("unauthorized attempts changed the document:\n%s\nwant\n%s", after, before)
	}
	if f.console.Remaining() != 2 {
		t.Errorf("unauthorized attempts consumed console input")
	}
}

func TestLedger_Mark_createsMissingSubject(t *testing.T) {
	f := setup(t, "n")

	ok, err := f.ledger.Mark("t1", "20250001", "TXX999", true)
	if err != nil || ok {
		t.Fatalf("Mark() = %v, %v", ok, err)
	}
	// the entry survives the decline
	sa, found := f.master(t).Records["20250001"].Subjects["TXX999"]
	if !found {
		t.Fatal("Mark() did not persist the created entry")
	}
	if sa.SubjectName != "TXX999" || sa.TotalWorkingDays != 0 || sa.LastUpdated != "" {
		t.Errorf("created entry = %+v", *sa)
	}
}

func TestLedger_Update(t *testing.T) {
	const master = `{"attendance_records": {"20250001": {"name": "alice", "section": "AI", "subjects": {
		"TMA101": {"subject_name": "Basic Maths", "total_working_days": 4, "total_present_days": 3, "attendance_percentage": 75, "last_updated": "2025-01-01"},
		"English-I": {"subject_name": "English-I", "total_working_days": 2, "total_present_days": 2, "attendance_percentage": 100, "last_updated": "2025-01-01"},
		"legacy": {"subject_name": "C Lang", "total_working_days": 0, "total_present_days": 0, "attendance_percentage": 0, "last_updated": ""}
	}}}}`

	tests := []struct {
		name        string
		roll        string
		code        string
		inputs      []string
		wantOK      bool
		wantErr     error
		wantInvalid bool
		wantKey     string
		wantCounts  [2]int
		wantPct     float64
	}{
		{name: "by code", roll: "20250001", code: "TMA101", inputs: []string{"10", "7", "y"}, wantOK: true, wantKey: "TMA101", wantCounts: [2]int{10, 7}, wantPct: 70},
		{name: "lower-case code", roll: "20250001", code: "tma101", inputs: []string{"6", "3", "y"}, wantOK: true, wantKey: "TMA101", wantCounts: [2]int{6, 3}, wantPct: 50},
		{name: "name-keyed entry via catalog", roll: "20250001", code: "TEA101", inputs: []string{"5", "4", "yes"}, wantOK: true, wantKey: "English-I", wantCounts: [2]int{5, 4}, wantPct: 80},
		{name: "subject name as input", roll: "20250001", code: "English-I", inputs: []string{"3", "1", "y"}, wantOK: true, wantKey: "English-I", wantCounts: [2]int{3, 1}, wantPct: 33.33},
		{name: "display name match", roll: "20250001", code: "TCA101", inputs: []string{"0", "0", "y"}, wantOK: true, wantKey: "legacy", wantCounts: [2]int{0, 0}, wantPct: 0},
		{name: "present exceeds working", roll: "20250001", code: "TMA101", inputs: []string{"10", "12", "y"}, wantInvalid: true, wantKey: "TMA101", wantCounts: [2]int{4, 3}, wantPct: 75},
		{name: "negative working", roll: "20250001", code: "TMA101", inputs: []string{"-1", "0", "y"}, wantInvalid: true, wantKey: "TMA101", wantCounts: [2]int{4, 3}, wantPct: 75},
		{name: "not a number", roll: "20250001", code: "TMA101", inputs: []string{"ten", "2", "y"}, wantInvalid: true, wantKey: "TMA101", wantCounts: [2]int{4, 3}, wantPct: 75},
		{name: "declined", roll: "20250001", code: "TMA101", inputs: []string{"10", "5", "n"}, wantKey: "TMA101", wantCounts: [2]int{4, 3}, wantPct: 75},
		{name: "no record", roll: "20250003", code: "TMA101", wantErr: ErrStudentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.inputs...)
			f.writeMaster(t, master)
			before := f.rawMaster(t)

			ok, err := f.ledger.Update("t1", tt.roll, tt.code)
			if tt.wantInvalid {
				if !core.IsValidationError(err) {
					t.Fatalf("Update() error = %v, want a validation error", err)
				}
				if after := f.rawMaster(t); after != before {
					t.Errorf("rejected update changed the document")
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("Update() = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantKey == "" {
				return
			}
			rec := f.master(t).Records[tt.roll]
			if n := len(rec.Subjects); n != 3 {
				t.Errorf("Update() left %d entries, want 3: %v", n, rec.Keys())
			}
			sa, found := rec.Subjects[tt.wantKey]
			if !found {
				t.Fatalf("entry %q not found", tt.wantKey)
			}
			if sa.TotalWorkingDays != tt.wantCounts[0] || sa.TotalPresentDays != tt.wantCounts[1] || sa.AttendancePercentage != tt.wantPct {
				t.Errorf("entry = %+v, want %v %v", *sa, tt.wantCounts, tt.wantPct)
			}
			if tt.wantOK && sa.LastUpdated != "2025-03-14" {
				t.Errorf("LastUpdated = %v", sa.LastUpdated)
			}
		})
	}
}

func TestLedger_Update_example(t *testing.T) {
	f := setup(t, "y", "10", "12", "y")
	if ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err != nil || !ok {
		t.Fatalf("Mark() = %v, %v", ok, err)
	}
	before := f.rawMaster(t)

	ok, err := f.ledger.Update("t1", "20250001", "TMA101")
	if ok || !core.IsValidationError(err) {
		t.Errorf("Update(10, 12) = %v, %v, want a validation error", ok, err)
	}
	if after := f.rawMaster(t); after != before {
		t.Errorf("Update(10, 12) changed the document")
	}
}

func TestLedger_ResolveSubjectKey(t *testing.T) {
	f := setup(t)
	f.writeMaster(t, `{"attendance_records": {"20250001": {"name": "alice", "section": "AI", "subjects": {
		"Basic Maths": {"subject_name": "Basic Maths", "total_working_days": 1, "total_present_days": 1, "attendance_percentage": 100, "last_updated": ""},
		"x": {"subject_name": "english-i", "total_working_days": 0, "total_present_days": 0, "attendance_percentage": 0, "last_updated": ""}
	}}}}`)

	tests := []struct {
		name    string
		code    string
		want    string
		wantErr error
	}{
		{name: "name key", code: "TMA101", want: "Basic Maths"},
		{name: "display name, case-insensitive", code: "TEA101", want: "x"},
		{name: "created for known code", code: "TCA101", want: "TCA101"},
		{name: "created for unknown code", code: "ZZZ", want: "ZZZ"},
		{name: "created is found again", code: "TCA101", want: "TCA101"},
		{name: "created twice", code: "ZZZ", want: "ZZZ"},
		{name: "empty code", code: "", want: unknownSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ledger.ResolveSubjectKey("20250001", tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveSubjectKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveSubjectKey() = %v, want %v", got, tt.want)
			}
		})
	}

	rec := f.master(t).Records["20250001"]
	assert.ElementsMatch(t, []string{"Basic Maths", "x", "TCA101", "ZZZ", unknownSubject}, rec.Keys())
	if got := rec.Subjects["TCA101"].SubjectName; got != "C Lang" {
		t.Errorf("created SubjectName = %v, want C Lang", got)
	}

	if _, err := f.ledger.ResolveSubjectKey("20259999", "TMA101"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("ResolveSubjectKey() error = %v, wantErr %v", err, ErrStudentNotFound)
	}
}

func TestLedger_InitializeStudent(t *testing.T) {
	f := setup(t)
	f.writeMaster(t, `{"attendance_records": {}}`)

	created, err := f.ledger.InitializeStudent("20250001", "ai", []string{"Basic Maths", "Electronics", "English-I"})
	if err != nil || !created {
		t.Fatalf("InitializeStudent() = %v, %v", created, err)
	}
	m := f.master(t)
	rec := m.Records["20250001"]
	assert.ElementsMatch(t, []string{"TMA101", "TEA101"}, rec.Keys())
	if rec.Section != "AI" || rec.Name != "20250001" {
		t.Errorf("record = %+v", *rec)
	}
	if sa := rec.Subjects["TMA101"]; sa.SubjectName != "Basic Maths" || sa.LastUpdated != "2025-03-14" || sa.TotalWorkingDays != 0 {
		t.Errorf("entry = %+v", *sa)
	}
	want := Metadata{LastUpdated: "2025-03-14", TotalStudents: 1, AcademicYear: "2024-2025", TotalSubjects: 3}
	if m.Metadata == nil || *m.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", m.Metadata, want)
	}

	// existing record is left alone
	created, err = f.ledger.InitializeStudent("20250001", "BI", []string{"C Lang"})
	if err != nil || created {
		t.Errorf("InitializeStudent() on existing = %v, %v", created, err)
	}
	if rec := f.master(t).Records["20250001"]; rec.Section != "AI" || len(rec.Subjects) != 2 {
		t.Errorf("existing record changed: %+v", *rec)
	}
}

func TestLedger_InitializeStudent_keepsMetadata(t *testing.T) {
	f := setup(t)
	f.writeMaster(t, `{"attendance_records": {}, "metadata": {"last_updated": "2024-01-01", "total_students": 0, "academic_year": "2023-2024", "total_subjects": 9}}`)

	if _, err := f.ledger.InitializeStudent("20250002", "BI", []string{"C Lang"}); err != nil {
		t.Fatalf("InitializeStudent() failed: %v", err)
	}
	md := f.master(t).Metadata
	if md.AcademicYear != "2023-2024" || md.TotalSubjects != 9 || md.TotalStudents != 1 || md.LastUpdated != "2025-03-14" {
		t.Errorf("metadata = %+v", *md)
	}
}

func TestLedger_InitializeStudent_afterMark(t *testing.T) {
	f := setup(t, "y")
	f.writeMaster(t, `{"attendance_records": {}}`)

	if ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err != nil || !ok {
		t.Fatalf("Mark() = %v, %v", ok, err)
	}
	if _, err := f.ledger.InitializeStudent("20250002", "BI", []string{"C Lang"}); err != nil {
		t.Fatalf("InitializeStudent() failed: %v", err)
	}
	want := Metadata{LastUpdated: "2025-03-14", TotalStudents: 2, AcademicYear: "2024-2025", TotalSubjects: 3}
	if md := f.master(t).Metadata; md == nil || *md != want {
		t.Errorf("metadata = %+v, want %+v", md, want)
	}
}

func TestLedger_Mark_keepsOtherRecords(t *testing.T) {
	f := setup(t, "y")
	f.writeMaster(t, `{"attendance_records": {"20250003": {"name": "carol", "section": "AI", "subjects": {
		"TMA101": {"subject_name": "Basic Maths", "total_working_days": 10.0, "total_present_days": 5.0, "attendance_percentage": 50.0, "last_updated": "2025-01-01"}
	}}}}`)

	if ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err != nil || !ok {
		t.Fatalf("Mark() = %v, %v", ok, err)
	}
	m := f.master(t)
	assert.Len(t, m.Records, 2)
	if sa := m.Records["20250003"].Subjects["TMA101"]; sa.TotalWorkingDays != 10 || sa.TotalPresentDays != 5 {
		t.Errorf("untouched record = %+v", *sa)
	}
	if m.Metadata.TotalStudents != 2 {
		t.Errorf("metadata = %+v", *m.Metadata)
	}
}

func TestLedger_Mark_unreadableMaster(t *testing.T) {
	f := setup(t, "y")
	f.writeMaster(t, `{"attendance_records": ["20250003"]}`)
	before := f.rawMaster(t)

	if ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err == nil || ok {
		t.Errorf("Mark() = %v, %v, want an error", ok, err)
	}
	if after := f.rawMaster(t); after != before {
		t.Errorf("Mark() overwrote a document it could not read")
	}
}

func TestLedger_missingOrMalformedMaster(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing file"},
		{name: "no metadata", content: `{"attendance_records": {}}`},
		{name: "malformed", content: `{"attendance_records": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, "y")
			if tt.content != "" {
				f.writeMaster(t, tt.content)
			}
			if _, err := f.ledger.Load(); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if ok, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err != nil || !ok {
				t.Errorf("Mark() = %v, %v", ok, err)
			}
			if md := f.master(t).Metadata; md == nil || md.TotalStudents != 1 {
				t.Errorf("metadata = %+v", md)
			}
		})
	}
}

func TestLedger_Summary(t *testing.T) {
	f := setup(t, "y")
	if _, err := f.ledger.Summary("20250001"); !errors.Is(err, ErrNoData) {
		t.Errorf("Summary() error = %v, wantErr %v", err, ErrNoData)
	}
	if _, err := f.ledger.Mark("t1", "20250001", "TMA101", true); err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	rep, err := f.ledger.Summary("20250001")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if rep.Section != "AI" || len(rep.Subjects) != 1 {
		t.Fatalf("Summary() = %+v", rep)
	}
	line := rep.Subjects[0]
	if line.Key != "TMA101" || line.TotalPresentDays != 1 || line.AttendancePercentage != 100 {
		t.Errorf("Summary() line = %+v", line)
	}
}

func TestLedger_InitializeAll(t *testing.T) {
	f := setup(t)

	count, err := f.ledger.InitializeAll()
	if err != nil {
		t.Fatalf("InitializeAll() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("InitializeAll() = %d, want 3", count)
	}
	m := f.master(t)
	assert.ElementsMatch(t, []string{"TMA101", "TEA101"}, m.Records["20250001"].Keys())
	assert.ElementsMatch(t, []string{"TCA101"}, m.Records["20250002"].Keys())
	if m.Metadata.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d", m.Metadata.TotalStudents)
	}
}

func TestLedger_EnrollStudent(t *testing.T) {
	f := setup(t)

	created, err := f.ledger.EnrollStudent("20250001", "alice", "ai", []string{"Basic Maths", "Electronics"})
	if err != nil || !created {
		t.Fatalf("EnrollStudent() = %v, %v", created, err)
	}
	rec := f.master(t).Records["20250001"]
	assert.ElementsMatch(t, []string{"TMA101", "Electronics"}, rec.Keys())
	if rec.Name != "alice" || rec.Section != "AI" {
		t.Errorf("record = %+v", *rec)
	}

	created, err = f.ledger.EnrollStudent("20250001", "alice", "BI", []string{"C Lang"})
	if err != nil || created {
		t.Fatalf("EnrollStudent() move = %v, %v", created, err)
	}
	rec = f.master(t).Records["20250001"]
	if rec.Section != "BI" || len(rec.Subjects) != 2 {
		t.Errorf("moved record = %+v", *rec)
	}
}

func TestLedger_TeacherOverview(t *testing.T) {
	f := setup(t)
	f.writeMaster(t, `{"attendance_records": {
		"20250001": {"name": "a", "section": "AI", "subjects": {"TMA101": {"subject_name": "Basic Maths", "total_working_days": 2, "total_present_days": 1, "attendance_percentage": 50, "last_updated": ""}}},
		"20250003": {"name": "c", "section": "ai", "subjects": {"TEA101": {"subject_name": "English-I", "total_working_days": 1, "total_present_days": 1, "attendance_percentage": 100, "last_updated": ""}}},
		"20250002": {"name": "b", "section": "BI", "subjects": {"TCA101": {"subject_name": "C Lang", "total_working_days": 1, "total_present_days": 0, "attendance_percentage": 0, "last_updated": ""}}}
	}}`)

	rows, err := f.ledger.TeacherOverview("t1")
	if err != nil {
		t.Fatalf("TeacherOverview() failed: %v", err)
	}
	want := []OverviewRow{
		{Roll: "20250001", Section: "AI", SubjectKey: "TMA101", SubjectName: "Basic Maths", Percentage: 50},
		{Roll: "20250003", Section: "ai", SubjectKey: "TEA101", SubjectName: "English-I", Percentage: 100},
	}
	assert.Equal(t, want, rows)

	rows, err = f.ledger.TeacherOverview("nobody")
	if err != nil || rows != nil {
		t.Errorf("TeacherOverview(nobody) = %v, %v", rows, err)
	}
}

func TestLedger_NormalizeKeys(t *testing.T) {
	f := setup(t)
	f.writeMaster(t, `{"attendance_records": {
		"20250001": {"name": "a", "section": "AI", "subjects": {
			"Basic Maths": {"subject_name": "Basic Maths", "total_working_days": 2, "total_present_days": 1, "attendance_percentage": 50, "last_updated": ""},
			"English-I": {"subject_name": "English-I", "total_working_days": 1, "total_present_days": 1, "attendance_percentage": 100, "last_updated": ""},
			"TEA101": {"subject_name": "English-I", "total_working_days": 3, "total_present_days": 3, "attendance_percentage": 100, "last_updated": ""},
			"Electronics": {"subject_name": "Electronics", "total_working_days": 0, "total_present_days": 0, "attendance_percentage": 0, "last_updated": ""}
		}}
	}}`)

	res, err := f.ledger.NormalizeKeys()
	if err != nil {
		t.Fatalf("NormalizeKeys() failed: %v", err)
	}
	if res.Renamed != 1 {
		t.Errorf("Renamed = %d, want 1", res.Renamed)
	}
	assert.Equal(t, []string{"20250001: English-I -> TEA101"}, res.Conflicts)

	rec := f.master(t).Records["20250001"]
	assert.ElementsMatch(t, []string{"TMA101", "English-I", "TEA101", "Electronics"}, rec.Keys())
	if sa := rec.Subjects["TMA101"]; sa.TotalWorkingDays != 2 || sa.AttendancePercentage != 50 {
		t.Errorf("renamed entry = %+v", *sa)
	}
}
