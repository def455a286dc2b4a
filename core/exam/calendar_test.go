package exam

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/core/rollno"
	"github.com/trezcool/edutrack/storage/jsonstore"
	"github.com/trezcool/edutrack/tests"
)

func newCalendar(t *testing.T) (*Calendar, *core.Config) {
	t.Helper()
	conf := testutil.Config(t)
	testutil.WriteFile(t, conf.DataDir, conf.Files.Subjects, `{"subjects":[
		{"name":"Basic Maths","code":"TMA101"},
		{"name":"English-I","code":"TEA101"},
		{"name":"Physics","code":"TPH101"}
	]}`)
	store := jsonstore.New(conf.DataDir, testutil.NewLogger())
	dir := directory.New(store, conf, rollno.NewRegistry(store, conf), directory.DefaultCurriculum())
	return NewCalendar(store, conf, dir), conf
}

func TestCalendar_SetDate(t *testing.T) {
	cal, _ := newCalendar(t)

	tests := []struct {
		name      string
		code      string
		date      string
		want      Entry
		wantErr   error
		wantField string
	}{
		{name: "valid", code: "tma101", date: "15/06/2025", want: Entry{Code: "TMA101", Name: "Basic Maths", Date: "15/06/2025"}},
		{name: "overwrite", code: "TMA101", date: " 16/06/2025 ", want: Entry{Code: "TMA101", Name: "Basic Maths", Date: "16/06/2025"}},
		{name: "unknown subject", code: "XYZ", date: "15/06/2025", wantErr: ErrUnknownSubject},
		{name: "wrong layout", code: "TEA101", date: "2025-06-15", wantField: "exam_date"},
		{name: "impossible date", code: "TEA101", date: "31/02/2025", wantField: "exam_date"},
		{name: "blank code", code: " ", date: "15/06/2025", wantField: "subject_code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.SetDate(tt.code, tt.date)
			if tt.wantField != "" {
				var verr *core.ValidationError
				if !errors.As(err, &verr) || verr.Fields[0].Field != tt.wantField {
					t.Fatalf("SetDate() error = %v, want validation error on %v", err, tt.wantField)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SetDate() = %v, want %v", got, tt.want)
			}
		})
	}

	if d, _ := cal.Date("tma101"); d != "16/06/2025" {
		t.Errorf("Date() = %v, want 16/06/2025", d)
	}
	if d, _ := cal.Date("TEA101"); d != NotSet {
		t.Errorf("Date() = %v, want %v", d, NotSet)
	}

	all, err := cal.All()
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	assert.Equal(t, []Entry{
		{Code: "TMA101", Name: "Basic Maths", Date: "16/06/2025"},
		{Code: "TEA101", Name: "English-I", Date: NotSet},
		{Code: "TPH101", Name: "Physics", Date: NotSet},
	}, all)
}

func TestCalendar_load_tolerant(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "schedule object", content: `{"exam_schedule":[{"subject_code":"TPH101","subject_name":"Physics","exam_date":"01/07/2025"}]}`, want: "01/07/2025"},
		{name: "bare list, short keys", content: `[{"code":"tph101","name":"Physics","exam_date":"02/07/2025"}]`, want: "02/07/2025"},
		{name: "malformed", content: `{"exam_schedule":`, want: NotSet},
		{name: "junk items", content: `{"exam_schedule":[1,"x",{"exam_date":"03/07/2025"}]}`, want: NotSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, conf := newCalendar(t)
			testutil.WriteFile(t, conf.DataDir, conf.Files.ExamDates, tt.content)
			got, err := cal.Date("TPH101")
			if err != nil {
				t.Fatalf("Date() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Date() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendar_SectionSchedule(t *testing.T) {
	cal, conf := newCalendar(t)
	if _, err := cal.SetDate("TEA101", "20/06/2025"); err != nil {
		t.Fatalf("SetDate() failed: %v", err)
	}
	testutil.WriteFile(t, conf.DataDir, conf.Files.SectionSubjects,
		`{"AI":["Basic Maths","English-I","C Lang","Quantum Basket Weaving"]}`)
	testutil.WriteFile(t, conf.DataDir, conf.Files.StudentSubjects,
		`{"20250002":{"section":"bi","subjects":["Physics"]},"20250001":{"section":"CI","subjects":[]}}`)

	t.Run("section curriculum", func(t *testing.T) {
		got, err := cal.SectionSchedule("ai")
		if err != nil {
			t.Fatalf("SectionSchedule() error = %v", err)
		}
		want := SectionSchedule{Section: "AI", Allocated: true, Lines: []Entry{
			{Code: "TMA101", Name: "Basic Maths", Date: NotSet},
			{Code: "TEA101", Name: "English-I", Date: "20/06/2025"},
			{Code: "TCA101", Name: "C Lang", Date: NotSet},
			{Code: "QUANTUM_BASKET_WEAVING", Name: "Quantum Basket Weaving", Date: NotSet},
		}}
		assert.Equal(t, want, got)
	})

	t.Run("student subjects", func(t *testing.T) {
		got, _ := cal.SectionSchedule("BI")
		assert.True(t, got.Allocated)
		assert.Equal(t, []Entry{{Code: "TPH101", Name: "Physics", Date: NotSet}}, got.Lines)
	})

	t.Run("whole catalog", func(t *testing.T) {
		got, _ := cal.SectionSchedule("CI")
		assert.False(t, got.Allocated)
		assert.Len(t, got.Lines, 3)
	})
}
