package attendance

import (
	"sort"
	"strconv"

	"github.com/bytedance/sonic"
)

// SubjectAttendance holds the counters of one student for one subject.
type SubjectAttendance struct {
	SubjectName          string  `json:"subject_name"`
	TotalWorkingDays     int     `json:"total_working_days"`
	TotalPresentDays     int     `json:"total_present_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	LastUpdated          string  `json:"last_updated"`
}

// UnmarshalJSON accepts counters written as floats by hand edits, eg. 10.0, truncating them.
func (sa *SubjectAttendance) UnmarshalJSON(data []byte) error {
	var raw struct {
		SubjectName          string  `json:"subject_name"`
		TotalWorkingDays     float64 `json:"total_working_days"`
		TotalPresentDays     float64 `json:"total_present_days"`
		AttendancePercentage float64 `json:"attendance_percentage"`
		LastUpdated          string  `json:"last_updated"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	*sa = SubjectAttendance{
		SubjectName:          raw.SubjectName,
		TotalWorkingDays:     int(raw.TotalWorkingDays),
		TotalPresentDays:     int(raw.TotalPresentDays),
		AttendancePercentage: raw.AttendancePercentage,
		LastUpdated:          raw.LastUpdated,
	}
	return nil
}

// recompute refreshes AttendancePercentage from the counters.
func (sa *SubjectAttendance) recompute() {
	sa.AttendancePercentage = Percentage(sa.TotalPresentDays, sa.TotalWorkingDays)
}

// Record is the attendance of one student. Subjects are keyed by subject code,
// or by subject name for entries written by older tools.
type Record struct {
	Name     string                        `json:"name"`
	Section  string                        `json:"section"`
	Subjects map[string]*SubjectAttendance `json:"subjects"`
}

// Keys returns the subject keys of r, sorted.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.Subjects))
	for k := range r.Subjects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Metadata struct {
	LastUpdated   string `json:"last_updated"`
	TotalStudents int    `json:"total_students"`
	AcademicYear  string `json:"academic_year,omitempty"`
	TotalSubjects int    `json:"total_subjects,omitempty"`
}

// Master is the whole attendance_master.json document.
type Master struct {
	Records  map[string]*Record `json:"attendance_records"`
	Metadata *Metadata          `json:"metadata,omitempty"`
}

// Percentage is 100*present/working correctly rounded to 2 decimals, or 0 when working is 0.
func Percentage(present, working int) float64 {
	if working <= 0 {
		return 0
	}
	p := 100 * float64(present) / float64(working)
	r, _ := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	return r
}

// Counts are the absolute values accepted by Update.
type Counts struct {
	Working int `json:"total_working_days" validate:"gte=0"`
	Present int `json:"total_present_days" validate:"gte=0,ltefield=Working"`
}

// SubjectLine is one row of a Report.
type SubjectLine struct {
	Key string
	SubjectAttendance
}

// Report summarises the attendance of one student.
type Report struct {
	Roll     string
	Name     string
	Section  string
	Subjects []SubjectLine // sorted by key
}

// OverviewRow is one (student, subject) percentage in a teacher's sections.
type OverviewRow struct {
	Roll        string
	Section     string
	SubjectKey  string
	SubjectName string
	Percentage  float64
}

// NormalizeResult reports what NormalizeKeys changed.
type NormalizeResult struct {
	Renamed   int
	Conflicts []string // "roll: name -> code" entries left untouched
}
