package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/assignment"
	"github.com/trezcool/edutrack/core/attendance"
	"github.com/trezcool/edutrack/core/topic"
	"github.com/trezcool/edutrack/core/user"
)

func (a *app) studentMenu(name string) {
	roll, err := a.rolls.Get(name, user.RoleStudent)
	if err != nil {
		a.fail(err)
		return
	}

	a.menu("Student Menu", []string{
		"View dashboard",
		"View my exam schedule",
		"View my attendance",
		"View attendance summary",
		"View topics covered in my section",
		"Submit assignment PDF",
		"View my submissions",
		"Logout",
	}, map[string]func() bool{
		"1": func() bool {
			a.printf("\n--- Dashboard for %s ---\n", name)
			a.studentCard(roll)
			return false
		},
		"2": func() bool { a.myExamSchedule(roll); return false },
		"3": func() bool { a.myAttendance(roll); return false },
		"4": func() bool { a.attendanceSummary(roll); return false },
		"5": func() bool { a.myTopics(roll); return false },
		"6": func() bool { a.submitAssignment(roll); return false },
		"7": func() bool { a.mySubmissions(roll); return false },
		"8": func() bool { return true },
	})
}

func (a *app) myExamSchedule(roll string) {
	section, ok, err := a.dir.SectionOf(roll)
	if err != nil {
		a.fail(err)
		return
	}
	if !ok {
		a.printf("Section not assigned.\n")
		return
	}
	a.examSchedule(section)
}

func (a *app) myAttendance(roll string) {
	rep, err := a.ledger.Summary(roll)
	if err != nil || len(rep.Subjects) == 0 {
		if err != nil && !errors.Is(err, attendance.ErrNoData) {
			a.fail(err)
			return
		}
		a.printf("No attendance data found for this student.\n")
		return
	}
	a.printf("\nAttendance Percentage for %s\n", roll)
	for _, s := range rep.Subjects {
		a.printf("%-28s %6.1f%% %s\n", s.SubjectName, s.AttendancePercentage, bar(s.AttendancePercentage))
	}
}

func (a *app) attendanceSummary(roll string) {
	rep, err := a.ledger.Summary(roll)
	if err != nil {
		if errors.Is(err, attendance.ErrNoData) {
			a.printf("No attendance data found for %s.\n", roll)
			return
		}
		a.fail(err)
		return
	}
	a.printf("\n--- Attendance Summary for %s ---\n", roll)
	a.printf("Section: %s\n", rep.Section)
	a.printf("\nSubject-wise Attendance:\n")
	for _, s := range rep.Subjects {
		a.printf("  %s (%s):\n", s.SubjectName, s.Key)
		a.printf("    Working Days: %d\n", s.TotalWorkingDays)
		a.printf("    Present Days: %d\n", s.TotalPresentDays)
		a.printf("    Attendance: %.2f%%\n", s.AttendancePercentage)
		a.printf("    Last Updated: %s\n\n", s.LastUpdated)
	}
}

func (a *app) myTopics(roll string) {
	v, err := a.topics.ForStudent(roll)
	if err != nil {
		if errors.Is(err, topic.ErrNoSection) {
			a.printf("You are not assigned to any section.\n")
			return
		}
		a.fail(err)
		return
	}
	if len(v.Topics) == 0 {
		a.printf("No topics recorded yet for section %s.\n", v.Section)
		return
	}
	a.printTopics(v)
}

func (a *app) submitAssignment(roll string) {
	src := a.console.ReadLine("Enter path to your assignment PDF: ")
	sub, err := a.box.Submit(roll, src)
	switch {
	case errors.Is(err, assignment.ErrNoSection):
		a.printf("Section not found for this student.\n")
	case errors.Is(err, assignment.ErrFileNotFound):
		a.printf("File not found.\n")
	case errors.Is(err, assignment.ErrNotPDF):
		a.printf("Only PDF files are allowed.\n")
	case err != nil:
		a.fail(err)
	default:
		a.log.Info("assignment submitted", map[string]interface{}{"roll": roll, "id": sub.ID})
		a.printf("Assignment submitted successfully to %s\n", sub.File)
	}
}

func (a *app) mySubmissions(roll string) {
	subs, err := a.box.History(roll)
	if err != nil {
		a.fail(err)
		return
	}
	if len(subs) == 0 {
		a.printf("No assignments submitted yet.\n")
		return
	}
	a.printf("\n--- Submissions of %s ---\n", roll)
	for i, s := range subs {
		a.printf("%d. %s (section %s) at %s\n", i+1, s.File, s.Section, s.SubmittedAt)
	}
}
