package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/assignment"
	"github.com/trezcool/edutrack/core/attendance"
	"github.com/trezcool/edutrack/core/topic"
)

func (a *app) teacherMenu(teacher string) {
	a.menu("Teacher Menu", []string{
		"View my sections",
		"Mark present",
		"Update attendance/ mark absent",
		"View attendance chart",
		"Add topic covered",
		"View topics covered",
		"View submitted assignments",
		"Exit",
	}, map[string]func() bool{
		"1": func() bool { a.viewMySections(teacher); return false },
		"2": func() bool { a.markPresent(teacher); return false },
		"3": func() bool { a.updateAttendance(teacher); return false },
		"4": func() bool { a.attendanceChart(teacher); return false },
		"5": func() bool { a.addTopic(teacher); return false },
		"6": func() bool { a.viewTeacherTopics(teacher); return false },
		"7": func() bool { a.viewSubmissions(teacher); return false },
		"8": func() bool { return true },
	})
}

func (a *app) viewMySections(teacher string) {
	sections, err := a.dir.TeacherSections(teacher)
	if err != nil {
		a.fail(err)
		return
	}
	if len(sections) == 0 {
		a.printf("No sections assigned to this teacher.\n")
		return
	}
	a.printf("\nSections assigned to %s:\n", teacher)
	for _, s := range sections {
		a.printf(" %s\n", s)
	}
}

// attendanceError explains the ledger's refusals; it returns false for other errors.
func (a *app) attendanceError(err error, roll string) bool {
	switch {
	case errors.Is(err, attendance.ErrNotAssigned):
		a.printf("Student %s is not assigned to any section.\n", roll)
	case errors.Is(err, attendance.ErrUnauthorized):
		a.printf("You are not authorized to manage attendance for student %s.\n", roll)
	case errors.Is(err, attendance.ErrStudentNotFound):
		a.printf("Student %s not found in attendance records.\n", roll)
	default:
		return false
	}
	return true
}

func (a *app) markPresent(teacher string) {
	roll := a.console.ReadLine("Enter student roll number: ")
	code := core.CleanLabel(a.console.ReadLine("Enter subject code: "))
	ok, err := a.ledger.Mark(teacher, roll, code, true)
	if err != nil {
		if !a.attendanceError(err, roll) {
			a.fail(err)
		}
		return
	}
	if !ok {
		a.printf("Attendance not marked.\n")
		return
	}
	a.printf("Attendance marked for %s.\n", roll)
}

func (a *app) updateAttendance(teacher string) {
	roll := a.console.ReadLine("Enter student roll number: ")
	code := core.CleanLabel(a.console.ReadLine("Enter subject code: "))
	ok, err := a.ledger.Update(teacher, roll, code)
	if err != nil {
		if !a.attendanceError(err, roll) {
			a.fail(err)
		}
		return
	}
	if !ok {
		a.printf("Update cancelled.\n")
		return
	}
	a.printf("Attendance updated for %s.\n", roll)
}

func (a *app) attendanceChart(teacher string) {
	rows, err := a.ledger.TeacherOverview(teacher)
	if err != nil {
		a.fail(err)
		return
	}
	if len(rows) == 0 {
		a.printf("No attendance data found for your sections.\n")
		return
	}
	a.printf("\nAttendance Percentage - Teacher %s\n", teacher)
	for _, r := range rows {
		a.printf("%-10s %-6s %-28s %6.1f%% %s\n", r.Roll, r.Section, r.SubjectName, r.Percentage, bar(r.Percentage))
	}
}

func (a *app) addTopic(teacher string) {
	sections, err := a.dir.TeacherSections(teacher)
	if err != nil {
		a.fail(err)
		return
	}
	if len(sections) == 0 {
		a.printf("You are not assigned to any section. Contact admin.\n")
		return
	}

	section := sections[0]
	if len(sections) > 1 {
		a.printf("Select section to add topic:\n")
		for i, s := range sections {
			a.printf("%d. %s\n", i+1, s)
		}
		n, err := a.console.ReadInt("Enter choice: ")
		if err != nil || n < 1 || n > len(sections) {
			a.printf("Invalid choice.\n")
			return
		}
		section = sections[n-1]
	}

	e, err := a.topics.Add(teacher, section, a.console.ReadLine("Enter topic covered: "))
	if err != nil {
		if errors.Is(err, topic.ErrNotYourSection) {
			a.printf("You are not assigned to section %s.\n", section)
			return
		}
		a.fail(err)
		return
	}
	a.printf("Topic '%s' added successfully for section %s on %s.\n", e.Topic, section, e.Date)
}

func (a *app) viewTeacherTopics(teacher string) {
	views, err := a.topics.ForTeacher(teacher)
	if err != nil {
		if errors.Is(err, topic.ErrNoSections) {
			a.printf("No sections assigned to you.\n")
			return
		}
		a.fail(err)
		return
	}
	found := false
	for _, v := range views {
		if len(v.Topics) == 0 {
			continue
		}
		found = true
		a.printTopics(v)
	}
	if !found {
		a.printf("No topics recorded yet for your sections.\n")
	}
}

func (a *app) printTopics(v topic.SectionTopics) {
	a.printf("\nTopics covered for section %s:\n", v.Section)
	for i, t := range v.Topics {
		a.printf("%d. %s (by %s on %s)\n", i+1, t.Topic, t.Teacher, t.Date)
	}
}

func (a *app) viewSubmissions(teacher string) {
	lists, err := a.box.ListForTeacher(teacher)
	if err != nil {
		if errors.Is(err, assignment.ErrNoSections) {
			a.printf("No sections assigned to you.\n")
			return
		}
		a.fail(err)
		return
	}
	if len(lists) == 0 {
		a.printf("No assignments submitted yet.\n")
		return
	}
	for _, l := range lists {
		a.printf("\nSection %s:\n", l.Section)
		for _, f := range l.Files {
			a.printf(" %s\n", f)
		}
	}
}
