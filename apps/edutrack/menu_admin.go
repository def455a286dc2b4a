package main

import (
	"sort"
	"strings"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/directory"
	"github.com/trezcool/edutrack/core/user"
)

func (a *app) adminMenu() {
	a.menu("Admin Menu", []string{
		"Add subject",
		"List subjects",
		"Create section",
		"List sections",
		"Assign section to student (choose from list)",
		"Assign sections to teacher",
		"Set/Update exam dates",
		"View all exam dates",
		"View section assignments",
		"View student info",
		"View any student's dashboard",
		"Back",
	}, map[string]func() bool{
		"1":  func() bool { a.addSubject(); return false },
		"2":  func() bool { a.listSubjects(); return false },
		"3":  func() bool { a.createSection(); return false },
		"4":  func() bool { a.listSections(); return false },
		"5":  func() bool { a.assignStudent(); return false },
		"6":  func() bool { a.assignTeacher(); return false },
		"7":  func() bool { a.setExamDates(); return false },
		"8":  func() bool { a.viewAllExamDates(); return false },
		"9":  func() bool { a.viewSectionAssignments(); return false },
		"10": func() bool { a.viewStudent("Info for"); return false },
		"11": func() bool { a.viewStudent("Dashboard for"); return false },
		"12": func() bool { return true },
	})
}

func (a *app) addSubject() {
	s, err := a.dir.AddSubject(directory.Subject{
		Name: a.console.ReadLine("Enter subject name: "),
		Code: a.console.ReadLine("Enter subject code: "),
	})
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Subject %s (%s) added.\n", s.Name, s.Code)
}

func (a *app) listSubjects() {
	subjects, err := a.dir.Subjects()
	if err != nil {
		a.fail(err)
		return
	}
	if len(subjects) == 0 {
		a.printf("No subjects available.\n")
		return
	}
	a.printf("\nSubjects:\n")
	for i, s := range subjects {
		a.printf(" %d. %s (%s)\n", i+1, s.Name, s.Code)
	}
}

func (a *app) createSection() {
	label, subjects, err := a.dir.CreateSection(a.console.ReadLine("Enter new section (e.g., A): "))
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Section %s created.\n", label)
	if len(subjects) > 0 {
		a.printf("Subjects: %s\n", strings.Join(subjects, ", "))
	}
}

func (a *app) listSections() []string {
	sections, err := a.dir.Sections()
	if err != nil {
		a.fail(err)
		return nil
	}
	if len(sections) == 0 {
		a.printf("No sections available. Create one first.\n")
		return nil
	}
	a.printf("\nSections:\n")
	for i, s := range sections {
		a.printf(" %d. %s\n", i+1, s)
	}
	return sections
}

func (a *app) assignStudent() {
	students, err := a.rolls.Students()
	if err != nil {
		a.fail(err)
		return
	}
	if len(students) == 0 {
		a.printf("No students found.\n")
		return
	}
	current, err := a.dir.StudentSections()
	if err != nil {
		a.fail(err)
		return
	}

	names := make(map[string]string, len(students))
	rolls := make([]string, 0, len(students))
	for name, roll := range students {
		names[roll] = name
		rolls = append(rolls, roll)
	}
	sort.Strings(rolls)
	a.printf("\n--- Assign Section to Student ---\n")
	for _, roll := range rolls {
		section, ok := current[roll]
		if !ok {
			section = "Not Assigned"
		}
		a.printf("%s - %s (Section: %s)\n", roll, names[roll], section)
	}

	roll := a.console.ReadLine("\nEnter student roll number to assign section: ")
	name, ok := names[roll]
	if !ok {
		a.printf("Invalid roll number.\n")
		return
	}
	res, err := a.dir.AssignStudent(roll, a.console.ReadLine("Enter section name to assign for "+name+" ("+roll+"): "))
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Assigned section '%s' to student with roll number %s successfully!\n", res.Section, res.Roll)
	if len(res.Subjects) == 0 {
		a.printf("Section '%s' has no subjects yet.\n", res.Section)
		return
	}

	created, err := a.ledger.EnrollStudent(res.Roll, res.Name, res.Section, res.Subjects)
	if err != nil {
		a.fail(err)
		return
	}
	if created {
		a.printf("Attendance record created for roll %s\n", res.Roll)
	} else {
		a.printf("Updated existing attendance record for roll %s\n", res.Roll)
	}
}

func (a *app) assignTeacher() {
	teacher := a.console.ReadLine("Enter teacher username: ")
	usr, err := a.users.Get(teacher)
	if err != nil || usr.Role != user.RoleTeacher {
		a.printf("Invalid teacher username.\n")
		return
	}
	sections, err := a.dir.Sections()
	if err != nil {
		a.fail(err)
		return
	}
	if len(sections) == 0 {
		a.printf("No sections available. Create one first.\n")
		return
	}
	a.printf("\nSelect section numbers to assign to this teacher (comma separated):\n")
	for i, s := range sections {
		a.printf(" %d. %s\n", i+1, s)
	}
	chosen, err := a.dir.AssignTeacher(usr.Username, pickNumbers(a.console.ReadLine("Enter numbers: "), sections))
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Assigned sections %s to %s.\n", strings.Join(chosen, ", "), usr.Username)
}

func (a *app) setExamDates() {
	subjects, err := a.dir.Subjects()
	if err != nil {
		a.fail(err)
		return
	}
	if len(subjects) == 0 {
		a.printf("No subjects available.\n")
		return
	}
	codes := make([]string, 0, len(subjects))
	a.printf("\nAvailable subjects:\n")
	for i, s := range subjects {
		a.printf("%d. %s (%s)\n", i+1, s.Name, s.Code)
		codes = append(codes, s.Code)
	}

	picked := pickNumbers(a.console.ReadLine("Enter subject numbers to set exam date (comma separated): "), codes)
	if len(picked) == 0 {
		return
	}
	for _, code := range picked {
		date := a.console.ReadLine("Enter exam date for " + code + " [DD/MM/YYYY]: ")
		if _, err := a.exams.SetDate(code, date); err != nil {
			if core.IsValidationError(err) {
				a.printf("Skipped %s: invalid date format.\n", code)
				continue
			}
			a.fail(err)
			return
		}
	}
	a.printf("Exam dates saved.\n")
}

func (a *app) viewAllExamDates() {
	entries, err := a.exams.All()
	if err != nil {
		a.fail(err)
		return
	}
	if len(entries) == 0 {
		a.printf("No subjects available.\n")
		return
	}
	a.printf("\nExam dates:\n")
	for _, e := range entries {
		a.printf(" %s (%s): %s\n", e.Name, e.Code, e.Date)
	}
}

func (a *app) viewSectionAssignments() {
	bySection, err := a.dir.Assignments()
	if err != nil {
		a.fail(err)
		return
	}
	if len(bySection) == 0 {
		a.printf("No students assigned yet.\n")
		return
	}
	a.printf("\nCurrent section assignments:\n")
	for _, section := range sortedKeys(bySection) {
		a.printf(" Section %s: %s\n", section, strings.Join(bySection[section], ", "))
	}
}

func (a *app) viewStudent(heading string) {
	name := a.console.ReadLine("Enter student username: ")
	roll, ok, err := a.rolls.Lookup(name, user.RoleStudent)
	if err != nil {
		a.fail(err)
		return
	}
	if !ok {
		a.printf("No such student.\n")
		return
	}
	a.printf("\n--- %s %s ---\n", heading, name)
	a.studentCard(roll)
}

// studentCard prints the roll, section and section exam schedule of a student.
func (a *app) studentCard(roll string) {
	a.printf("University Roll Number: %s\n", roll)
	section, ok, err := a.dir.SectionOf(roll)
	if err != nil {
		a.fail(err)
		return
	}
	if !ok {
		a.printf("Section: Not assigned\n")
		return
	}
	a.printf("Section: %s\n", section)
	a.examSchedule(section)
}

func (a *app) examSchedule(section string) {
	sched, err := a.exams.SectionSchedule(section)
	if err != nil {
		a.fail(err)
		return
	}
	if !sched.Allocated {
		a.printf("No subjects allocated to section %s; showing all subjects.\n", sched.Section)
	}
	a.printf("\nExam schedule for section %s:\n", sched.Section)
	if len(sched.Lines) == 0 {
		a.printf(" No subjects available.\n")
		return
	}
	for _, e := range sched.Lines {
		a.printf(" %s (%s): %s\n", e.Name, e.Code, e.Date)
	}
}
