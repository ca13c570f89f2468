package console

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
)

type sampleSemester struct {
	number  int
	courses []models.CourseEntry
}

type sampleCase struct {
	title string
	note  string
	// prior semesters are added first but not printed
	prior    []sampleSemester
	semester sampleSemester
	showCGPA bool
}

var (
	sampleSemesterOne = sampleSemester{1, []models.CourseEntry{
		{Name: "Data Structures", Grade: "A+", Credits: 4},
		{Name: "Mathematics", Grade: "A", Credits: 3},
		{Name: "Physics", Grade: "B+", Credits: 3},
	}}

	sampleCases = []sampleCase{
		{
			title:    "TEST CASE 1: Simple Semester",
			semester: sampleSemesterOne,
		},
		{
			title: "TEST CASE 2: Multiple Semesters",
			note:  "Add Semester 2 after Semester 1:",
			prior: []sampleSemester{sampleSemesterOne},
			semester: sampleSemester{2, []models.CourseEntry{
				{Name: "Algorithms", Grade: "A+", Credits: 4},
				{Name: "Database Systems", Grade: "A", Credits: 3},
				{Name: "Operating Systems", Grade: "A", Credits: 4},
				{Name: "Computer Networks", Grade: "B+", Credits: 3},
			}},
			showCGPA: true,
		},
		{
			title: "TEST CASE 3: Mixed Grades",
			note:  "Semester 3 with varied performance:",
			semester: sampleSemester{3, []models.CourseEntry{
				{Name: "Machine Learning", Grade: "A+", Credits: 4},
				{Name: "Web Development", Grade: "B", Credits: 3},
				{Name: "Software Engineering", Grade: "C+", Credits: 3},
				{Name: "Theory of Computation", Grade: "A", Credits: 2},
			}},
		},
		{
			title: "TEST CASE 5: Edge Case - All A+",
			note:  "Semester 4 with perfect grades:",
			semester: sampleSemester{4, []models.CourseEntry{
				{Name: "Artificial Intelligence", Grade: "A+", Credits: 4},
				{Name: "Cloud Computing", Grade: "A+", Credits: 3},
				{Name: "Blockchain", Grade: "A+", Credits: 3},
			}},
		},
	}
)

// expected replays the case on a scratch ledger
func (c sampleCase) expected() (models.Semester, float64, error) {
	l := ledger.New()
	for _, p := range append(c.prior, c.semester) {
		if _, err := l.AddSemester(p.number, p.courses); err != nil {
			return models.Semester{}, 0, err
		}
	}
	sem, _ := l.Semester(c.semester.number)
	return sem, l.CGPA(), nil
}

func (s *Session) displaySampleCases() {
	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 70))
	titleColor.Fprintln(s.out, "                    SAMPLE TEST CASES")
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("=", 70))

	for i, c := range sampleCases {
		s.displaySampleCase(c)
		if i == 2 {
			s.displayErrorHandlingCase()
		}
	}
	s.displayFileCase()

	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 70))
}

func (s *Session) displaySampleCase(c sampleCase) {
	warnColor.Fprintf(s.out, "\n--- %s ---\n", c.title)
	if c.note != "" {
		s.printf("%s\n", c.note)
	}
	s.printf("Semester Number: %d\n", c.semester.number)
	s.printf("Number of courses: %d\n", len(c.semester.courses))

	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Course", "Name", "Grade", "Credits"})
	table.SetAutoWrapText(false)
	for i, e := range c.semester.courses {
		table.Append([]string{strconv.Itoa(i + 1), e.Name, e.Grade, strconv.Itoa(e.Credits)})
	}
	table.Render()

	sem, cgpa, err := c.expected()
	if err != nil {
		errorColor.Fprintf(s.out, "Sample is invalid: %v\n", err)
		return
	}
	successColor.Fprintf(s.out, "Expected Semester %d SGPA: %s\n", sem.Number, models.FormatGPA(sem.SGPA))
	if c.showCGPA {
		successColor.Fprintf(s.out, "Expected Cumulative CGPA: %s\n", models.FormatGPA(cgpa))
	}
}

func (s *Session) displayErrorHandlingCase() {
	warnColor.Fprintln(s.out, "\n--- TEST CASE 4: Error Handling ---")
	s.printf("Test invalid inputs:\n")
	s.printf("  - Invalid grade: 'X' (should reject)\n")
	s.printf("  - Negative credits: -3 (should reject)\n")
	s.printf("  - Zero credits: 0 (should reject)\n")
	s.printf("  - Duplicate semester: Add semester 1 again (should reject)\n")
}

func (s *Session) displayFileCase() {
	warnColor.Fprintln(s.out, "\n--- TEST CASE 6: File I/O Test ---")
	s.printf("1. Add some semesters\n")
	s.printf("2. Select option %d to save\n", ChoiceSave)
	s.printf("3. Exit program (option %d)\n", ChoiceExit)
	s.printf("4. Run program again\n")
	s.printf("5. Select option %d to load\n", ChoiceLoad)
	s.printf("Expected: All previous data should be restored\n")
}
