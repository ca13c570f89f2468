package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nonsonwune/cgpa_tracker/models"
)

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

// readLine returns false once input is exhausted
func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Session) prompt(msg string) (string, bool) {
	s.printf("%s", msg)
	return s.readLine()
}

// promptInt reports ok=false at end of input and a non-nil error when the
// answer is not an integer
func (s *Session) promptInt(msg string) (int, bool, error) {
	line, ok := s.prompt(msg)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	return v, true, err
}

func (s *Session) confirm(msg string) bool {
	line, ok := s.prompt(msg + " (y/n): ")
	return ok && strings.EqualFold(strings.TrimSpace(line), "y")
}

// promptCourse asks for one course and repeats only the field that was
// rejected. It reports false at end of input.
func (s *Session) promptCourse() (models.CourseEntry, bool) {
	var entry models.CourseEntry

	for {
		line, ok := s.prompt("Enter course name: ")
		if !ok {
			return entry, false
		}
		name, err := models.ValidateCourseName(line)
		if err != nil {
			errorColor.Fprintln(s.out, "Course name cannot be empty! Please try again.")
			continue
		}
		entry.Name = name
		break
	}

	gradePrompt := fmt.Sprintf("Enter grade (%s): ", strings.Join(models.Grades(), ", "))
	for {
		line, ok := s.prompt(gradePrompt)
		if !ok {
			return entry, false
		}
		grade, err := models.NormalizeGrade(line)
		if err != nil {
			errorColor.Fprintln(s.out, "Invalid grade! Please try again.")
			continue
		}
		entry.Grade = grade
		break
	}

	for {
		credits, ok, err := s.promptInt("Enter credits: ")
		if !ok {
			return entry, false
		}
		if err != nil || credits <= 0 {
			errorColor.Fprintln(s.out, "Invalid credits! Please try again.")
			continue
		}
		entry.Credits = credits
		break
	}

	return entry, true
}
