package models

import (
	"fmt"
	"strings"
)

// Course represents a single graded course
type Course struct {
	Name       string  `db:"course_name" json:"name"`
	Grade      string  `db:"grade" json:"grade"`
	Credits    int     `db:"credits" json:"credits"`
	GradePoint float64 `db:"-" json:"grade_point"`
}

// CourseEntry is the raw (name, grade, credits) triple supplied by a user or a file
type CourseEntry struct {
	Name    string
	Grade   string
	Credits int
}

// ValidateCourseName trims a course name and rejects empty ones.
// Names are written on their own line when persisted, so line breaks are rejected too.
func ValidateCourseName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.ContainsAny(name, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidCourseName, name)
	}
	return trimmed, nil
}

// NewCourse validates an entry and resolves its grade point
func NewCourse(name, grade string, credits int) (Course, error) {
	trimmed, err := ValidateCourseName(name)
	if err != nil {
		return Course{}, err
	}

	canonical, err := NormalizeGrade(grade)
	if err != nil {
		return Course{}, err
	}

	if credits <= 0 {
		return Course{}, fmt.Errorf("%w: %d", ErrInvalidCredits, credits)
	}

	return Course{
		Name:       trimmed,
		Grade:      canonical,
		Credits:    credits,
		GradePoint: gradePoints[canonical],
	}, nil
}

// QualityPoints is the grade point weighted by credits
func (c Course) QualityPoints() float64 {
	return c.GradePoint * float64(c.Credits)
}
