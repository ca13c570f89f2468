package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCourseCount = errors.New("invalid number of courses")
	ErrDuplicateSemester  = errors.New("semester already exists")
	ErrSemesterNotFound   = errors.New("semester not found")
)

// CourseError reports which course of a semester was rejected
type CourseError struct {
	Semester int
	Position int // 1-based
	Err      error
}

func (e *CourseError) Error() string {
	return fmt.Sprintf("semester %d, course %d: %v", e.Semester, e.Position, e.Err)
}

func (e *CourseError) Unwrap() error {
	return e.Err
}
