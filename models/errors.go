package models

import "errors"

var (
	ErrInvalidGrade      = errors.New("invalid grade")
	ErrInvalidCredits    = errors.New("invalid credits")
	ErrInvalidCourseName = errors.New("invalid course name")
)
