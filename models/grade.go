package models

import (
	"fmt"
	"strings"
)

// gradeScale lists the accepted grade tokens from highest to lowest
var gradeScale = []struct {
	Token string
	Point float64
}{
	{"A+", 10},
	{"A", 9},
	{"B+", 8},
	{"B", 7},
	{"C+", 6},
	{"C", 5},
	{"D", 4},
	{"F", 0},
}

var gradePoints = func() map[string]float64 {
	m := make(map[string]float64, len(gradeScale))
	for _, g := range gradeScale {
		m[g.Token] = g.Point
	}
	return m
}()

// Grades returns the accepted grade tokens in scale order
func Grades() []string {
	tokens := make([]string, len(gradeScale))
	for i, g := range gradeScale {
		tokens[i] = g.Token
	}
	return tokens
}

// NormalizeGrade returns the canonical upper-case form of a grade token.
// Lookup is case-insensitive and ignores surrounding whitespace.
func NormalizeGrade(token string) (string, error) {
	canonical := strings.ToUpper(strings.TrimSpace(token))
	if _, ok := gradePoints[canonical]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, token)
	}
	return canonical, nil
}

// GradePoint resolves a grade token to its point value on the 10-point scale
func GradePoint(token string) (float64, error) {
	canonical, err := NormalizeGrade(token)
	if err != nil {
		return 0, err
	}
	return gradePoints[canonical], nil
}
