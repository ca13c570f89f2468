// Package ledger holds a student's academic record: semesters in insertion
// order, unique by number, with a cumulative CGPA weighted by credits across
// every course.
package ledger

import (
	"fmt"

	"github.com/nonsonwune/cgpa_tracker/models"
)

type Ledger struct {
	semesters []*models.Semester
	cgpa      float64
}

func New() *Ledger {
	return &Ledger{}
}

// AddSemester validates every entry before touching the ledger, so a rejected
// semester leaves it unchanged.
func (l *Ledger) AddSemester(number int, entries []models.CourseEntry) (models.Semester, error) {
	if l.Has(number) {
		return models.Semester{}, fmt.Errorf("%w: %d", ErrDuplicateSemester, number)
	}
	if len(entries) == 0 {
		return models.Semester{}, fmt.Errorf("%w: semester %d has no courses", ErrInvalidCourseCount, number)
	}

	courses := make([]models.Course, 0, len(entries))
	for i, e := range entries {
		c, err := models.NewCourse(e.Name, e.Grade, e.Credits)
		if err != nil {
			return models.Semester{}, &CourseError{Semester: number, Position: i + 1, Err: err}
		}
		courses = append(courses, c)
	}

	sem := models.NewSemester(number, courses)
	l.semesters = append(l.semesters, sem)
	l.recompute()
	return sem.Clone(), nil
}

// DeleteSemester removes every semester carrying number
func (l *Ledger) DeleteSemester(number int) error {
	kept := l.semesters[:0]
	removed := 0
	for _, s := range l.semesters {
		if s.Number == number {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(l.semesters); i++ {
		l.semesters[i] = nil
	}
	l.semesters = kept

	if removed == 0 {
		return fmt.Errorf("%w: %d", ErrSemesterNotFound, number)
	}
	l.recompute()
	return nil
}

func (l *Ledger) Has(number int) bool {
	for _, s := range l.semesters {
		if s.Number == number {
			return true
		}
	}
	return false
}

func (l *Ledger) Semester(number int) (models.Semester, bool) {
	for _, s := range l.semesters {
		if s.Number == number {
			return s.Clone(), true
		}
	}
	return models.Semester{}, false
}

// Semesters returns copies of the semesters in insertion order
func (l *Ledger) Semesters() []models.Semester {
	out := make([]models.Semester, len(l.semesters))
	for i, s := range l.semesters {
		out[i] = s.Clone()
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.semesters)
}

// CGPA is 0 for an empty ledger
func (l *Ledger) CGPA() float64 {
	return l.cgpa
}

func (l *Ledger) TotalCredits() int {
	total := 0
	for _, s := range l.semesters {
		total += s.TotalCredits
	}
	return total
}

func (l *Ledger) recompute() {
	var all []models.Course
	for _, s := range l.semesters {
		all = append(all, s.Courses...)
	}
	l.cgpa, _ = models.WeightedAverage(all)
}
