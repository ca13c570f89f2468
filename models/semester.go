package models

// Semester represents one semester of graded courses.
// SGPA and TotalCredits are derived from Courses and refreshed by Recompute.
type Semester struct {
	Number       int      `db:"semester_number" json:"number"`
	Courses      []Course `db:"-" json:"courses"`
	SGPA         float64  `db:"-" json:"sgpa"`
	TotalCredits int      `db:"-" json:"total_credits"`
}

func NewSemester(number int, courses []Course) *Semester {
	s := &Semester{
		Number:  number,
		Courses: append([]Course(nil), courses...),
	}
	s.Recompute()
	return s
}

func (s *Semester) Recompute() {
	s.SGPA, s.TotalCredits = WeightedAverage(s.Courses)
}

// Clone returns a copy that shares no course storage with s
func (s *Semester) Clone() Semester {
	c := *s
	c.Courses = append([]Course(nil), s.Courses...)
	return c
}

// WeightedAverage returns the credit-weighted grade point average of courses
// and their total credits. The average is 0 when there are no credits.
func WeightedAverage(courses []Course) (float64, int) {
	var points float64
	var credits int
	for _, c := range courses {
		points += c.QualityPoints()
		credits += c.Credits
	}
	if credits == 0 {
		return 0, 0
	}
	return points / float64(credits), credits
}
