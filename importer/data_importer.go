package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
)

// Logical columns every import file must provide
const (
	ColumnSemester = "semester"
	ColumnCourse   = "course"
	ColumnGrade    = "grade"
	ColumnCredits  = "credits"
)

var RequiredColumns = []string{ColumnSemester, ColumnCourse, ColumnGrade, ColumnCredits}

// Header spellings accepted without fuzzy matching, already normalized
var columnAliases = map[string][]string{
	ColumnSemester: {"semester", "sem", "semesterno", "semesternumber", "term"},
	ColumnCourse:   {"course", "coursename", "name", "subject", "title"},
	ColumnGrade:    {"grade", "lettergrade", "result"},
	ColumnCredits:  {"credits", "credit", "units", "unit", "credithours", "creditunits"},
}

var ErrMissingColumns = errors.New("missing required columns")

// ImportConfig holds the configuration for a semester import
type ImportConfig struct {
	// Confirm is asked about fuzzy header matches below the auto-accept
	// threshold. When nil such matches are rejected.
	Confirm func(required, source string, confidence float64) bool
}

// ColumnMatch represents a potential column match with confidence score
type ColumnMatch struct {
	SourceColumn      string
	SourceIndex       int
	DestinationColumn string
	Confidence        float64
}

// SemesterFailure records a semester that was not added
type SemesterFailure struct {
	Semester int
	Err      error
}

// RowError records a row that could not be attributed to a semester
type RowError struct {
	Row int
	Err error
}

// ImportResult summarises an import
type ImportResult struct {
	Rows      int
	Added     []int
	Failed    []SemesterFailure
	RowErrors []RowError
	Mapping   map[string]string
}

// SemesterImporter adds whole semesters to a ledger from CSV rows of
// semester, course, grade and credits.
type SemesterImporter struct {
	config ImportConfig
	logger gokitlog.Logger
}

func NewSemesterImporter(config ImportConfig, logger gokitlog.Logger) *SemesterImporter {
	if logger == nil {
		logger = gokitlog.NewNopLogger()
	}
	return &SemesterImporter{config: config, logger: logger}
}

type semesterGroup struct {
	number  int
	entries []models.CourseEntry
	err     error
}

// Import reads every row before touching the ledger. Each semester is then
// added through the ledger, so a semester is either added whole or not at all.
func (si *SemesterImporter) Import(r io.Reader, l *ledger.Ledger) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("error reading headers: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading headers: %w", err)
	}

	columns, err := si.mapHeaders(headers)
	if err != nil {
		return nil, fmt.Errorf("header validation failed: %w", err)
	}

	result := &ImportResult{Mapping: make(map[string]string, len(columns))}
	for required, idx := range columns {
		result.Mapping[required] = headers[idx]
	}

	var order []int
	groups := make(map[int]*semesterGroup)

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNum, err)
		}
		if isBlank(record) {
			continue
		}
		result.Rows++

		number, err := strconv.Atoi(field(record, columns[ColumnSemester]))
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				Row: rowNum,
				Err: fmt.Errorf("invalid semester number %q", field(record, columns[ColumnSemester])),
			})
			continue
		}

		g, ok := groups[number]
		if !ok {
			g = &semesterGroup{number: number}
			groups[number] = g
			order = append(order, number)
		}
		if g.err != nil {
			continue
		}

		credits, err := strconv.Atoi(field(record, columns[ColumnCredits]))
		if err != nil {
			g.err = fmt.Errorf("row %d: %w: %q is not an integer", rowNum, models.ErrInvalidCredits, field(record, columns[ColumnCredits]))
			continue
		}

		g.entries = append(g.entries, models.CourseEntry{
			Name:    field(record, columns[ColumnCourse]),
			Grade:   field(record, columns[ColumnGrade]),
			Credits: credits,
		})
	}

	for _, number := range order {
		g := groups[number]
		if g.err != nil {
			si.fail(result, number, g.err)
			continue
		}
		sem, err := l.AddSemester(number, g.entries)
		if err != nil {
			si.fail(result, number, err)
			continue
		}
		result.Added = append(result.Added, number)
		level.Info(si.logger).Log("msg", "imported semester", "semester", number,
			"courses", len(sem.Courses), "sgpa", models.FormatGPA(sem.SGPA))
	}

	for _, re := range result.RowErrors {
		level.Warn(si.logger).Log("msg", "skipped row", "row", re.Row, "err", re.Err)
	}

	return result, nil
}

func (si *SemesterImporter) fail(result *ImportResult, number int, err error) {
	result.Failed = append(result.Failed, SemesterFailure{Semester: number, Err: err})
	level.Warn(si.logger).Log("msg", "semester not imported", "semester", number, "err", err)
}

// mapHeaders resolves each required column to a header index: aliases first,
// then fuzzy matching over the headers not yet claimed.
func (si *SemesterImporter) mapHeaders(headers []string) (map[string]int, error) {
	columns := make(map[string]int, len(RequiredColumns))
	used := make(map[int]bool)

	for _, required := range RequiredColumns {
		for i, h := range headers {
			if !used[i] && isAlias(required, normalizeColumn(h)) {
				columns[required] = i
				used[i] = true
				break
			}
		}
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := columns[required]; ok {
			continue
		}

		matches := findBestColumnMatch(required, headers, used)
		found := false
		if len(matches) > 0 {
			best := matches[0]
			switch {
			case best.Confidence > 0.8:
				found = true
			case si.config.Confirm != nil:
				found = si.config.Confirm(required, best.SourceColumn, best.Confidence)
			}
			if found {
				columns[required] = best.SourceIndex
				used[best.SourceIndex] = true
				level.Info(si.logger).Log("msg", "mapped column", "required", required,
					"source", best.SourceColumn, "confidence", fmt.Sprintf("%.2f", best.Confidence))
			}
		}

		if !found {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}
	return columns, nil
}

// findBestColumnMatch scores the unclaimed headers against a required column
// and returns those above 60% similarity, best first.
func findBestColumnMatch(required string, headers []string, used map[int]bool) []ColumnMatch {
	matches := make([]ColumnMatch, 0)
	normalizedDest := normalizeColumn(required)

	for i, h := range headers {
		if used[i] {
			continue
		}
		normalizedSource := normalizeColumn(h)
		if normalizedSource == "" {
			continue
		}

		best := 0.0
		for _, alias := range append([]string{normalizedDest}, columnAliases[required]...) {
			distance := levenshteinDistance(normalizedSource, alias)
			maxLen := float64(max(len(normalizedSource), len(alias)))
			if confidence := 1.0 - float64(distance)/maxLen; confidence > best {
				best = confidence
			}
		}

		if best > 0.6 {
			matches = append(matches, ColumnMatch{
				SourceColumn:      h,
				SourceIndex:       i,
				DestinationColumn: required,
				Confidence:        best,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	return matches
}

func normalizeColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

func isAlias(required, normalized string) bool {
	for _, alias := range columnAliases[required] {
		if alias == normalized {
			return true
		}
	}
	return false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			if s1[i-1] == s2[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = min(
					matrix[i-1][j]+1,   // deletion
					matrix[i][j-1]+1,   // insertion
					matrix[i-1][j-1]+1, // substitution
				)
			}
		}
	}

	return matrix[len(s1)][len(s2)]
}
