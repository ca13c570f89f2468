package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/cgpa_tracker/export"
	"github.com/nonsonwune/cgpa_tracker/importer"
	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
	"github.com/nonsonwune/cgpa_tracker/storage"
	"github.com/nonsonwune/cgpa_tracker/util"
)

// maxCoursePrealloc bounds the capacity hint taken from a typed course count
const maxCoursePrealloc = 64

// addSemester gathers every course before touching the ledger; leaving
// early discards what was typed.
func (s *Session) addSemester() {
	titleColor.Fprintln(s.out, "\n=== Add New Semester ===")

	number, ok, err := s.promptInt("Enter semester number: ")
	if !ok {
		return
	}
	if err != nil {
		errorColor.Fprintln(s.out, "Invalid input! Please enter a number.")
		return
	}
	if s.ledger.Has(number) {
		errorColor.Fprintf(s.out, "Semester %d already exists!\n", number)
		level.Debug(s.logger).Log("msg", "rejected duplicate semester", "semester", number)
		return
	}

	count, ok, err := s.promptInt("Enter number of courses: ")
	if !ok {
		return
	}
	if err != nil || count <= 0 {
		errorColor.Fprintln(s.out, "Invalid number of courses!")
		return
	}

	entries := make([]models.CourseEntry, 0, min(count, maxCoursePrealloc))
	for i := 0; i < count; i++ {
		s.printf("\nCourse %d:\n", i+1)
		entry, ok := s.promptCourse()
		if !ok {
			warnColor.Fprintf(s.out, "\nInput ended; semester %d discarded.\n", number)
			return
		}
		entries = append(entries, entry)
	}

	sem, err := s.ledger.AddSemester(number, entries)
	if err != nil {
		errorColor.Fprintf(s.out, "Could not add semester: %v\n", err)
		return
	}

	level.Info(s.logger).Log("msg", "semester added", "semester", sem.Number,
		"courses", len(sem.Courses), "sgpa", models.FormatGPA(sem.SGPA))
	successColor.Fprintln(s.out, "\nSemester added successfully!")
	s.printf("SGPA for Semester %d: %s\n", sem.Number, models.FormatGPA(sem.SGPA))
}

func (s *Session) displayAllSemesters() {
	if s.ledger.Len() == 0 {
		warnColor.Fprintln(s.out, "\nNo semesters added yet!")
		return
	}

	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 80))
	titleColor.Fprintln(s.out, "                        ACADEMIC RECORD")
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("=", 80))

	for _, sem := range s.ledger.Semesters() {
		warnColor.Fprintf(s.out, "\nSEMESTER %d\n", sem.Number)
		s.renderCourses(sem.Courses, true)
		s.printf("Total Credits: %d\n", sem.TotalCredits)
		s.printf("SGPA: %s\n", models.FormatGPA(sem.SGPA))
	}

	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 80))
	successColor.Fprintf(s.out, "CUMULATIVE CGPA: %s\n", models.FormatGPA(s.ledger.CGPA()))
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("=", 80))
}

func (s *Session) renderCourses(courses []models.Course, withPoints bool) {
	table := tablewriter.NewWriter(s.out)
	header := []string{"Course Name", "Grade", "Credits"}
	if withPoints {
		header = append(header, "Grade Points")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)

	for _, c := range courses {
		row := []string{c.Name, c.Grade, strconv.Itoa(c.Credits)}
		if withPoints {
			row = append(row, fmt.Sprintf("%.2f", c.GradePoint))
		}
		table.Append(row)
	}

	table.Render()
}

func (s *Session) displayCGPA() {
	if s.ledger.Len() == 0 {
		warnColor.Fprintln(s.out, "\nNo data available. Please add semesters first.")
		return
	}

	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 50))
	successColor.Fprintf(s.out, "Current CGPA: %s\n", models.FormatGPA(s.ledger.CGPA()))
	s.printf("Semesters: %d, Total Credits: %d\n", s.ledger.Len(), s.ledger.TotalCredits())
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("=", 50))
}

func (s *Session) deleteSemester() {
	if s.ledger.Len() == 0 {
		warnColor.Fprintln(s.out, "\nNo semesters to delete!")
		return
	}

	number, ok, err := s.promptInt("\nEnter semester number to delete: ")
	if !ok {
		return
	}
	if err != nil {
		errorColor.Fprintln(s.out, "Invalid input! Please enter a number.")
		return
	}

	if err := s.ledger.DeleteSemester(number); err != nil {
		if errors.Is(err, ledger.ErrSemesterNotFound) {
			errorColor.Fprintf(s.out, "Semester %d not found!\n", number)
			return
		}
		errorColor.Fprintf(s.out, "Error deleting semester: %v\n", err)
		return
	}

	level.Info(s.logger).Log("msg", "semester deleted", "semester", number)
	successColor.Fprintf(s.out, "Semester %d deleted successfully!\n", number)
}

func (s *Session) saveData(ctx context.Context) {
	err := util.TimeFunction(s.logger, "save", func() error {
		return s.store.Save(ctx, s.ledger)
	})
	if err != nil {
		errorColor.Fprintf(s.out, "Error: could not save data: %v\n", err)
		return
	}
	s.keepSource = false
	successColor.Fprintf(s.out, "\nData saved successfully to %s!\n", s.store)
}

// loadData replaces the ledger only when the whole source decodes
func (s *Session) loadData(ctx context.Context) {
	var loaded *ledger.Ledger
	err := util.TimeFunction(s.logger, "load", func() error {
		var err error
		loaded, err = s.store.Load(ctx)
		return err
	})

	switch {
	case err == nil:
		s.ledger = loaded
		s.keepSource = false
		successColor.Fprintf(s.out, "\nData loaded successfully from %s!\n", s.store)
	case errors.Is(err, storage.ErrFileUnreadable):
		warnColor.Fprintln(s.out, "No previous data found. Starting fresh.")
	default:
		errorColor.Fprintf(s.out, "Error: could not load data: %v\n", err)
		s.protectSource(ctx)
	}
}

// protectSource keeps a copy of stored data that failed to load, so a later
// save cannot silently destroy it. Without a copy the exit save asks first.
func (s *Session) protectSource(ctx context.Context) {
	if b, ok := s.store.(storage.Backuper); ok {
		path, err := b.Backup(ctx)
		if err == nil {
			warnColor.Fprintf(s.out, "A copy of the unreadable data was kept at %s.\n", path)
			level.Info(s.logger).Log("msg", "backed up unreadable data", "path", path)
			return
		}
		level.Warn(s.logger).Log("msg", "backup failed", "err", err)
	}
	s.keepSource = true
	warnColor.Fprintf(s.out, "%s will not be overwritten on exit without confirmation.\n", s.store)
}

func (s *Session) importCSV() {
	path, ok := s.prompt("Enter the CSV file path: ")
	if !ok {
		return
	}
	path = strings.TrimSpace(path)

	file, err := os.Open(path)
	if err != nil {
		errorColor.Fprintf(s.out, "Error opening file: %v\n", err)
		return
	}
	defer file.Close()

	imp := importer.NewSemesterImporter(importer.ImportConfig{
		Confirm: func(required, source string, confidence float64) bool {
			s.printf("\nPotential match found for column '%s':\n", required)
			s.printf("'%s' (confidence: %.2f%%)\n", source, confidence*100)
			return s.confirm("Accept this match?")
		},
	}, s.logger)

	var result *importer.ImportResult
	err = util.TimeFunction(s.logger, "import", func() error {
		var err error
		result, err = imp.Import(file, s.ledger)
		return err
	})
	if err != nil {
		errorColor.Fprintf(s.out, "Error importing data: %v\n", err)
		return
	}

	titleColor.Fprintf(s.out, "\nImport Summary (%d rows)\n", result.Rows)
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Semester", "Status", "Detail"})
	table.SetAutoWrapText(false)
	for _, number := range result.Added {
		sem, _ := s.ledger.Semester(number)
		table.Append([]string{strconv.Itoa(number), "added", "SGPA " + models.FormatGPA(sem.SGPA)})
	}
	for _, f := range result.Failed {
		table.Append([]string{strconv.Itoa(f.Semester), "rejected", f.Err.Error()})
	}
	for _, re := range result.RowErrors {
		table.Append([]string{"-", fmt.Sprintf("row %d skipped", re.Row), re.Err.Error()})
	}
	table.Render()

	if len(result.Added) > 0 {
		successColor.Fprintf(s.out, "Imported %d semester(s). Current CGPA: %s\n",
			len(result.Added), models.FormatGPA(s.ledger.CGPA()))
	} else {
		warnColor.Fprintln(s.out, "No semesters were imported.")
	}
}

func (s *Session) exportExcel() {
	if s.ledger.Len() == 0 {
		warnColor.Fprintln(s.out, "\nNo semesters to export!")
		return
	}

	path, ok := s.prompt(fmt.Sprintf("Enter output path [%s]: ", s.exportPath))
	if !ok {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = s.exportPath
	}

	err := util.TimeFunction(s.logger, "export", func() error {
		return export.SaveTranscript(path, s.ledger)
	})
	if err != nil {
		errorColor.Fprintf(s.out, "Error exporting transcript: %v\n", err)
		return
	}
	successColor.Fprintf(s.out, "Transcript exported to %s!\n", path)
}
