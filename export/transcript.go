// Package export writes the ledger as an Excel transcript.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
)

const SummarySheet = "Summary"

// SemesterSheet names the sheet holding a semester's courses
func SemesterSheet(number int) string {
	return fmt.Sprintf("Semester %d", number)
}

type styles struct {
	header int
	gpa    int
}

// WriteTranscript writes an .xlsx workbook with a summary sheet followed by
// one sheet per semester.
func WriteTranscript(w io.Writer, l *ledger.Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	// built-in number format 2 is "0.00"
	if st.gpa, err = f.NewStyle(&excelize.Style{NumFmt: 2}); err != nil {
		return fmt.Errorf("failed to create gpa style: %w", err)
	}

	semesters := l.Semesters()
	if err := writeSummary(f, st, semesters, l.CGPA()); err != nil {
		return err
	}
	for _, sem := range semesters {
		if err := writeSemester(f, st, sem); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveTranscript writes the workbook to path
func SaveTranscript(path string, l *ledger.Ledger) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteTranscript(file, l); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeSummary(f *excelize.File, st styles, semesters []models.Semester, cgpa float64) error {
	sheet := SummarySheet
	if err := writeHeader(f, st, sheet, "Semester", "Courses", "Credits", "SGPA"); err != nil {
		return err
	}

	row := 2
	for _, sem := range semesters {
		if err := setRow(f, sheet, row, sem.Number, len(sem.Courses), sem.TotalCredits, models.RoundGPA(sem.SGPA)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(4, row), cell(4, row), st.gpa); err != nil {
			return err
		}
		row++
	}

	total := 0
	for _, sem := range semesters {
		total += sem.TotalCredits
	}
	if err := setRow(f, sheet, row, "CGPA", nil, total, models.RoundGPA(cgpa)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.header); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell(4, row), cell(4, row), st.gpa)
}

func writeSemester(f *excelize.File, st styles, sem models.Semester) error {
	sheet := SemesterSheet(sem.Number)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	if err := writeHeader(f, st, sheet, "Course", "Grade", "Credits", "Grade Point"); err != nil {
		return err
	}

	row := 2
	for _, c := range sem.Courses {
		if err := setRow(f, sheet, row, c.Name, c.Grade, c.Credits, c.GradePoint); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(sheet, cell(4, 2), cell(4, row-1), st.gpa); err != nil {
		return err
	}

	if err := setRow(f, sheet, row, "Total Credits", nil, sem.TotalCredits); err != nil {
		return err
	}
	if err := setRow(f, sheet, row+1, "SGPA", nil, nil, models.RoundGPA(sem.SGPA)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row+1), st.header); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell(4, row+1), cell(4, row+1), st.gpa)
}

func writeHeader(f *excelize.File, st styles, sheet string, headers ...string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values...); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), st.header)
}

// setRow writes values from column A onwards, skipping nils
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell(i+1, row), err)
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
