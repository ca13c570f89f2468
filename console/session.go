// Package console runs the interactive CGPA menu over any reader and writer.
package console

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/storage"
)

// Menu choices
const (
	ChoiceAddSemester    = 1
	ChoiceDisplayAll     = 2
	ChoiceDisplayCGPA    = 3
	ChoiceDeleteSemester = 4
	ChoiceSave           = 5
	ChoiceLoad           = 6
	ChoiceSampleCases    = 7
	ChoiceExit           = 8
	ChoiceImportCSV      = 9
	ChoiceExportExcel    = 10
)

var (
	titleColor   = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// Session owns the ledger for the lifetime of one interactive run
type Session struct {
	in         *bufio.Scanner
	out        io.Writer
	store      storage.Store
	ledger     *ledger.Ledger
	logger     gokitlog.Logger
	exportPath string
	// keepSource is set when stored data failed to load and no copy of it
	// could be made
	keepSource bool
}

func NewSession(in io.Reader, out io.Writer, store storage.Store, logger gokitlog.Logger, exportPath string) *Session {
	if logger == nil {
		logger = gokitlog.NewNopLogger()
	}
	if exportPath == "" {
		exportPath = "transcript.xlsx"
	}
	return &Session{
		in:         bufio.NewScanner(in),
		out:        out,
		store:      store,
		ledger:     ledger.New(),
		logger:     logger,
		exportPath: exportPath,
	}
}

// Ledger returns the ledger currently held by the session
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Run loads the stored ledger and serves the menu until Exit or end of input.
// Leaving always attempts a save.
func (s *Session) Run(ctx context.Context) {
	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("*", 50))
	titleColor.Fprintln(s.out, "      WELCOME TO CGPA CALCULATOR")
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("*", 50))
	level.Info(s.logger).Log("msg", "session started", "store", s.store.String())

	s.loadData(ctx)

	for {
		s.displayMenu()
		line, ok := s.readLine()
		if !ok {
			s.printf("\n")
			s.exit(ctx)
			return
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			errorColor.Fprintln(s.out, "\nInvalid input! Please enter a number.")
			continue
		}

		switch choice {
		case ChoiceAddSemester:
			s.addSemester()
		case ChoiceDisplayAll:
			s.displayAllSemesters()
		case ChoiceDisplayCGPA:
			s.displayCGPA()
		case ChoiceDeleteSemester:
			s.deleteSemester()
		case ChoiceSave:
			s.saveData(ctx)
		case ChoiceLoad:
			s.loadData(ctx)
		case ChoiceSampleCases:
			s.displaySampleCases()
		case ChoiceExit:
			s.exit(ctx)
			return
		case ChoiceImportCSV:
			s.importCSV()
		case ChoiceExportExcel:
			s.exportExcel()
		default:
			errorColor.Fprintln(s.out, "\nInvalid choice! Please try again.")
		}
	}
}

func (s *Session) displayMenu() {
	titleColor.Fprintf(s.out, "\n%s\n", strings.Repeat("=", 50))
	titleColor.Fprintln(s.out, "          CGPA CALCULATOR - MAIN MENU")
	titleColor.Fprintf(s.out, "%s\n", strings.Repeat("=", 50))
	s.printf("1. Add New Semester\n")
	s.printf("2. Display All Semesters\n")
	s.printf("3. Display Current CGPA\n")
	s.printf("4. Delete a Semester\n")
	s.printf("5. Save Data to File\n")
	s.printf("6. Load Data from File\n")
	s.printf("7. View Sample Test Cases\n")
	s.printf("8. Exit\n")
	s.printf("9. Import Semesters from CSV\n")
	s.printf("10. Export Transcript to Excel\n")
	s.printf("%s\n", strings.Repeat("=", 50))
	s.printf("Enter your choice: ")
}

func (s *Session) exit(ctx context.Context) {
	if s.keepSource && !s.confirm("\nStored data could not be loaded. Overwrite it with the current records?") {
		warnColor.Fprintf(s.out, "\nData not saved; %s left unchanged.\n", s.store)
		successColor.Fprintln(s.out, "Thank you for using CGPA Calculator!")
		level.Warn(s.logger).Log("msg", "session ended without saving", "semesters", s.ledger.Len())
		return
	}

	warnColor.Fprintln(s.out, "\nSaving data before exit...")
	s.saveData(ctx)
	successColor.Fprintln(s.out, "Thank you for using CGPA Calculator!")
	level.Info(s.logger).Log("msg", "session ended", "semesters", s.ledger.Len())
}
