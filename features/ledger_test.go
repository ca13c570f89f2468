package features

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
	"github.com/nonsonwune/cgpa_tracker/storage"
)

type ledgerTestContext struct {
	ledger   *ledger.Ledger
	reloaded *ledger.Ledger
	err      error
}

func (c *ledgerTestContext) reset() {
	c.ledger = ledger.New()
	c.reloaded = nil
	c.err = nil
}

func (c *ledgerTestContext) anEmptyLedger() error {
	c.ledger = ledger.New()
	return nil
}

func (c *ledgerTestContext) semesterContains(number int, name, grade string, credits int) error {
	_, err := c.ledger.AddSemester(number, []models.CourseEntry{{Name: name, Grade: grade, Credits: credits}})
	return err
}

func (c *ledgerTestContext) iAddSemesterWithCourses(number int, table *godog.Table) error {
	if len(table.Rows) < 1 {
		return errors.New("course table needs a header row")
	}

	entries := make([]models.CourseEntry, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != 3 {
			return fmt.Errorf("expected 3 cells, got %d", len(row.Cells))
		}
		credits, err := strconv.Atoi(row.Cells[2].Value)
		if err != nil {
			return fmt.Errorf("credits cell: %w", err)
		}
		entries = append(entries, models.CourseEntry{
			Name:    row.Cells[0].Value,
			Grade:   row.Cells[1].Value,
			Credits: credits,
		})
	}

	_, c.err = c.ledger.AddSemester(number, entries)
	return nil
}

func (c *ledgerTestContext) iDeleteSemester(number int) error {
	c.err = c.ledger.DeleteSemester(number)
	return nil
}

func (c *ledgerTestContext) iSaveAndReloadTheLedger() error {
	var buf bytes.Buffer
	if err := storage.Encode(&buf, c.ledger); err != nil {
		return err
	}
	reloaded, err := storage.Decode(&buf)
	if err != nil {
		return err
	}
	c.reloaded = reloaded
	return nil
}

func (c *ledgerTestContext) theSemesterIsAccepted() error {
	if c.err != nil {
		return fmt.Errorf("expected semester to be accepted but got: %v", c.err)
	}
	return nil
}

func (c *ledgerTestContext) theSemesterIsRejectedAsADuplicate() error {
	if !errors.Is(c.err, ledger.ErrDuplicateSemester) {
		return fmt.Errorf("expected duplicate semester error, got %v", c.err)
	}
	return nil
}

func (c *ledgerTestContext) theSemesterIsRejectedAs(reason string) error {
	if c.err == nil {
		return errors.New("expected semester to be rejected")
	}
	if !strings.Contains(c.err.Error(), reason) {
		return fmt.Errorf("expected error containing %q, got %q", reason, c.err.Error())
	}
	return nil
}

func (c *ledgerTestContext) theDeletionFailsAsNotFound() error {
	if !errors.Is(c.err, ledger.ErrSemesterNotFound) {
		return fmt.Errorf("expected semester not found, got %v", c.err)
	}
	return nil
}

func (c *ledgerTestContext) semesterHasSGPAOverCredits(number int, sgpa string, credits int) error {
	sem, ok := c.ledger.Semester(number)
	if !ok {
		return fmt.Errorf("semester %d not found", number)
	}
	if got := models.FormatGPA(sem.SGPA); got != sgpa {
		return fmt.Errorf("expected SGPA %s, got %s", sgpa, got)
	}
	if sem.TotalCredits != credits {
		return fmt.Errorf("expected %d credits, got %d", credits, sem.TotalCredits)
	}
	return nil
}

func (c *ledgerTestContext) theCGPAIs(cgpa string) error {
	if got := models.FormatGPA(c.ledger.CGPA()); got != cgpa {
		return fmt.Errorf("expected CGPA %s, got %s", cgpa, got)
	}
	return nil
}

func (c *ledgerTestContext) theLedgerHoldsSemesters(n int) error {
	if c.ledger.Len() != n {
		return fmt.Errorf("expected %d semesters, got %d", n, c.ledger.Len())
	}
	return nil
}

func (c *ledgerTestContext) theReloadedLedgerMatchesTheOriginal() error {
	if c.reloaded == nil {
		return errors.New("ledger was not reloaded")
	}
	want, got := c.ledger.Semesters(), c.reloaded.Semesters()
	if len(want) != len(got) {
		return fmt.Errorf("expected %d semesters, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].Number != got[i].Number || want[i].SGPA != got[i].SGPA || len(want[i].Courses) != len(got[i].Courses) {
			return fmt.Errorf("semester %d differs after reload", want[i].Number)
		}
		for j := range want[i].Courses {
			if want[i].Courses[j] != got[i].Courses[j] {
				return fmt.Errorf("semester %d course %d differs after reload", want[i].Number, j+1)
			}
		}
	}
	if c.ledger.CGPA() != c.reloaded.CGPA() {
		return fmt.Errorf("expected CGPA %v, got %v", c.ledger.CGPA(), c.reloaded.CGPA())
	}
	return nil
}

func (c *ledgerTestContext) theSemesterOrderIs(order string) error {
	var got []string
	for _, s := range c.reloaded.Semesters() {
		got = append(got, strconv.Itoa(s.Number))
	}
	if strings.Join(got, ", ") != order {
		return fmt.Errorf("expected order %s, got %s", order, strings.Join(got, ", "))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty ledger$`, tc.anEmptyLedger)
	ctx.Step(`^semester (-?\d+) contains "([^"]*)" graded "([^"]*)" worth (-?\d+) credits$`, tc.semesterContains)

	// When steps
	ctx.Step(`^I add semester (-?\d+) with courses:$`, tc.iAddSemesterWithCourses)
	ctx.Step(`^I delete semester (-?\d+)$`, tc.iDeleteSemester)
	ctx.Step(`^I save and reload the ledger$`, tc.iSaveAndReloadTheLedger)

	// Then steps
	ctx.Step(`^the semester is accepted$`, tc.theSemesterIsAccepted)
	ctx.Step(`^the semester is rejected as a duplicate$`, tc.theSemesterIsRejectedAsADuplicate)
	ctx.Step(`^the semester is rejected as "([^"]*)"$`, tc.theSemesterIsRejectedAs)
	ctx.Step(`^the deletion fails as not found$`, tc.theDeletionFailsAsNotFound)
	ctx.Step(`^semester (-?\d+) has SGPA "([^"]*)" over (\d+) credits$`, tc.semesterHasSGPAOverCredits)
	ctx.Step(`^the CGPA is "([^"]*)"$`, tc.theCGPAIs)
	ctx.Step(`^the ledger holds (\d+) semesters$`, tc.theLedgerHoldsSemesters)
	ctx.Step(`^the reloaded ledger matches the original$`, tc.theReloadedLedgerMatchesTheOriginal)
	ctx.Step(`^the semester order is ([\d, ]+)$`, tc.theSemesterOrderIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"ledger.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
