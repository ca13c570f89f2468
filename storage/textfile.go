package storage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nonsonwune/cgpa_tracker/config"
	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
)

// DefaultDataFile is used when no path is configured
const DefaultDataFile = config.DefaultDataFile

// maxCoursePrealloc bounds the capacity hint taken from a course count,
// which comes from the file and cannot be trusted.
const maxCoursePrealloc = 64

// Encode writes the ledger in the line-oriented text format:
//
//	<semesterCount>
//	<semesterNumber> <courseCount>
//	<courseName>
//	<gradeToken> <credits>
//
// with the last two lines repeated per course and the block repeated per semester.
func Encode(w io.Writer, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)
	sems := l.Semesters()

	fmt.Fprintf(bw, "%d\n", len(sems))
	for _, s := range sems {
		fmt.Fprintf(bw, "%d %d\n", s.Number, len(s.Courses))
		for _, c := range s.Courses {
			fmt.Fprintf(bw, "%s\n", c.Name)
			fmt.Fprintf(bw, "%s %d\n", c.Grade, c.Credits)
		}
	}
	return bw.Flush()
}

// Decode parses the text format. Grade points are derived from the grade
// tokens and every semester passes through ledger validation, so a decoded
// ledger satisfies the same invariants as one built interactively.
// An empty input yields an empty ledger.
func Decode(r io.Reader) (*ledger.Ledger, error) {
	lr := newLineReader(r)
	l := ledger.New()

	fields, err := lr.fields(1)
	if err == io.EOF {
		return l, nil
	}
	if err != nil {
		return nil, err
	}
	count, err := lr.count(fields[0], "semester count")
	if err != nil {
		return nil, err
	}

	for i := 0; i < count; i++ {
		header, err := lr.fields(2)
		if err != nil {
			return nil, lr.eofAsMalformed(err, "semester header")
		}
		headerLine := lr.line
		number, err := lr.integer(header[0], "semester number")
		if err != nil {
			return nil, err
		}
		courseCount, err := lr.count(header[1], "course count")
		if err != nil {
			return nil, err
		}

		entries := make([]models.CourseEntry, 0, min(courseCount, maxCoursePrealloc))
		for j := 0; j < courseCount; j++ {
			name, err := lr.next()
			if err != nil {
				return nil, lr.eofAsMalformed(err, "course name")
			}
			gradeLine, err := lr.fields(2)
			if err != nil {
				return nil, lr.eofAsMalformed(err, "grade and credits")
			}
			credits, err := lr.integer(gradeLine[1], "credits")
			if err != nil {
				return nil, err
			}
			entries = append(entries, models.CourseEntry{Name: name, Grade: gradeLine[0], Credits: credits})
		}

		if _, err := l.AddSemester(number, entries); err != nil {
			return nil, &MalformedDataError{Line: headerLine, Reason: fmt.Sprintf("semester %d rejected", number), Err: err}
		}
	}

	return l, nil
}

type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineReader{scanner: s}
}

// next returns the following line verbatim, minus any carriage return
func (lr *lineReader) next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", &MalformedDataError{Line: lr.line + 1, Reason: "read failed", Err: err}
		}
		return "", io.EOF
	}
	lr.line++
	return strings.TrimRight(lr.scanner.Text(), "\r"), nil
}

// fields skips blank lines and splits the next one into exactly n fields
func (lr *lineReader) fields(n int) ([]string, error) {
	for {
		text, err := lr.next()
		if err != nil {
			return nil, err
		}
		f := strings.Fields(text)
		if len(f) == 0 {
			continue
		}
		if len(f) != n {
			return nil, &MalformedDataError{Line: lr.line, Reason: fmt.Sprintf("expected %d fields, got %d", n, len(f))}
		}
		return f, nil
	}
}

func (lr *lineReader) integer(s, what string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &MalformedDataError{Line: lr.line, Reason: fmt.Sprintf("%s %q is not an integer", what, s)}
	}
	return v, nil
}

func (lr *lineReader) count(s, what string) (int, error) {
	v, err := lr.integer(s, what)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &MalformedDataError{Line: lr.line, Reason: fmt.Sprintf("%s %d is negative", what, v)}
	}
	return v, nil
}

func (lr *lineReader) eofAsMalformed(err error, expecting string) error {
	if err == io.EOF {
		return &MalformedDataError{Line: lr.line + 1, Reason: "unexpected end of data, expecting " + expecting}
	}
	return err
}

// FileStore persists the ledger to a single text file
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return l, nil
}

func (s *FileStore) Save(ctx context.Context, l *ledger.Ledger) error {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
	}
	return nil
}

// Backup copies the current file to <path>.bak and returns the copy's path
func (s *FileStore) Backup(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	backup := s.path + ".bak"
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileUnwritable, err)
	}
	return backup, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) String() string {
	return s.path
}
