package storage

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/models"
)

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	_, err := l.AddSemester(1, []models.CourseEntry{
		{Name: "Data Structures", Grade: "A+", Credits: 4},
		{Name: "Mathematics", Grade: "a", Credits: 3},
		{Name: "Physics", Grade: "B+", Credits: 3},
	})
	require.NoError(t, err)
	_, err = l.AddSemester(2, []models.CourseEntry{
		{Name: "Algorithms", Grade: "A+", Credits: 4},
		{Name: "Database Systems", Grade: "A", Credits: 3},
		{Name: "Operating Systems", Grade: "A", Credits: 4},
		{Name: "Computer Networks", Grade: "B+", Credits: 3},
	})
	require.NoError(t, err)
	return l
}

const sampleText = `2
1 3
Data Structures
A+ 4
Mathematics
A 3
Physics
B+ 3
2 4
Algorithms
A+ 4
Database Systems
A 3
Operating Systems
A 4
Computer Networks
B+ 3
`

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleLedger(t)))
	assert.Equal(t, sampleText, buf.String())
}

func TestEncodeEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ledger.New()))
	assert.Equal(t, "0\n", buf.String())
}

func TestDecodeRoundTrip(t *testing.T) {
	original := sampleLedger(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, original.Semesters(), decoded.Semesters())
	assert.Equal(t, original.CGPA(), decoded.CGPA())
	assert.Equal(t, "9.08", models.FormatGPA(decoded.CGPA()))
}

func TestDecodeRederivesGradePoints(t *testing.T) {
	text := "1\n7 2\nLinear Algebra\nc+ 2\nDiscrete Maths\nF 1\n"

	l, err := Decode(strings.NewReader(text))
	require.NoError(t, err)
	sem, ok := l.Semester(7)
	require.True(t, ok)
	assert.Equal(t, 6.0, sem.Courses[0].GradePoint)
	assert.Equal(t, "C+", sem.Courses[0].Grade)
	assert.Equal(t, 0.0, sem.Courses[1].GradePoint)
	assert.Equal(t, 3, sem.TotalCredits)
	assert.Equal(t, "4.00", models.FormatGPA(sem.SGPA))
}

func TestDecodeToleratesCRLFAndBlankLines(t *testing.T) {
	text := "1\r\n\r\n3 1\r\nCloud Computing\r\nA+ 3\r\n"

	l, err := Decode(strings.NewReader(text))
	require.NoError(t, err)
	sem, ok := l.Semester(3)
	require.True(t, ok)
	assert.Equal(t, "Cloud Computing", sem.Courses[0].Name)
}

func TestDecodeEmptyInput(t *testing.T) {
	l, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, l.Len())
	assert.Zero(t, l.CGPA())
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{"non-integer count", "two\n", 1},
		{"negative count", "-1\n", 1},
		{"non-integer semester number", "1\nx 1\nPhysics\nA 3\n", 2},
		{"header with one field", "1\n1\nPhysics\nA 3\n", 2},
		{"non-integer credits", "1\n1 1\nPhysics\nA three\n", 4},
		{"truncated before course", "1\n1 2\nPhysics\nA 3\n", 5},
		{"huge course count", "1\n1 99999999999999\nPhysics\nA 3\n", 5},
		{"truncated before semester", "2\n1 1\nPhysics\nA 3\n", 5},
		{"invalid grade token", "1\n1 1\nPhysics\nQ 3\n", 2},
		{"zero credits", "1\n1 1\nPhysics\nA 0\n", 2},
		{"zero courses", "1\n1 0\n", 2},
		{"duplicate semester", "2\n1 1\nPhysics\nA 3\n1 1\nChemistry\nB 3\n", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.text))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedData)

			var malformed *MalformedDataError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantLine, malformed.Line)
		})
	}
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cgpa_data.txt")
	store := NewFileStore(path)

	original := sampleLedger(t)
	require.NoError(t, store.Save(ctx, original))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.Semesters(), loaded.Semesters())
	assert.Equal(t, original.CGPA(), loaded.CGPA())
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.txt"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrFileUnreadable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileStoreLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\nnot a header\n"), 0644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformedData)
	assert.NotErrorIs(t, err, ErrFileUnreadable)
}

func TestFileStoreSaveUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "cgpa_data.txt")

	err := NewFileStore(path).Save(context.Background(), sampleLedger(t))
	assert.ErrorIs(t, err, ErrFileUnwritable)
}

func TestNewFileStoreDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultDataFile, NewFileStore("").Path())
}

func TestFileStoreBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cgpa_data.txt")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0644))

	backup, err := NewFileStore(path).Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "garbage\n", string(data))

	_, err = NewFileStore(filepath.Join(t.TempDir(), "absent.txt")).Backup(ctx)
	assert.ErrorIs(t, err, ErrFileUnreadable)
}
