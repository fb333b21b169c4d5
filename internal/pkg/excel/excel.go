// Package excel reads and writes the spreadsheets exchanged with the secretariat.
package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidWorkbook is returned when the content cannot be opened as a workbook
var ErrInvalidWorkbook = errors.New("file is not a valid Excel workbook")

const examSheet = "Examene"

var examHeaders = []string{
	"Disciplina", "Abreviere", "Program de studiu", "An", "Grupa", "Cadru didactic", "Email",
	"Data", "Ora început", "Ora sfârșit", "Durata (ore)", "Săli", "Status",
}

// ExportExams renders exams into a single-sheet workbook
func ExportExams(exams []*models.Exam) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", examSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range examHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(examSheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(examHeaders), 1)
	if err := f.SetCellStyle(examSheet, "A1", last, header); err != nil {
		return nil, err
	}

	for r, e := range exams {
		row := []interface{}{
			e.SubjectName,
			e.SubjectShortName,
			deref(e.StudyProgram),
			intOrEmpty(e.StudyYear),
			e.GroupName,
			e.TeacherName(),
			e.TeacherEmail,
			deref(helpers.FormatDate(e.Date)),
			deref(e.StartTime),
			deref(e.EndTime),
			e.DurationHours(),
			strings.Join(e.RoomNames, ", "),
			string(statusOf(e)),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(examSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(examSheet, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(examSheet, "F", "G", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateWorkbook checks that content opens as an OOXML workbook
func ValidateWorkbook(content []byte) error {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	if len(f.GetSheetList()) == 0 {
		return ErrInvalidWorkbook
	}
	return nil
}

// GroupLeader is one row of a group-leader import sheet
type GroupLeader struct {
	Row       int
	LastName  string
	FirstName string
	Email     string
	GroupName string
}

var leaderColumns = []string{"Nume", "Prenume", "Email", "Grupa"}

// ParseGroupLeaders reads the first sheet of r. The header row must contain the columns
// Nume, Prenume, Email and Grupa; rows missing any of them are skipped.
func ParseGroupLeaders(r io.Reader) ([]GroupLeader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(leaderColumns, ", "))
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range leaderColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	leaders := []GroupLeader{}
	for n, row := range rows[1:] {
		l := GroupLeader{
			Row:       n + 2,
			LastName:  cell(row, "Nume"),
			FirstName: cell(row, "Prenume"),
			Email:     cell(row, "Email"),
			GroupName: cell(row, "Grupa"),
		}
		if l.LastName == "" || l.FirstName == "" || l.Email == "" || l.GroupName == "" {
			continue
		}
		leaders = append(leaders, l)
	}
	return leaders, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func statusOf(e *models.Exam) models.ScheduleStatus {
	if e.Status == nil {
		return ""
	}
	return *e.Status
}
