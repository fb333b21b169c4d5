// Package pdf renders exam listings as PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
)

type column struct {
	title string
	width float64
	value func(e *models.Exam) string
}

var columns = []column{
	{"Disciplina", 70, func(e *models.Exam) string { return e.SubjectName }},
	{"Grupa", 20, func(e *models.Exam) string { return e.GroupName }},
	{"Cadru didactic", 50, func(e *models.Exam) string { return e.TeacherName() }},
	{"Data", 25, func(e *models.Exam) string { return orDash(helpers.FormatDate(e.Date)) }},
	{"Interval", 28, func(e *models.Exam) string {
		if e.StartTime == nil || e.EndTime == nil {
			return "-"
		}
		return *e.StartTime + "-" + *e.EndTime
	}},
	{"Sali", 44, func(e *models.Exam) string {
		if len(e.RoomNames) == 0 {
			return "-"
		}
		return strings.Join(e.RoomNames, ", ")
	}},
	{"Status", 40, func(e *models.Exam) string {
		if e.Status == nil {
			return "-"
		}
		return string(*e.Status)
	}},
}

// Core fonts only cover cp1252, so Romanian diacritics are folded to ASCII.
var diacritics = strings.NewReplacer(
	"ă", "a", "â", "a", "î", "i", "ș", "s", "ş", "s", "ț", "t", "ţ", "t",
	"Ă", "A", "Â", "A", "Î", "I", "Ș", "S", "Ş", "S", "Ț", "T", "Ţ", "T",
)

// ExportExams renders exams as an A4 landscape table. generatedAt is printed in the header.
func ExportExams(exams []*models.Exam, generatedAt time.Time) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(diacritics.Replace(s)) }

	doc.SetTitle("Programare examene", true)
	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 8, fmt.Sprintf("Pagina %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AliasNbPages("")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, text("Programare examene"), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, "Generat la "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	doc.Ln(2)

	header := func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(217, 225, 242)
		for _, c := range columns {
			doc.CellFormat(c.width, 7, text(c.title), "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	for _, e := range exams {
		if doc.GetY()+6 > pageHeight-bottom-12 {
			doc.AddPage()
			header()
		}
		for _, c := range columns {
			doc.CellFormat(c.width, 6, truncate(doc, text(c.value(e)), c.width-2), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	if len(exams) == 0 {
		doc.CellFormat(0, 8, "Nu exista examene pentru filtrele selectate.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(doc *fpdf.Fpdf, s string, width float64) string {
	if doc.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && doc.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
