package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"jobpack/internal/document"
)

const sheetName = "Job Pack"

// Workbook writes the sections down a single XLSX sheet, one block per section.
type Workbook struct{}

func (Workbook) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (Workbook) Extension() string { return "xlsx" }

func (Workbook) Render(w io.Writer, sections []document.Section, _ document.Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	ws := &sheetWriter{f: f, row: 1}
	for _, s := range sections {
		switch s := s.(type) {
		case document.Heading:
			if s.Level > 1 {
				ws.row++
			}
			style := st.heading
			if s.Level <= 1 {
				style = st.title
			}
			ws.line(style, s.Text)
		case document.Paragraph:
			style := 0
			if s.Style == document.StyleMuted {
				style = st.muted
			}
			ws.line(style, s.Text)
		case document.NumberedList:
			for i, item := range s.Items {
				ws.line(0, i+1, item)
			}
			ws.more(st.muted, s.Overflow)
		case document.BulletList:
			if s.Title != "" {
				ws.line(st.bold, s.Title)
			}
			for _, item := range s.Items {
				ws.line(0, s.Polarity.Marker(), item)
			}
			ws.more(st.muted, s.Overflow)
		case document.Table:
			if len(s.Columns) > 0 {
				ws.line(st.bold, toAny(s.Columns)...)
			}
			for _, r := range s.Rows {
				ws.line(0, toAny(r)...)
			}
			if len(s.Totals) > 0 {
				ws.line(st.bold, toAny(s.Totals)...)
			}
			ws.more(st.muted, s.Overflow)
		case document.HighlightBox:
			ws.line(st.bold, s.Title, s.Value)
			if s.Note != "" {
				ws.line(st.muted, s.Note)
			}
		case document.SignatureBlock:
			ws.row++
			ws.line(0, s.Statement)
			for _, name := range s.Signatories {
				ws.line(0, name, "Signature:", "Date:")
			}
		case document.Footer:
			ws.row++
			ws.line(st.muted, s.Reference, s.Text)
		}
	}
	if ws.err != nil {
		return fmt.Errorf("write sheet: %w", ws.err)
	}

	for col, width := range map[string]float64{"A": 26, "B": 70, "C": 14, "D": 16} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	title, heading, bold, muted int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	defs := []struct {
		dst  *int
		font excelize.Font
	}{
		{&st.title, excelize.Font{Bold: true, Size: 16, Color: "142D50"}},
		{&st.heading, excelize.Font{Bold: true, Size: 13, Color: "142D50"}},
		{&st.bold, excelize.Font{Bold: true}},
		{&st.muted, excelize.Font{Italic: true, Color: "6E6E6E"}},
	}
	for _, d := range defs {
		font := d.font
		id, err := f.NewStyle(&excelize.Style{Font: &font})
		if err != nil {
			return st, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

// line writes values across one row starting at column A. A zero style
// leaves the default.
func (w *sheetWriter) line(style int, values ...any) {
	if w.err != nil {
		return
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(sheetName, cell, v); err != nil {
			w.err = err
			return
		}
		if style != 0 {
			if err := w.f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				w.err = err
				return
			}
		}
	}
	w.row++
}

func (w *sheetWriter) more(style, n int) {
	if n > 0 {
		w.line(style, "", fmt.Sprintf("+%d more", n))
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
