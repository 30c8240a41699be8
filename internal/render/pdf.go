package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"jobpack/internal/document"
)

const (
	font          = "Helvetica"
	footerReserve = 22.0
)

type sizes struct {
	title, heading, body, small, line float64
}

var (
	standardSizes = sizes{title: 18, heading: 13, body: 10, small: 8, line: 5.2}
	compactSizes  = sizes{title: 15, heading: 11, body: 8.5, small: 7, line: 4.2}
)

// PDF draws sections onto A4 pages. A single-page layout stops drawing
// once the page is full and names the parts left out above the footer;
// the footer is always drawn.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Extension() string   { return "pdf" }

func (PDF) Render(w io.Writer, sections []document.Section, layout document.Layout) error {
	d := newPDFDoc(layout)
	d.draw(sections)
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return d.pdf.Output(w)
}

type pdfDoc struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	layout document.Layout
	size   sizes
	bottom float64
	full   bool
	// omitted lists the parts a full single page could not show.
	omitted []document.Part
}

func newPDFDoc(layout document.Layout) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	size := standardSizes
	margin := 18.0
	if layout.SinglePage {
		size = compactSizes
		margin = 12
	}
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, footerReserve)
	pdf.AliasNbPages("")

	_, pageH := pdf.GetPageSize()
	return &pdfDoc{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		layout: layout,
		size:   size,
		bottom: pageH - footerReserve,
	}
}

func (d *pdfDoc) draw(sections []document.Section) {
	for _, s := range sections {
		if f, ok := s.(document.Footer); ok {
			d.setFooter(f)
		}
	}
	d.pdf.AddPage()
	d.body()

	for i := 0; i < len(sections); i++ {
		cur := i
		switch s := sections[i].(type) {
		case document.Heading:
			d.heading(s)
		case document.Paragraph:
			d.paragraph(s)
		case document.NumberedList:
			d.numbered(s)
		case document.BulletList:
			if s.Column == document.FullWidth {
				d.bullets(s, d.left(), d.width())
				break
			}
			var left, right *document.BulletList
			if s.Column == document.Left {
				left = &s
				if i+1 < len(sections) {
					if r, ok := sections[i+1].(document.BulletList); ok && r.Column == document.Right {
						right = &r
						i++
					}
				}
			} else {
				right = &s
			}
			d.columns(left, right)
		case document.Table:
			d.table(s)
		case document.HighlightBox:
			d.highlight(s)
		case document.SignatureBlock:
			d.signature(s)
		}
		if d.full {
			d.truncated(sections[cur:])
			return
		}
	}
}

// truncated notes, in the reserved space above the footer, which parts
// from rest did not fit. The part being drawn when the page filled counts.
func (d *pdfDoc) truncated(rest []document.Section) {
	d.omitted = nil
	var names []string
	for _, p := range document.Parts(rest) {
		if p == document.PartFooter {
			continue
		}
		d.omitted = append(d.omitted, p)
		names = append(names, strings.ReplaceAll(string(p), "_", " "))
	}
	if len(names) == 0 {
		return
	}
	d.pdf.SetXY(d.left(), d.bottom+0.5)
	d.pdf.SetFont(font, "I", d.size.small)
	d.pdf.SetTextColor(150, 60, 40)
	d.pdf.CellFormat(d.width(), 4, d.tr(TruncationNotice(names)), "", 1, "L", false, 0, "")
	d.body()
}

// TruncationNotice is the line printed when a one-page document runs out of room.
func TruncationNotice(parts []string) string {
	noun := "sections"
	if len(parts) == 1 {
		noun = "section"
	}
	return fmt.Sprintf("+%d %s not shown (%s). See the full job pack.", len(parts), noun, strings.Join(parts, ", "))
}

func (d *pdfDoc) left() float64 {
	l, _, _, _ := d.pdf.GetMargins()
	return l
}

func (d *pdfDoc) width() float64 {
	pageW, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return pageW - l - r
}

// room makes sure h millimetres fit below the cursor, starting a new page
// when the layout allows it.
func (d *pdfDoc) room(h float64) bool {
	if d.full {
		return false
	}
	if d.pdf.GetY()+h <= d.bottom {
		return true
	}
	if d.layout.SinglePage {
		d.full = true
		return false
	}
	d.pdf.AddPage()
	return true
}

func (d *pdfDoc) textHeight(text string, w float64) float64 {
	lines := d.pdf.SplitLines([]byte(d.tr(text)), w)
	if len(lines) == 0 {
		return d.size.line
	}
	return float64(len(lines)) * d.size.line
}

func (d *pdfDoc) body() {
	d.pdf.SetFont(font, "", d.size.body)
	d.pdf.SetTextColor(30, 30, 30)
}

func (d *pdfDoc) muted() {
	d.pdf.SetFont(font, "", d.size.small)
	d.pdf.SetTextColor(110, 110, 110)
}

func (d *pdfDoc) heading(h document.Heading) {
	size := d.size.heading
	if h.Level <= 1 {
		size = d.size.title
	}
	lh := size * 0.5
	d.pdf.SetFont(font, "B", size)
	if !d.room(d.textHeight(h.Text, d.width())/d.size.line*lh + 3) {
		return
	}
	d.pdf.Ln(2)
	d.pdf.SetTextColor(20, 45, 80)
	d.pdf.MultiCell(0, lh, d.tr(h.Text), "", "L", false)
	d.pdf.Ln(1)
	d.body()
}

func (d *pdfDoc) paragraph(p document.Paragraph) {
	if p.Style == document.StyleMuted {
		d.muted()
	} else {
		d.body()
	}
	if !d.room(d.textHeight(p.Text, d.width())) {
		return
	}
	d.pdf.MultiCell(0, d.size.line, d.tr(p.Text), "", "L", false)
	d.pdf.Ln(1)
	d.body()
}

func (d *pdfDoc) numbered(l document.NumberedList) {
	d.body()
	const gutter = 8.0
	for i, item := range l.Items {
		if !d.room(d.textHeight(item, d.width()-gutter)) {
			return
		}
		d.pdf.SetX(d.left())
		d.pdf.CellFormat(gutter, d.size.line, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
		d.pdf.MultiCell(d.width()-gutter, d.size.line, d.tr(item), "", "L", false)
	}
	d.overflow(l.Overflow, d.left()+gutter)
	d.pdf.Ln(1)
}

func (d *pdfDoc) overflow(n int, x float64) {
	if n <= 0 || !d.room(d.size.line) {
		return
	}
	d.pdf.SetFont(font, "I", d.size.small)
	d.pdf.SetTextColor(110, 110, 110)
	d.pdf.SetX(x)
	d.pdf.CellFormat(0, d.size.line, fmt.Sprintf("+%d more", n), "", 1, "L", false, 0, "")
	d.body()
}

func (d *pdfDoc) marker(p document.Polarity) {
	const w = 5.0
	switch p {
	case document.Positive:
		d.pdf.SetFont("ZapfDingbats", "", d.size.body)
		d.pdf.SetTextColor(30, 130, 60)
		d.pdf.CellFormat(w, d.size.line, "4", "", 0, "L", false, 0, "")
	case document.Negative:
		d.pdf.SetFont("ZapfDingbats", "", d.size.body)
		d.pdf.SetTextColor(190, 40, 40)
		d.pdf.CellFormat(w, d.size.line, "8", "", 0, "L", false, 0, "")
	default:
		d.body()
		d.pdf.CellFormat(w, d.size.line, d.tr(p.Marker()), "", 0, "L", false, 0, "")
	}
	d.body()
}

// bullets draws a list inside the column starting at x. The left margin is
// moved for the duration so wrapped lines stay in the column.
func (d *pdfDoc) bullets(l document.BulletList, x, w float64) {
	l0, t0, r0, _ := d.pdf.GetMargins()
	d.pdf.SetLeftMargin(x)
	defer d.pdf.SetMargins(l0, t0, r0)

	if l.Title != "" && d.room(d.size.line+1) {
		d.pdf.SetX(x)
		d.pdf.SetFont(font, "B", d.size.body)
		d.pdf.CellFormat(w, d.size.line+1, d.tr(l.Title), "", 1, "L", false, 0, "")
	}
	for _, item := range l.Items {
		if !d.room(d.textHeight(item, w-5)) {
			return
		}
		d.pdf.SetX(x)
		d.marker(l.Polarity)
		d.pdf.MultiCell(w-5, d.size.line, d.tr(item), "", "L", false)
	}
	d.overflow(l.Overflow, x+5)
	d.pdf.Ln(1)
}

func (d *pdfDoc) columns(left, right *document.BulletList) {
	const gap = 6.0
	colW := (d.width() - gap) / 2
	top := d.pdf.GetY()
	end := top

	if left != nil {
		d.bullets(*left, d.left(), colW)
		end = d.pdf.GetY()
	}
	if right != nil && !d.full {
		d.pdf.SetY(top)
		d.bullets(*right, d.left()+colW+gap, colW)
		if y := d.pdf.GetY(); y > end {
			end = y
		}
	}
	d.pdf.SetXY(d.left(), end)
}

func (d *pdfDoc) table(t document.Table) {
	d.body()
	if len(t.Columns) == 0 {
		d.keyValues(t.Rows)
		return
	}

	widths := columnWidths(len(t.Columns), d.width())
	d.pdf.SetFont(font, "B", d.size.body)
	d.pdf.SetFillColor(235, 238, 243)
	if !d.room(d.size.line + 1) {
		return
	}
	d.pdf.SetX(d.left())
	for i, c := range t.Columns {
		d.pdf.CellFormat(widths[i], d.size.line+1, d.tr(c), "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.body()
	for _, row := range t.Rows {
		if !d.row(row, widths, "") {
			return
		}
	}
	if len(t.Totals) > 0 {
		d.row(t.Totals, widths, "B")
	}
	d.overflow(t.Overflow, d.left())
	d.pdf.Ln(2)
}

func (d *pdfDoc) row(cells []string, widths []float64, style string) bool {
	d.pdf.SetFont(font, style, d.size.body)
	h := d.size.line
	for i, c := range cells {
		if i < len(widths) {
			if ch := d.textHeight(c, widths[i]-2); ch > h {
				h = ch
			}
		}
	}
	if !d.room(h) {
		return false
	}
	x, y := d.left(), d.pdf.GetY()
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		d.pdf.Rect(x, y, w, h, "D")
		d.pdf.SetXY(x+1, y)
		d.pdf.MultiCell(w-2, d.size.line, d.tr(text), "", "L", false)
		x += w
	}
	d.pdf.SetXY(d.left(), y+h)
	d.body()
	return true
}

func (d *pdfDoc) keyValues(rows [][]string) {
	const keyW = 32.0
	for _, kv := range rows {
		if len(kv) < 2 || !d.room(d.textHeight(kv[1], d.width()-keyW)) {
			continue
		}
		d.pdf.SetX(d.left())
		d.pdf.SetFont(font, "B", d.size.body)
		d.pdf.CellFormat(keyW, d.size.line, d.tr(kv[0]), "", 0, "L", false, 0, "")
		d.body()
		d.pdf.MultiCell(d.width()-keyW, d.size.line, d.tr(kv[1]), "", "L", false)
	}
	d.pdf.Ln(2)
}

// columnWidths gives the first column half the width and splits the rest.
func columnWidths(n int, total float64) []float64 {
	if n == 1 {
		return []float64{total}
	}
	first := total / 2
	rest := (total - first) / float64(n-1)
	out := []float64{first}
	for i := 1; i < n; i++ {
		out = append(out, rest)
	}
	return out
}

func (d *pdfDoc) highlight(h document.HighlightBox) {
	w := d.width()
	height := 4.0
	if h.Title != "" {
		height += d.size.line
	}
	if h.Value != "" {
		height += d.size.heading * 0.55
	}
	if h.Note != "" {
		d.muted()
		height += d.textHeight(h.Note, w-8)
	}
	if !d.room(height + 2) {
		return
	}

	x, y := d.left(), d.pdf.GetY()
	if h.Tone == document.ToneWarning {
		d.pdf.SetFillColor(255, 243, 205)
		d.pdf.SetDrawColor(230, 180, 60)
	} else {
		d.pdf.SetFillColor(232, 240, 254)
		d.pdf.SetDrawColor(120, 150, 210)
	}
	d.pdf.Rect(x, y, w, height, "FD")
	d.pdf.SetDrawColor(0, 0, 0)

	d.pdf.SetLeftMargin(x + 4)
	d.pdf.SetXY(x+4, y+2)
	if h.Title != "" {
		d.pdf.SetFont(font, "B", d.size.body)
		d.pdf.CellFormat(w-8, d.size.line, d.tr(h.Title), "", 1, "L", false, 0, "")
	}
	if h.Value != "" {
		d.pdf.SetFont(font, "B", d.size.heading)
		d.pdf.CellFormat(w-8, d.size.heading*0.55, d.tr(h.Value), "", 1, "L", false, 0, "")
	}
	if h.Note != "" {
		d.muted()
		d.pdf.MultiCell(w-8, d.size.line, d.tr(h.Note), "", "L", false)
	}
	d.pdf.SetLeftMargin(x)
	d.pdf.SetXY(x, y+height+3)
	d.body()
}

func (d *pdfDoc) signature(s document.SignatureBlock) {
	const lineGap = 14.0
	if !d.room(d.textHeight(s.Statement, d.width()) + lineGap + 2*d.size.line + 4) {
		return
	}
	d.pdf.Ln(3)
	d.body()
	d.pdf.MultiCell(0, d.size.line, d.tr(s.Statement), "", "L", false)

	n := len(s.Signatories)
	if n == 0 {
		return
	}
	colW := d.width() / float64(n)
	y := d.pdf.GetY() + lineGap
	for i, name := range s.Signatories {
		x := d.left() + float64(i)*colW
		d.pdf.Line(x, y, x+colW-10, y)
		d.pdf.SetXY(x, y+1)
		d.pdf.SetFont(font, "B", d.size.small)
		d.pdf.CellFormat(colW-10, d.size.line, d.tr(name), "", 2, "L", false, 0, "")
		d.muted()
		d.pdf.CellFormat(colW-10, d.size.line, "Signature / Date", "", 0, "L", false, 0, "")
		d.body()
	}
	d.pdf.SetXY(d.left(), y+2*d.size.line+3)
}

func (d *pdfDoc) setFooter(f document.Footer) {
	d.pdf.SetFooterFunc(func() {
		d.pdf.SetY(-16)
		d.pdf.SetFont(font, "", 7)
		d.pdf.SetTextColor(110, 110, 110)
		if f.Text != "" {
			d.pdf.CellFormat(0, 4, d.tr(f.Text), "", 1, "L", false, 0, "")
		}
		d.pdf.CellFormat(0, 4, d.tr(fmt.Sprintf("%s · Page %d of {nb}", f.Reference, d.pdf.PageNo())), "", 0, "R", false, 0, "")
	})
}
