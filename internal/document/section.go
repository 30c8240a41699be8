// Package document assembles a job's content into an ordered list of
// typed sections. Renderers only need to understand the section kinds.
package document

type Kind string

const (
	KindHeading        Kind = "heading"
	KindParagraph      Kind = "paragraph"
	KindNumberedList   Kind = "numbered_list"
	KindBulletList     Kind = "bullet_list"
	KindTable          Kind = "table"
	KindHighlightBox   Kind = "highlight_box"
	KindSignatureBlock Kind = "signature_block"
	KindFooter         Kind = "footer"
)

// Part names the document region a section belongs to.
type Part string

const (
	PartHeader      Part = "header"
	PartTitle       Part = "title"
	PartSummary     Part = "summary"
	PartPricing     Part = "pricing"
	PartScope       Part = "scope"
	PartInclusions  Part = "inclusions"
	PartExclusions  Part = "exclusions"
	PartMaterials   Part = "materials"
	PartClientNotes Part = "client_notes"
	PartSignature   Part = "signature"
	PartFooter      Part = "footer"
)

// Section is implemented only by the types in this file.
type Section interface {
	Kind() Kind
	Part() Part
}

type Heading struct {
	In    Part
	Level int // 1 is the document title
	Text  string
}

type ParagraphStyle int

const (
	StyleBody ParagraphStyle = iota
	StyleMuted
)

type Paragraph struct {
	In    Part
	Text  string
	Style ParagraphStyle
}

type NumberedList struct {
	In       Part
	Items    []string
	Overflow int
}

type Polarity int

const (
	Neutral Polarity = iota
	Positive
	Negative
)

// Marker is the glyph a renderer should put before each item.
func (p Polarity) Marker() string {
	switch p {
	case Positive:
		return "✓"
	case Negative:
		return "✗"
	}
	return "•"
}

// Column places a list in a two-column block. Consecutive Left and Right
// lists share a row.
type Column int

const (
	FullWidth Column = iota
	Left
	Right
)

type BulletList struct {
	In       Part
	Title    string
	Items    []string
	Polarity Polarity
	Column   Column
	Overflow int
}

// Table has an optional header row; without Columns it is a key/value list.
type Table struct {
	In       Part
	Columns  []string
	Rows     [][]string
	Totals   []string
	Overflow int
}

type Tone int

const (
	ToneInfo Tone = iota
	ToneWarning
)

type HighlightBox struct {
	In    Part
	Title string
	Value string
	Note  string
	Tone  Tone
}

type SignatureBlock struct {
	In          Part
	Statement   string
	Signatories []string
}

type Footer struct {
	In        Part
	Reference string
	Text      string
}

func (s Heading) Kind() Kind        { return KindHeading }
func (s Paragraph) Kind() Kind      { return KindParagraph }
func (s NumberedList) Kind() Kind   { return KindNumberedList }
func (s BulletList) Kind() Kind     { return KindBulletList }
func (s Table) Kind() Kind          { return KindTable }
func (s HighlightBox) Kind() Kind   { return KindHighlightBox }
func (s SignatureBlock) Kind() Kind { return KindSignatureBlock }
func (s Footer) Kind() Kind         { return KindFooter }

func (s Heading) Part() Part        { return s.In }
func (s Paragraph) Part() Part      { return s.In }
func (s NumberedList) Part() Part   { return s.In }
func (s BulletList) Part() Part     { return s.In }
func (s Table) Part() Part          { return s.In }
func (s HighlightBox) Part() Part   { return s.In }
func (s SignatureBlock) Part() Part { return s.In }
func (s Footer) Part() Part         { return s.In }

// Parts lists the distinct parts of sections in order of first appearance.
func Parts(sections []Section) []Part {
	var out []Part
	seen := map[Part]bool{}
	for _, s := range sections {
		if p := s.Part(); !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// InPart returns the sections belonging to p.
func InPart(sections []Section, p Part) []Section {
	var out []Section
	for _, s := range sections {
		if s.Part() == p {
			out = append(out, s)
		}
	}
	return out
}
