package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobpack/internal/content"
	"jobpack/internal/job"
	"jobpack/internal/quote"
)

// DefaultReferencePrefix starts every document reference.
const DefaultReferencePrefix = "JP"

const materialsDisclaimer = "Materials and quantities are estimates based on the information available at the time of quoting. " +
	"Final materials may vary once work begins; any change will be discussed with you before it is charged."

// Issuer is the contractor the document is issued by.
type Issuer struct {
	BusinessName string
	ABN          string
	Licences     []string
	Phone        string
	Email        string
}

type Input struct {
	Job       *job.Job
	Materials []job.Material
	Issuer    Issuer
	// IssuedAt is printed on the document; pass it in so composition stays deterministic.
	IssuedAt        time.Time
	ReferencePrefix string
}

// Reference is the document reference printed in the footer:
// PREFIX-<first 8 characters of the job id, upper-cased>.
func Reference(prefix string, id uuid.UUID) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultReferencePrefix
	}
	return strings.TrimSpace(prefix) + "-" + strings.ToUpper(id.String()[:8])
}

// Compose builds the document for in using layout. It never fails: content
// that cannot be parsed is left out. The result depends only on its inputs.
func Compose(in Input, layout Layout) []Section {
	if in.Job == nil {
		return nil
	}
	c := &composer{in: in, job: in.Job, layout: layout}
	c.header()
	c.title()
	c.summary()
	c.pricing()
	c.scope()
	c.inclusionsExclusions()
	c.materials()
	c.clientNotes()
	c.signature()
	c.footer()
	return c.out
}

type composer struct {
	in     Input
	job    *job.Job
	layout Layout
	out    []Section
}

func (c *composer) add(s ...Section) { c.out = append(c.out, s...) }

func (c *composer) header() {
	is := c.in.Issuer
	name := strings.TrimSpace(is.BusinessName)
	if name == "" {
		name = "Job Pack"
	}
	c.add(Heading{In: PartHeader, Level: 1, Text: name})

	var details []string
	if is.ABN != "" {
		details = append(details, "ABN "+is.ABN)
	}
	for _, l := range is.Licences {
		if l = strings.TrimSpace(l); l != "" {
			details = append(details, "Lic. "+l)
		}
	}
	if is.Phone != "" {
		details = append(details, is.Phone)
	}
	if is.Email != "" {
		details = append(details, is.Email)
	}
	if len(details) > 0 {
		c.add(Paragraph{In: PartHeader, Text: strings.Join(details, " · "), Style: StyleMuted})
	}
}

func (c *composer) title() {
	j := c.job
	title := strings.TrimSpace(j.Title)
	if title == "" {
		title = "Quote & Scope of Work"
	}
	c.add(Heading{In: PartTitle, Level: 1, Text: title})

	var rows [][]string
	kv := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	kv("Client", j.ClientName)
	kv("Site address", j.Address)
	kv("Trade", j.TradeType)
	kv("Property type", j.PropertyType)
	if !c.in.IssuedAt.IsZero() {
		kv("Date", c.in.IssuedAt.Format("2 January 2006"))
	}
	kv("Reference", Reference(c.in.ReferencePrefix, j.ID))
	c.add(Table{In: PartTitle, Rows: rows})
}

func (c *composer) summary() {
	text := strings.TrimSpace(c.job.AISummary)
	if text == "" {
		text = synthesizedSummary(c.job)
	}
	if text == "" {
		return
	}
	c.add(Heading{In: PartSummary, Level: 2, Text: "Summary"})
	c.add(Paragraph{In: PartSummary, Text: text})
}

func synthesizedSummary(j *job.Job) string {
	trade := strings.ToLower(strings.TrimSpace(j.TradeType))
	if trade == "" {
		return ""
	}
	s := "Proposed " + trade + " work"
	if p := strings.ToLower(strings.TrimSpace(j.PropertyType)); p != "" {
		s += " for a " + p + " property"
	}
	if a := strings.TrimSpace(j.Address); a != "" {
		s += " at " + a
	}
	if n := strings.TrimSpace(j.ClientName); n != "" {
		s += ", prepared for " + n
	}
	return s + "."
}

func (c *composer) pricing() {
	q := quote.Parse(c.job.AIQuote)
	total, ok := q.Total()
	if !ok || total <= 0 {
		return
	}
	c.add(Heading{In: PartPricing, Level: 2, Text: "Pricing"})

	if c.layout.PricingBreakdown {
		var rows [][]string
		if l := q.Labour; l != nil {
			if cost, ok := l.Cost(); ok {
				rows = append(rows, []string{"Labour", labourDetail(l), quote.FormatAUD(cost)})
			}
		}
		if m := q.Materials; m != nil && m.TotalMaterialsCost.Valid {
			rows = append(rows, []string{"Materials", strings.TrimSpace(m.Description), quote.FormatAUD(m.TotalMaterialsCost.Cents)})
		}
		if len(rows) > 0 {
			c.add(Table{In: PartPricing, Columns: []string{"Item", "Details", "Amount"}, Rows: rows})
		}
	}

	note := ""
	if q.TotalEstimate != nil {
		note = strings.TrimSpace(q.TotalEstimate.Description)
	}
	if note == "" {
		note = "Estimated range " + quote.FormatAUD(total) + " – " + quote.FormatAUD(quote.HighEstimate(total))
	}
	c.add(HighlightBox{In: PartPricing, Title: "Total estimate", Value: quote.FormatAUD(total), Note: note})
}

func labourDetail(l *quote.Labour) string {
	var parts []string
	if d := strings.TrimSpace(l.Description); d != "" {
		parts = append(parts, d)
	}
	if l.Hours.Valid && l.RatePerHour.Valid {
		parts = append(parts, fmt.Sprintf("%s hrs @ %s/hr", l.Hours, quote.FormatAUD(l.RatePerHour.Cents)))
	}
	return strings.Join(parts, ", ")
}

func (c *composer) scope() {
	items, more := content.Cap(content.Items(c.job.AIScopeOfWork), c.layout.Caps.Scope)
	if len(items) == 0 {
		return
	}
	c.add(Heading{In: PartScope, Level: 2, Text: "Scope of Work"})
	c.add(NumberedList{In: PartScope, Items: items, Overflow: more})
}

func (c *composer) inclusionsExclusions() {
	inc, incMore := content.Cap(content.Items(c.job.AIInclusions), c.layout.Caps.Inclusions)
	exc, excMore := content.Cap(content.Items(c.job.AIExclusions), c.layout.Caps.Exclusions)

	if c.layout.TwoColumn {
		if len(inc) > 0 {
			c.add(BulletList{In: PartInclusions, Title: "Included", Items: inc, Polarity: Positive, Column: Left, Overflow: incMore})
		}
		if len(exc) > 0 {
			c.add(BulletList{In: PartExclusions, Title: "Not included", Items: exc, Polarity: Negative, Column: Right, Overflow: excMore})
		}
		return
	}

	if len(inc) > 0 {
		c.add(Heading{In: PartInclusions, Level: 2, Text: "Inclusions"})
		c.add(BulletList{In: PartInclusions, Items: inc, Polarity: Positive, Overflow: incMore})
	}
	if len(exc) > 0 {
		c.add(Heading{In: PartExclusions, Level: 2, Text: "Exclusions"})
		c.add(BulletList{In: PartExclusions, Items: exc, Polarity: Negative, Overflow: excMore})
	}
}

// materials picks exactly one source: itemised lines, then the owner's
// override text, then the AI materials list.
func (c *composer) materials() {
	override := strings.TrimSpace(c.job.MaterialsOverrideText)

	var body Section
	switch {
	case len(c.in.Materials) > 0:
		body = c.lineTable()
	case override != "":
		body = Paragraph{In: PartMaterials, Text: override}
	default:
		body = c.aiMaterials()
	}
	if body == nil {
		return
	}

	c.add(Heading{In: PartMaterials, Level: 2, Text: "Materials"})
	c.add(body)

	if c.layout.Disclaimer && (c.job.MaterialsAreRoughEstimate || override == "") {
		c.add(HighlightBox{In: PartMaterials, Title: "Materials estimate", Note: materialsDisclaimer, Tone: ToneWarning})
	}
}

func (c *composer) lineTable() Section {
	var sum quote.Cents
	rows := make([][]string, 0, len(c.in.Materials))
	for _, m := range c.in.Materials {
		total := ""
		if m.LineTotal != nil {
			lt := quote.FromFloat(*m.LineTotal)
			sum += lt
			total = lt.String()
		}
		rows = append(rows, []string{m.Name, formatQty(m.Quantity), m.UnitLabel, total})
	}
	rows, more := content.Cap(rows, c.layout.Caps.Materials)
	return Table{
		In:       PartMaterials,
		Columns:  []string{"Item", "Qty", "Unit", "Line total"},
		Rows:     rows,
		Totals:   []string{"Total", "", "", sum.String()},
		Overflow: more,
	}
}

func (c *composer) aiMaterials() Section {
	if items, ok := content.ParseMaterials(c.job.AIMaterials); ok {
		if len(items) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			cost := ""
			if it.EstimatedCost.Valid {
				cost = quote.FormatAUD(it.EstimatedCost.Cents)
			} else if it.EstimatedCost.Raw != "" {
				cost = it.EstimatedCost.Raw
			}
			rows = append(rows, []string{it.Item, it.Quantity.String(), cost})
		}
		rows, more := content.Cap(rows, c.layout.Caps.Materials)
		return Table{In: PartMaterials, Columns: []string{"Item", "Qty", "Est. cost"}, Rows: rows, Overflow: more}
	}

	// A materials array that failed to decode is dropped, never printed raw.
	if content.LooksLikeJSONArray(c.job.AIMaterials) && !content.IsStringArray(c.job.AIMaterials) {
		return nil
	}
	items, more := content.Cap(content.Items(c.job.AIMaterials), c.layout.Caps.Materials)
	if len(items) == 0 {
		return nil
	}
	return BulletList{In: PartMaterials, Items: items, Overflow: more}
}

func formatQty(q float64) string {
	if q == 0 {
		return ""
	}
	return quote.Quantity{Value: q, Valid: true}.String()
}

func (c *composer) clientNotes() {
	items, more := content.Cap(content.Items(c.job.AIClientNotes), c.layout.Caps.ClientNotes)
	if len(items) == 0 {
		return
	}
	c.add(Heading{In: PartClientNotes, Level: 2, Text: "Notes"})
	c.add(BulletList{In: PartClientNotes, Items: items, Overflow: more})
}

func (c *composer) signature() {
	client := strings.TrimSpace(c.job.ClientName)
	if client == "" {
		client = "Client"
	}
	contractor := strings.TrimSpace(c.in.Issuer.BusinessName)
	if contractor == "" {
		contractor = "Contractor"
	}
	c.add(SignatureBlock{
		In:          PartSignature,
		Statement:   "I accept this quote and the scope of work described above.",
		Signatories: []string{client, contractor},
	})
}

func (c *composer) footer() {
	text := "This document was prepared from content reviewed and confirmed by the issuer."
	if !c.in.IssuedAt.IsZero() {
		text = "Issued " + c.in.IssuedAt.Format("2 Jan 2006") + ". " + text
	}
	c.add(Footer{In: PartFooter, Reference: Reference(c.in.ReferencePrefix, c.job.ID), Text: text})
}
