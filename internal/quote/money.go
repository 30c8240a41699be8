package quote

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cents is an amount of Australian currency in its smallest unit.
type Cents int64

func FromFloat(f float64) Cents { return Cents(math.Round(f * 100)) }

func (c Cents) Float() float64 { return float64(c) / 100 }

// String renders the amount with two decimals, e.g. "$1,234.50".
func (c Cents) String() string {
	neg := c < 0
	if neg {
		c = -c
	}
	s := "$" + groupThousands(int64(c)/100) + "." + pad2(int64(c)%100)
	if neg {
		return "-" + s
	}
	return s
}

// FormatAUD renders whole-dollar amounts without decimals ("$2,400") and
// anything else with cents ("$2,400.50").
func FormatAUD(c Cents) string {
	if c%100 != 0 {
		return c.String()
	}
	neg := c < 0
	if neg {
		c = -c
	}
	s := "$" + groupThousands(int64(c)/100)
	if neg {
		return "-" + s
	}
	return s
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

var numberRe = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// ParseMoney pulls the first number out of a loosely formatted currency
// string such as "$2,400", "AUD 1200.50" or "approx. 300 inc GST".
func ParseMoney(s string) (Cents, bool) {
	f, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	return FromFloat(f), true
}

func parseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Amount is a monetary value that may arrive as a JSON number or as a
// currency string. Unparseable strings decode without error but stay invalid.
type Amount struct {
	Cents Cents
	Valid bool
	Raw   string
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		a.Cents, a.Valid = FromFloat(f), true
		a.Raw = strconv.FormatFloat(f, 'f', -1, 64)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	a.Raw = strings.TrimSpace(s)
	a.Cents, a.Valid = ParseMoney(a.Raw)
	return nil
}

// Quantity is a plain number that may arrive as a JSON number or a string
// like "8 hours".
type Quantity struct {
	Value float64
	Valid bool
	Raw   string
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	*q = Quantity{}
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		q.Value, q.Valid = f, true
		q.Raw = strconv.FormatFloat(f, 'f', -1, 64)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	q.Raw = strings.TrimSpace(s)
	q.Value, q.Valid = parseNumber(q.Raw)
	return nil
}

// String prints the quantity without trailing zeros, falling back to the raw text.
func (q Quantity) String() string {
	if !q.Valid {
		return q.Raw
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}
