package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrEmpty     = errors.New("quote: empty payload")
	ErrMalformed = errors.New("quote: malformed payload")
)

// amounts may be numbers, currency strings or null; sections must be objects.
const quoteSchema = `{
  "type": "object",
  "definitions": {
    "amount": {"type": ["number", "string", "null"]},
    "text": {"type": ["string", "null"]}
  },
  "properties": {
    "labour": {
      "type": ["object", "null"],
      "properties": {
        "description": {"$ref": "#/definitions/text"},
        "hours": {"$ref": "#/definitions/amount"},
        "ratePerHour": {"$ref": "#/definitions/amount"},
        "total": {"$ref": "#/definitions/amount"}
      }
    },
    "materials": {
      "type": ["object", "null"],
      "properties": {
        "description": {"$ref": "#/definitions/text"},
        "totalMaterialsCost": {"$ref": "#/definitions/amount"}
      }
    },
    "totalEstimate": {
      "type": ["object", "null"],
      "properties": {
        "description": {"$ref": "#/definitions/text"},
        "totalJobEstimate": {"$ref": "#/definitions/amount"}
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("quote.json", quoteSchema)

type Labour struct {
	Description string   `json:"description"`
	Hours       Quantity `json:"hours"`
	RatePerHour Amount   `json:"ratePerHour"`
	Total       Amount   `json:"total"`
}

// Cost is the stated labour total, or hours x rate when only those are given.
func (l *Labour) Cost() (Cents, bool) {
	if l == nil {
		return 0, false
	}
	if l.Total.Valid {
		return l.Total.Cents, true
	}
	if l.Hours.Valid && l.RatePerHour.Valid {
		return Cents(math.Round(l.Hours.Value * float64(l.RatePerHour.Cents))), true
	}
	return 0, false
}

type Materials struct {
	Description        string `json:"description"`
	TotalMaterialsCost Amount `json:"totalMaterialsCost"`
}

type TotalEstimate struct {
	Description      string `json:"description"`
	TotalJobEstimate Amount `json:"totalJobEstimate"`
}

// ParsedQuote is the typed form of a job's AI pricing payload. Every part is optional.
type ParsedQuote struct {
	Labour        *Labour        `json:"labour"`
	Materials     *Materials     `json:"materials"`
	TotalEstimate *TotalEstimate `json:"totalEstimate"`
}

// Total derives the job total: the stated estimate first, otherwise labour
// plus materials from whichever parts carry a number.
func (q *ParsedQuote) Total() (Cents, bool) {
	if q == nil {
		return 0, false
	}
	if q.TotalEstimate != nil && q.TotalEstimate.TotalJobEstimate.Valid {
		return q.TotalEstimate.TotalJobEstimate.Cents, true
	}
	var sum Cents
	found := false
	if c, ok := q.Labour.Cost(); ok {
		sum += c
		found = true
	}
	if q.Materials != nil && q.Materials.TotalMaterialsCost.Valid {
		sum += q.Materials.TotalMaterialsCost.Cents
		found = true
	}
	return sum, found
}

// Decode validates and decodes a raw pricing payload. Errors wrap ErrEmpty or
// ErrMalformed; callers that only need the value should use Parse.
func Decode(raw string) (*ParsedQuote, error) {
	body := stripFence(raw)
	if body == "" {
		return nil, ErrEmpty
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var q ParsedQuote
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if q.Labour == nil && q.Materials == nil && q.TotalEstimate == nil {
		return nil, fmt.Errorf("%w: no pricing fields", ErrMalformed)
	}
	return &q, nil
}

// Parse is Decode with every failure collapsed to nil.
func Parse(raw string) *ParsedQuote {
	q, err := Decode(raw)
	if err != nil {
		return nil
	}
	return q
}

// stripFence removes a surrounding markdown code fence, which model output
// sometimes carries.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
