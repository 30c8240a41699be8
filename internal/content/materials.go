package content

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"jobpack/internal/quote"
)

const materialsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["item"],
    "properties": {
      "item": {"type": "string"},
      "quantity": {"type": ["string", "number", "null"]},
      "estimatedCost": {"type": ["string", "number", "null"]}
    }
  }
}`

var materialsShape = jsonschema.MustCompileString("materials.json", materialsSchema)

// MaterialItem is one line of the AI-suggested materials list.
type MaterialItem struct {
	Item          string       `json:"item"`
	Quantity      text         `json:"quantity"`
	EstimatedCost quote.Amount `json:"estimatedCost"`
}

// text accepts either a JSON string or number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*t = text(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = text(strings.TrimSpace(s))
	return nil
}

func (t text) String() string { return string(t) }

// ParseMaterials decodes the AI materials JSON array. It reports false when
// the text is not a well-formed materials array; blank item names are dropped.
func ParseMaterials(raw string) ([]MaterialItem, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, false
	}
	if err := materialsShape.Validate(doc); err != nil {
		return nil, false
	}
	var items []MaterialItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}

	out := items[:0]
	for _, it := range items {
		it.Item = strings.TrimSpace(it.Item)
		if it.Item == "" {
			continue
		}
		out = append(out, it)
	}
	return out, true
}
