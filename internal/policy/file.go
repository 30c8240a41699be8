package policy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"jobpack/internal/document"
	"jobpack/internal/quote"
)

// ExportPolicy is the product-policy file: who may export, how far the
// compact layout truncates, and how far materials totals may drift.
//
//	tiers:
//	  FREE: {export: false}
//	  PRO: {export: true, statuses: [TRIAL, ACTIVE]}
//	compact_caps: {scope: 12, inclusions: 6, exclusions: 6, materials: 6, client_notes: 5} # -1 = uncapped
//	tolerance_cents: 1
type ExportPolicy struct {
	Access         AccessPolicy  `yaml:",inline"`
	CompactCaps    document.Caps `yaml:"compact_caps"`
	ToleranceCents *int64        `yaml:"tolerance_cents"`
}

func DefaultExportPolicy() ExportPolicy {
	tol := int64(1)
	return ExportPolicy{
		Access:         DefaultAccessPolicy(),
		CompactCaps:    document.DefaultCompactCaps(),
		ToleranceCents: &tol,
	}
}

// Tolerance falls back to one cent when the file leaves it out or sets it negative.
func (p ExportPolicy) Tolerance() quote.Cents {
	if p.ToleranceCents == nil || *p.ToleranceCents < 0 {
		return 1
	}
	return quote.Cents(*p.ToleranceCents)
}

// LoadPolicy reads path. An empty path yields the defaults; sections the
// file leaves out keep their defaults too.
func LoadPolicy(path string) (ExportPolicy, error) {
	if path == "" {
		return DefaultExportPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ExportPolicy{}, eris.Wrapf(err, "read export policy %s", path)
	}
	return ParsePolicy(data)
}

// fillCaps takes each cap the file left at zero from def. A negative cap
// in the file means uncapped.
func fillCaps(c, def document.Caps) document.Caps {
	pick := func(v, d int) int {
		if v == 0 {
			return d
		}
		return v
	}
	return document.Caps{
		Scope:       pick(c.Scope, def.Scope),
		Inclusions:  pick(c.Inclusions, def.Inclusions),
		Exclusions:  pick(c.Exclusions, def.Exclusions),
		Materials:   pick(c.Materials, def.Materials),
		ClientNotes: pick(c.ClientNotes, def.ClientNotes),
	}
}

func ParsePolicy(data []byte) (ExportPolicy, error) {
	var p ExportPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ExportPolicy{}, eris.Wrap(err, "parse export policy")
	}

	def := DefaultExportPolicy()
	if len(p.Access.Tiers) == 0 {
		p.Access = def.Access
	} else {
		p.Access = p.Access.Normalize()
	}
	p.CompactCaps = fillCaps(p.CompactCaps, def.CompactCaps)
	if p.ToleranceCents == nil {
		p.ToleranceCents = def.ToleranceCents
	}
	return p, nil
}
