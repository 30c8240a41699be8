package document

import (
	"errors"
	"strings"
)

// Compact layout caps. Product policy; the export policy file may override them.
const (
	CompactScopeCap       = 12
	CompactInclusionsCap  = 6
	CompactExclusionsCap  = 6
	CompactMaterialsCap   = 6
	CompactClientNotesCap = 5
)

// Caps bounds the number of items per list. Zero means uncapped.
type Caps struct {
	Scope       int `yaml:"scope"`
	Inclusions  int `yaml:"inclusions"`
	Exclusions  int `yaml:"exclusions"`
	Materials   int `yaml:"materials"`
	ClientNotes int `yaml:"client_notes"`
}

func DefaultCompactCaps() Caps {
	return Caps{
		Scope:       CompactScopeCap,
		Inclusions:  CompactInclusionsCap,
		Exclusions:  CompactExclusionsCap,
		Materials:   CompactMaterialsCap,
		ClientNotes: CompactClientNotesCap,
	}
}

// Layout is the strategy Compose follows.
type Layout struct {
	Name string
	// DocType names the artifact, e.g. in download filenames.
	DocType string
	Caps    Caps
	// PricingBreakdown adds the labour/materials table above the total.
	PricingBreakdown bool
	// Disclaimer adds the materials-estimate box after the materials part.
	Disclaimer bool
	// TwoColumn lays inclusions and exclusions side by side.
	TwoColumn bool
	// SinglePage asks the renderer to fit everything on one page.
	SinglePage bool
}

const (
	LayoutStandard = "standard"
	LayoutCompact  = "compact"
)

// Standard is the full multi-page job pack.
func Standard() Layout {
	return Layout{
		Name:             LayoutStandard,
		DocType:          "job-pack",
		PricingBreakdown: true,
		Disclaimer:       true,
	}
}

// Compact is the one-page client summary with capped lists.
func Compact(caps Caps) Layout {
	return Layout{
		Name:       LayoutCompact,
		DocType:    "quote-summary",
		Caps:       caps,
		TwoColumn:  true,
		SinglePage: true,
	}
}

var ErrUnknownLayout = errors.New("unknown layout")

// ParseLayout resolves a format name; empty selects Standard.
func ParseLayout(name string, compactCaps Caps) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutStandard:
		return Standard(), nil
	case LayoutCompact:
		return Compact(compactCaps), nil
	}
	return Layout{}, ErrUnknownLayout
}
