package policy

import (
	"os"
	"path/filepath"
	"testing"

	"jobpack/internal/document"
	"jobpack/internal/quote"
)

func TestParsePolicy(t *testing.T) {
	data := []byte(`
tiers:
  free: {export: false}
  pro: {export: true, statuses: [ACTIVE]}
  enterprise: {export: true}
compact_caps:
  scope: 8
  inclusions: 5
  exclusions: 5
  materials: 4
  client_notes: 3
tolerance_cents: 0
`)
	p, err := ParsePolicy(data)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}

	if !p.Access.CanExport(Plan{Tier: "ENTERPRISE", Status: StatusPastDue}, false) {
		t.Error("tier added in the file should export")
	}
	if p.Access.CanExport(Plan{Tier: TierPro, Status: StatusTrial}, false) {
		t.Error("PRO trial is not in the file's allowed statuses")
	}
	if p.Access.CanExport(Plan{Tier: TierBusiness, Status: StatusActive}, false) {
		t.Error("tiers missing from the file must be denied")
	}

	want := document.Caps{Scope: 8, Inclusions: 5, Exclusions: 5, Materials: 4, ClientNotes: 3}
	if p.CompactCaps != want {
		t.Errorf("caps = %+v, want %+v", p.CompactCaps, want)
	}
	if p.Tolerance() != 0 {
		t.Errorf("tolerance = %d, want 0", p.Tolerance())
	}
}

func TestParsePolicyKeepsDefaults(t *testing.T) {
	p, err := ParsePolicy([]byte("tolerance_cents: 2\n"))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if p.CompactCaps != document.DefaultCompactCaps() {
		t.Errorf("caps = %+v, want defaults", p.CompactCaps)
	}
	if !p.Access.CanExport(Plan{Tier: TierPro, Status: StatusActive}, false) {
		t.Error("default table should allow PRO")
	}
	if p.Tolerance() != quote.Cents(2) {
		t.Errorf("tolerance = %d", p.Tolerance())
	}
}

func TestParsePolicyPartialCaps(t *testing.T) {
	p, err := ParsePolicy([]byte("compact_caps:\n  scope: 8\n  materials: -1\n"))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	def := document.DefaultCompactCaps()
	want := document.Caps{
		Scope:       8,
		Inclusions:  def.Inclusions,
		Exclusions:  def.Exclusions,
		Materials:   -1,
		ClientNotes: def.ClientNotes,
	}
	if p.CompactCaps != want {
		t.Errorf("caps = %+v, want %+v", p.CompactCaps, want)
	}
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	if err != nil || p.Tolerance() != 1 {
		t.Fatalf("LoadPolicy(\"\") = %+v, %v", p, err)
	}

	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("tiers: [not, a, map]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPolicy(path); err == nil {
		t.Error("expected error for malformed tiers")
	}
}
