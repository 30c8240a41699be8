// Package policy holds the export gates that depend only on their inputs.
package policy

import "strings"

type Tier string

const (
	TierFree     Tier = "FREE"
	TierPro      Tier = "PRO"
	TierBusiness Tier = "BUSINESS"
)

type Status string

const (
	StatusTrial    Status = "TRIAL"
	StatusActive   Status = "ACTIVE"
	StatusPastDue  Status = "PAST_DUE"
	StatusCanceled Status = "CANCELED"
)

// Plan is the billing snapshot read from the owner's account.
type Plan struct {
	Tier   Tier   `json:"planTier"`
	Status Status `json:"planStatus"`
}

// TierRule says whether a tier may export and, optionally, in which plan
// statuses. An empty Statuses list allows every status.
type TierRule struct {
	Export   bool     `yaml:"export" json:"export"`
	Statuses []Status `yaml:"statuses,omitempty" json:"statuses,omitempty"`
}

// AccessPolicy is the tier table consulted by CanExport. Tiers missing from
// the table cannot export.
type AccessPolicy struct {
	Tiers map[Tier]TierRule `yaml:"tiers" json:"tiers"`
}

func DefaultAccessPolicy() AccessPolicy {
	paid := TierRule{Export: true, Statuses: []Status{StatusTrial, StatusActive}}
	return AccessPolicy{Tiers: map[Tier]TierRule{
		TierFree:     {Export: false},
		TierPro:      paid,
		TierBusiness: paid,
	}}
}

// CanExport reports whether a plan may export client-facing documents.
// Admins always pass.
func (p AccessPolicy) CanExport(plan Plan, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	rule, ok := p.Tiers[normalizeTier(plan.Tier)]
	if !ok || !rule.Export {
		return false
	}
	if len(rule.Statuses) == 0 {
		return true
	}
	status := Status(strings.ToUpper(strings.TrimSpace(string(plan.Status))))
	for _, s := range rule.Statuses {
		if Status(strings.ToUpper(string(s))) == status {
			return true
		}
	}
	return false
}

func normalizeTier(t Tier) Tier {
	return Tier(strings.ToUpper(strings.TrimSpace(string(t))))
}

// Normalize upper-cases the table keys so a hand-written policy file can use any case.
func (p AccessPolicy) Normalize() AccessPolicy {
	out := AccessPolicy{Tiers: make(map[Tier]TierRule, len(p.Tiers))}
	for t, r := range p.Tiers {
		out.Tiers[normalizeTier(t)] = r
	}
	return out
}
