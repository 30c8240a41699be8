package policy

import (
	"testing"

	"jobpack/internal/job"
)

func TestCanExport(t *testing.T) {
	p := DefaultAccessPolicy()
	tests := []struct {
		name    string
		plan    Plan
		isAdmin bool
		want    bool
	}{
		{"free trial", Plan{TierFree, StatusTrial}, false, false},
		{"free active", Plan{TierFree, StatusActive}, false, false},
		{"pro trial", Plan{TierPro, StatusTrial}, false, true},
		{"pro active", Plan{TierPro, StatusActive}, false, true},
		{"pro past due", Plan{TierPro, StatusPastDue}, false, false},
		{"pro canceled", Plan{TierPro, StatusCanceled}, false, false},
		{"business active", Plan{TierBusiness, StatusActive}, false, true},
		{"lower case input", Plan{"pro", "active"}, false, true},
		{"unknown tier", Plan{"ENTERPRISE", StatusActive}, false, false},
		{"empty plan", Plan{}, false, false},
		{"admin on free", Plan{TierFree, StatusTrial}, true, true},
		{"admin with no plan", Plan{}, true, true},
		{"admin canceled", Plan{TierPro, StatusCanceled}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanExport(tt.plan, tt.isAdmin); got != tt.want {
				t.Errorf("CanExport(%+v, %v) = %v, want %v", tt.plan, tt.isAdmin, got, tt.want)
			}
		})
	}
}

func TestCanExportNewTierIsData(t *testing.T) {
	p := DefaultAccessPolicy()
	p.Tiers["ENTERPRISE"] = TierRule{Export: true}

	if !p.CanExport(Plan{"ENTERPRISE", StatusPastDue}, false) {
		t.Error("a rule with no statuses should allow any status")
	}
}

func TestNormalize(t *testing.T) {
	p := AccessPolicy{Tiers: map[Tier]TierRule{"pro ": {Export: true}}}.Normalize()
	if !p.CanExport(Plan{TierPro, StatusActive}, false) {
		t.Error("normalized keys should match upper-case tiers")
	}
}

func TestIsExportReady(t *testing.T) {
	tests := []struct {
		status job.ReviewStatus
		want   bool
	}{
		{job.ReviewDraft, false},
		{job.ReviewPendingReview, false},
		{job.ReviewConfirmed, true},
		{"", false},
		{"CONFIRMED", false},
	}
	for _, tt := range tests {
		if got := IsExportReady(&job.Job{AIReviewStatus: tt.status}); got != tt.want {
			t.Errorf("IsExportReady(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
	if IsExportReady(nil) {
		t.Error("nil job must not be export ready")
	}
}
