package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"jobpack/internal/auth"
	"jobpack/internal/document"
	"jobpack/internal/job"
	"jobpack/internal/policy"
)

type fakeJobs struct {
	jobs          map[uuid.UUID]*job.Job
	lines         map[uuid.UUID][]job.Material
	err           error
	materialCalls atomic.Int32
}

func (f *fakeJobs) GetJobByID(_ context.Context, id uuid.UUID) (*job.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return nil, job.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) GetJobMaterials(_ context.Context, jobID uuid.UUID, ownerID uint64) ([]job.Material, error) {
	f.materialCalls.Add(1)
	var out []job.Material
	for _, m := range f.lines[jobID] {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeAccounts map[uint64]*auth.User

func (f fakeAccounts) GetAccount(_ context.Context, id uint64) (*auth.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

var (
	jobID   = uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000001")
	otherID = uuid.MustParse("9f8e7d6c-0000-4000-8000-000000000002")
)

const quoteJSON = `{"totalEstimate":{"description":"Supply and install hot water system","totalJobEstimate":"$2,400"}}`

func ptr[T any](v T) *T { return &v }

func line(owner uint64, total float64) job.Material {
	return job.Material{JobID: jobID, OwnerID: owner, Name: "Copper pipe", Quantity: 1, LineTotal: ptr(total)}
}

type fixture struct {
	svc  *Service
	jobs *fakeJobs
	accs fakeAccounts
}

func newFixture() *fixture {
	accs := fakeAccounts{
		1: {ID: 1, Email: "tradie@example.com", PlanTier: policy.TierPro, PlanStatus: policy.StatusActive, BusinessName: "Pipe Dreams Plumbing"},
		2: {ID: 2, PlanTier: policy.TierFree, PlanStatus: policy.StatusActive},
		3: {ID: 3, PlanTier: policy.TierFree, PlanStatus: policy.StatusActive, IsAdmin: true},
	}
	jobs := &fakeJobs{
		jobs: map[uuid.UUID]*job.Job{
			jobID: {
				ID: jobID, OwnerID: 1, Title: "Hot water replacement", ClientName: "Sam Client",
				AIReviewStatus: job.ReviewConfirmed, AIQuote: quoteJSON,
				AIScopeOfWork: "Isolate supply\nRemove old unit\nInstall new unit",
			},
			otherID: {ID: otherID, OwnerID: 2, AIReviewStatus: job.ReviewConfirmed, AIQuote: quoteJSON},
		},
		lines: map[uuid.UUID][]job.Material{},
	}
	svc := &Service{
		Jobs:     jobs,
		Accounts: accs,
		Policy:   policy.DefaultExportPolicy(),
		Now:      func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) },
		Logger:   discardLogger(),
	}
	return &fixture{svc: svc, jobs: jobs, accs: accs}
}

func gateCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	ge, ok := AsGateError(err)
	if !ok {
		t.Fatalf("expected a gate error, got %v", err)
	}
	return ge.Code
}

func TestExportGateOrder(t *testing.T) {
	tests := []struct {
		name     string
		caller   *uint64
		jobID    string
		format   string
		setup    func(f *fixture)
		wantCode string
		status   int
	}{
		{name: "anonymous", caller: nil, jobID: jobID.String(), wantCode: CodeNotAuthenticated, status: http.StatusUnauthorized},
		{name: "caller account gone", caller: ptr(uint64(99)), jobID: jobID.String(), wantCode: CodeNotAuthenticated, status: http.StatusUnauthorized},
		{name: "anonymous with bad format", caller: nil, jobID: jobID.String(), format: "poster", wantCode: CodeNotAuthenticated, status: http.StatusUnauthorized},
		{name: "unknown format", caller: ptr(uint64(1)), jobID: jobID.String(), format: "poster", wantCode: CodeInvalidRequest, status: http.StatusBadRequest},
		{name: "malformed job id", caller: ptr(uint64(1)), jobID: "not-a-uuid", wantCode: CodeNotFound, status: http.StatusNotFound},
		{name: "missing job", caller: ptr(uint64(1)), jobID: uuid.NewString(), wantCode: CodeNotFound, status: http.StatusNotFound},
		{name: "someone else's job", caller: ptr(uint64(1)), jobID: otherID.String(), wantCode: CodeNotAuthorized, status: http.StatusForbidden},
		{
			name: "free plan", caller: ptr(uint64(1)), jobID: jobID.String(),
			setup:    func(f *fixture) { f.accs[1].PlanTier = policy.TierFree },
			wantCode: CodePaidPlanRequired, status: http.StatusForbidden,
		},
		{
			name: "plan checked before confirmation", caller: ptr(uint64(2)), jobID: otherID.String(),
			setup:    func(f *fixture) { f.jobs.jobs[otherID].AIReviewStatus = job.ReviewDraft },
			wantCode: CodePaidPlanRequired, status: http.StatusForbidden,
		},
		{
			name: "pending review", caller: ptr(uint64(1)), jobID: jobID.String(),
			setup:    func(f *fixture) { f.jobs.jobs[jobID].AIReviewStatus = job.ReviewPendingReview },
			wantCode: CodeConfirmationRequired, status: http.StatusBadRequest,
		},
		{
			name: "totals mismatch", caller: ptr(uint64(1)), jobID: jobID.String(),
			setup: func(f *fixture) {
				f.jobs.jobs[jobID].MaterialsTotal = ptr(26.00)
				f.jobs.lines[jobID] = []job.Material{line(1, 10.00), line(1, 15.50)}
			},
			wantCode: CodeTotalsMismatch, status: http.StatusBadRequest,
		},
		{name: "admin exports someone else's job", caller: ptr(uint64(3)), jobID: otherID.String()},
		{name: "owner exports", caller: ptr(uint64(1)), jobID: jobID.String(), format: "compact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			art, err := f.svc.Export(context.Background(), Request{CallerID: tt.caller, JobID: tt.jobID, Format: tt.format})
			if got := gateCode(t, err); got != tt.wantCode {
				t.Fatalf("code = %q, want %q", got, tt.wantCode)
			}
			if tt.wantCode != "" {
				ge, _ := AsGateError(err)
				if ge.Status != tt.status {
					t.Errorf("status = %d, want %d", ge.Status, tt.status)
				}
				if art != nil {
					t.Error("refusals must not return a document")
				}
				return
			}
			if art == nil || !bytes.HasPrefix(art.Body, []byte("%PDF")) {
				t.Fatal("expected a PDF body")
			}
		})
	}
}

func TestConfirmationNotBypassedByAdminOrPlan(t *testing.T) {
	callers := []*auth.User{
		{ID: 1, PlanTier: policy.TierPro, PlanStatus: policy.StatusActive},
		{ID: 1, PlanTier: policy.TierBusiness, PlanStatus: policy.StatusTrial},
		{ID: 1, PlanTier: policy.TierFree, PlanStatus: policy.StatusCanceled, IsAdmin: true},
		{ID: 1, PlanTier: policy.TierPro, PlanStatus: policy.StatusActive, IsAdmin: true},
	}
	for _, status := range []job.ReviewStatus{job.ReviewDraft, job.ReviewPendingReview, "", "CONFIRMED"} {
		for _, caller := range callers {
			f := newFixture()
			f.accs[1] = caller
			f.jobs.jobs[jobID].AIReviewStatus = status
			_, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String()})
			if got := gateCode(t, err); got != CodeConfirmationRequired {
				t.Errorf("status %q caller %+v: code = %q", status, caller.Plan(), got)
			}
		}
	}
}

func TestPlanGate(t *testing.T) {
	tiers := []policy.Tier{policy.TierFree, policy.TierPro, policy.TierBusiness, "ENTERPRISE"}
	statuses := []policy.Status{policy.StatusTrial, policy.StatusActive, policy.StatusPastDue, policy.StatusCanceled}
	table := policy.DefaultAccessPolicy()

	for _, tier := range tiers {
		for _, status := range statuses {
			for _, admin := range []bool{false, true} {
				f := newFixture()
				f.accs[1] = &auth.User{ID: 1, PlanTier: tier, PlanStatus: status, IsAdmin: admin}
				_, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String()})

				allowed := admin || table.CanExport(policy.Plan{Tier: tier, Status: status}, false)
				got := gateCode(t, err)
				if allowed && got != "" {
					t.Errorf("%s/%s admin=%v: unexpected refusal %q", tier, status, admin, got)
				}
				if !allowed && got != CodePaidPlanRequired {
					t.Errorf("%s/%s admin=%v: code = %q, want PAID_PLAN_REQUIRED", tier, status, admin, got)
				}
			}
		}
	}
}

func TestTotalsMismatchDetails(t *testing.T) {
	f := newFixture()
	f.jobs.jobs[jobID].MaterialsTotal = ptr(26.00)
	f.jobs.lines[jobID] = []job.Material{line(1, 10.00), line(1, 15.50)}

	_, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String()})
	ge, ok := AsGateError(err)
	if !ok || ge.Code != CodeTotalsMismatch {
		t.Fatalf("err = %v", err)
	}
	d, ok := ge.Details.(MismatchDetails)
	if !ok {
		t.Fatalf("details = %T", ge.Details)
	}
	if d.SumOfLineTotals != 25.50 || d.StoredMaterialsTotal == nil || *d.StoredMaterialsTotal != 26.00 || d.Difference != 0.50 {
		t.Errorf("details = %+v", d)
	}
	if !strings.Contains(ge.Message, "$25.50") || ge.Hint == "" {
		t.Errorf("message not actionable: %q / %q", ge.Message, ge.Hint)
	}

	f.jobs.jobs[jobID].MaterialsTotal = ptr(25.51)
	if _, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String()}); err != nil {
		t.Errorf("one cent drift should pass, got %v", err)
	}
}

func TestExportEndToEnd(t *testing.T) {
	f := newFixture()
	art, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String(), Output: "xlsx"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Filename != "job-pack-1a2b3c4d.xlsx" {
		t.Errorf("filename = %q", art.Filename)
	}
	if f.jobs.materialCalls.Load() != 1 {
		t.Errorf("material lines loaded %d times", f.jobs.materialCalls.Load())
	}

	wb, err := excelize.OpenReader(bytes.NewReader(art.Body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows("Job Pack")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}

	var pricing, total, materials bool
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		switch {
		case r[0] == "Pricing":
			pricing = true
		case r[0] == "Total estimate" && len(r) > 1 && r[1] == "$2,400":
			total = true
		case r[0] == "Materials" || r[0] == "Materials estimate":
			materials = true
		}
	}
	if !pricing || !total {
		t.Errorf("pricing section missing: pricing=%v total=%v", pricing, total)
	}
	if materials {
		t.Error("materials section should be absent")
	}
	if rows[0][0] != "Pipe Dreams Plumbing" {
		t.Errorf("issuer = %v", rows[0])
	}
}

func TestExportUsesOwnerAsIssuerForAdmins(t *testing.T) {
	f := newFixture()
	f.accs[2].BusinessName = "Sparky Co"
	f.accs[3].BusinessName = "Head Office"

	art, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(3)), JobID: otherID.String(), Format: "compact", Output: "xlsx"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Filename != "quote-summary-9f8e7d6c.xlsx" {
		t.Errorf("filename = %q", art.Filename)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(art.Body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()
	first, _ := wb.GetCellValue("Job Pack", "A1")
	if first != "Sparky Co" {
		t.Errorf("issuer = %q, want the job owner's business", first)
	}
}

func TestExportInfrastructureFailure(t *testing.T) {
	f := newFixture()
	f.jobs.err = errors.New("connection reset")
	_, err := f.svc.Export(context.Background(), Request{CallerID: ptr(uint64(1)), JobID: jobID.String()})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := AsGateError(err); ok {
		t.Error("infrastructure failures must not look like gate refusals")
	}
}

type panicRenderer struct{}

func (panicRenderer) ContentType() string { return "application/octet-stream" }
func (panicRenderer) Extension() string   { return "bin" }
func (panicRenderer) Render(io.Writer, []document.Section, document.Layout) error {
	panic("font table corrupt")
}

func TestBuildRecoversFromRendererPanic(t *testing.T) {
	f := newFixture()
	j := f.jobs.jobs[jobID]
	body, err := build(document.Input{Job: j}, document.Standard(), panicRenderer{})
	if err == nil || body != nil {
		t.Fatalf("body=%v err=%v", body, err)
	}
}

func TestEstimateAndReconciliation(t *testing.T) {
	f := newFixture()
	est, err := f.svc.Estimate(context.Background(), ptr(uint64(1)), jobID.String())
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.BaseTotal == nil || *est.BaseTotal != 2400 || est.FormattedRange != "$2,400 – $2,900" {
		t.Errorf("estimate = %+v", est)
	}

	if _, err := f.svc.Estimate(context.Background(), ptr(uint64(1)), otherID.String()); gateCode(t, err) != CodeNotAuthorized {
		t.Errorf("estimate on another owner's job: %v", err)
	}

	f.jobs.jobs[jobID].MaterialsTotal = ptr(26.00)
	f.jobs.lines[jobID] = []job.Material{line(1, 10.00), line(1, 15.50), line(2, 99)}
	res, err := f.svc.Reconciliation(context.Background(), ptr(uint64(1)), jobID.String())
	if err != nil {
		t.Fatalf("reconciliation: %v", err)
	}
	if res.IsValid || res.LineCount != 2 || res.Difference != 0.5 {
		t.Errorf("result = %+v", res)
	}
}
