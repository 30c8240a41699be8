// Package export runs the export gates in their fixed order and turns a
// job snapshot into a rendered document.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"jobpack/internal/auth"
	"jobpack/internal/document"
	"jobpack/internal/job"
	"jobpack/internal/logger"
	"jobpack/internal/policy"
	"jobpack/internal/quote"
	"jobpack/internal/reconcile"
	"jobpack/internal/render"
)

// Jobs is the read side of the job store. Both lookups fail closed.
type Jobs interface {
	GetJobByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	GetJobMaterials(ctx context.Context, jobID uuid.UUID, ownerID uint64) ([]job.Material, error)
}

type Accounts interface {
	GetAccount(ctx context.Context, id uint64) (*auth.User, error)
}

type Service struct {
	Jobs     Jobs
	Accounts Accounts
	Policy   policy.ExportPolicy
	// ReferencePrefix starts document references; empty means "JP".
	ReferencePrefix string
	Logger          *slog.Logger
	// Now stamps the issue date; tests pin it.
	Now func() time.Time
}

type Request struct {
	// CallerID is nil for anonymous requests.
	CallerID *uint64
	JobID    string
	Format   string
	Output   string
}

// Artifact is a fully rendered document.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// access is what the first three gates establish.
type access struct {
	caller *auth.User
	job    *job.Job
}

// Export evaluates the gates and renders the document. Refusals come back as
// *GateError; any other error is an infrastructure failure and carries no
// partial document.
func (s *Service) Export(ctx context.Context, req Request) (*Artifact, error) {
	log := logger.FromContext(ctx, s.Logger)

	var (
		layout   document.Layout
		renderer render.Renderer
	)
	a, err := s.authorize(ctx, req.CallerID, req.JobID, func() error {
		var err error
		if layout, err = document.ParseLayout(req.Format, s.Policy.CompactCaps); err != nil {
			return errInvalidRequest(fmt.Sprintf("unknown format %q", req.Format))
		}
		if renderer, err = render.ByName(req.Output); err != nil {
			return errInvalidRequest(fmt.Sprintf("unknown output %q", req.Output))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	j := a.job
	log = log.With("job_id", j.ID.String())

	if !s.Policy.Access.CanExport(a.caller.Plan(), a.caller.IsAdmin) {
		log.Info("export refused", "code", CodePaidPlanRequired, "plan_tier", a.caller.PlanTier)
		return nil, errPaidPlanRequired()
	}
	if !policy.IsExportReady(j) {
		log.Info("export refused", "code", CodeConfirmationRequired, "review_status", j.AIReviewStatus)
		return nil, errConfirmationRequired()
	}

	var (
		lines []job.Material
		owner = a.caller
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = s.Jobs.GetJobMaterials(gctx, j.ID, j.OwnerID)
		return err
	})
	if j.OwnerID != a.caller.ID {
		g.Go(func() error {
			u, err := s.Accounts.GetAccount(gctx, j.OwnerID)
			if errors.Is(err, auth.ErrUserNotFound) {
				// The issuer block falls back to a generic heading.
				owner = &auth.User{ID: j.OwnerID}
				return nil
			}
			if err != nil {
				return err
			}
			owner = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "load export snapshot")
	}

	if len(lines) > 0 {
		res := reconcile.Check(lines, j.MaterialsTotal, s.Policy.Tolerance())
		if !res.IsValid {
			log.Info("export refused", "code", CodeTotalsMismatch, "difference", res.Difference)
			return nil, errTotalsMismatch(res.Message, MismatchDetails{
				SumOfLineTotals:      res.SumOfLineTotals,
				StoredMaterialsTotal: res.StoredMaterialsTotal,
				Difference:           res.Difference,
			})
		}
	}

	in := document.Input{
		Job:       j,
		Materials: lines,
		Issuer: document.Issuer{
			BusinessName: owner.BusinessName,
			ABN:          owner.ABN,
			Licences:     owner.Licences,
			Phone:        owner.Phone,
			Email:        owner.Email,
		},
		IssuedAt:        s.now(),
		ReferencePrefix: s.ReferencePrefix,
	}
	body, err := build(in, layout, renderer)
	if err != nil {
		return nil, eris.Wrapf(err, "render %s %s", layout.Name, renderer.Extension())
	}

	log.Info("export rendered", "layout", layout.Name, "output", renderer.Extension(), "bytes", len(body))
	return &Artifact{
		Filename:    Filename(layout, renderer, j.ID),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Filename is "<doc-type>-<first 8 of the job id>.<ext>".
func Filename(layout document.Layout, r render.Renderer, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s.%s", layout.DocType, id.String()[:8], r.Extension())
}

// build composes and renders into memory so nothing reaches the client
// unless the whole document was produced.
func build(in document.Input, layout document.Layout, r render.Renderer) (body []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			body = nil
			err = eris.Errorf("panic while building document: %v", p)
		}
	}()
	sections := document.Compose(in, layout)
	var buf bytes.Buffer
	if err := r.Render(&buf, sections, layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Estimate returns the pricing range preview of a job the caller may see.
func (s *Service) Estimate(ctx context.Context, callerID *uint64, jobID string) (quote.EstimateRange, error) {
	a, err := s.authorize(ctx, callerID, jobID, nil)
	if err != nil {
		return quote.EstimateRange{}, err
	}
	return quote.CalculateEstimateRange(a.job.AIQuote), nil
}

// Reconciliation reports whether a job's material lines agree with its stored total.
func (s *Service) Reconciliation(ctx context.Context, callerID *uint64, jobID string) (reconcile.Result, error) {
	a, err := s.authorize(ctx, callerID, jobID, nil)
	if err != nil {
		return reconcile.Result{}, err
	}
	r := &reconcile.Reconciler{Store: s.Jobs, Tolerance: s.Policy.Tolerance()}
	return r.Reconcile(ctx, a.job.ID, a.job.OwnerID, a.job.MaterialsTotal)
}

// authorize runs the authentication, existence and ownership gates. validate,
// when given, runs once the caller is known and before the job is looked up.
func (s *Service) authorize(ctx context.Context, callerID *uint64, jobID string, validate func() error) (*access, error) {
	if callerID == nil {
		return nil, errNotAuthenticated()
	}
	caller, err := s.Accounts.GetAccount(ctx, *callerID)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, errNotAuthenticated()
	}
	if err != nil {
		return nil, eris.Wrap(err, "load caller")
	}

	if validate != nil {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	id, err := uuid.Parse(strings.TrimSpace(jobID))
	if err != nil {
		return nil, errNotFound()
	}
	j, err := s.Jobs.GetJobByID(ctx, id)
	if errors.Is(err, job.ErrNotFound) {
		return nil, errNotFound()
	}
	if err != nil {
		return nil, eris.Wrap(err, "load job")
	}

	if j.OwnerID != caller.ID && !caller.IsAdmin {
		return nil, errNotAuthorized()
	}
	return &access{caller: caller, job: j}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
