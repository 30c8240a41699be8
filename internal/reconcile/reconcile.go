// Package reconcile checks that a job's itemised material lines add up to
// the materials total stored on the job.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"jobpack/internal/job"
	"jobpack/internal/quote"
)

// DefaultTolerance is one cent.
const DefaultTolerance quote.Cents = 1

type MaterialLister interface {
	GetJobMaterials(ctx context.Context, jobID uuid.UUID, ownerID uint64) ([]job.Material, error)
}

type Result struct {
	IsValid              bool     `json:"isValid"`
	LineCount            int      `json:"lineCount"`
	SumOfLineTotals      float64  `json:"sumOfLineTotals"`
	StoredMaterialsTotal *float64 `json:"storedMaterialsTotal"`
	Difference           float64  `json:"difference"`
	Message              string   `json:"message,omitempty"`
}

type Reconciler struct {
	Store     MaterialLister
	Tolerance quote.Cents
}

// Reconcile loads the lines for (jobID, ownerID) and checks them against storedTotal.
func (r *Reconciler) Reconcile(ctx context.Context, jobID uuid.UUID, ownerID uint64, storedTotal *float64) (Result, error) {
	lines, err := r.Store.GetJobMaterials(ctx, jobID, ownerID)
	if err != nil {
		return Result{}, eris.Wrap(err, "reconcile materials")
	}
	return Check(lines, storedTotal, r.Tolerance), nil
}

// Check compares the summed line totals against storedTotal. Null line
// totals count as zero and a missing stored total as zero. With no lines
// there is nothing to reconcile. A negative tolerance is treated as the default.
func Check(lines []job.Material, storedTotal *float64, tolerance quote.Cents) Result {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	res := Result{LineCount: len(lines), StoredMaterialsTotal: storedTotal}
	if len(lines) == 0 {
		res.IsValid = true
		return res
	}

	var sum quote.Cents
	for _, l := range lines {
		if l.LineTotal != nil {
			sum += quote.FromFloat(*l.LineTotal)
		}
	}
	var stored quote.Cents
	if storedTotal != nil {
		stored = quote.FromFloat(*storedTotal)
	}
	diff := stored - sum

	res.SumOfLineTotals = sum.Float()
	res.Difference = diff.Float()
	res.IsValid = abs(diff) <= tolerance
	if !res.IsValid {
		res.Message = mismatchMessage(sum, storedTotal, diff)
	}
	return res
}

func mismatchMessage(sum quote.Cents, storedTotal *float64, diff quote.Cents) string {
	if storedTotal == nil {
		return fmt.Sprintf("Itemised materials add up to %s but no materials total is saved on the job. Save the materials total before exporting.", sum)
	}
	return fmt.Sprintf("Itemised materials add up to %s but the job's materials total is %s (difference %s). Update the line items or the materials total before exporting.",
		sum, quote.FromFloat(*storedTotal), diff)
}

func abs(c quote.Cents) quote.Cents {
	if c < 0 {
		return -c
	}
	return c
}
