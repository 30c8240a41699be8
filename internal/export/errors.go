package export

import (
	"errors"
	"net/http"
)

// Machine-readable codes carried in every failure body.
const (
	CodeNotAuthenticated     = "NOT_AUTHENTICATED"
	CodeNotFound             = "NOT_FOUND"
	CodeNotAuthorized        = "NOT_AUTHORIZED"
	CodePaidPlanRequired     = "PAID_PLAN_REQUIRED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeTotalsMismatch       = "TOTALS_MISMATCH"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL_ERROR"
)

// GateError is a user-actionable refusal. Everything else that escapes the
// service is an infrastructure failure.
type GateError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Hint    string `json:"hint,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *GateError) Error() string { return e.Code + ": " + e.Message }

// AsGateError unwraps err into a GateError when it is one.
func AsGateError(err error) (*GateError, bool) {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

func errNotAuthenticated() *GateError {
	return &GateError{Status: http.StatusUnauthorized, Code: CodeNotAuthenticated, Message: "Not authenticated"}
}

func errNotFound() *GateError {
	return &GateError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "Not found"}
}

func errNotAuthorized() *GateError {
	return &GateError{Status: http.StatusForbidden, Code: CodeNotAuthorized, Message: "Not authorized"}
}

func errPaidPlanRequired() *GateError {
	return &GateError{
		Status:  http.StatusForbidden,
		Code:    CodePaidPlanRequired,
		Message: "Exporting client-ready job packs requires a paid plan",
		Hint:    "Upgrade to Pro or Business to download and send job packs.",
	}
}

func errConfirmationRequired() *GateError {
	return &GateError{
		Status:  http.StatusBadRequest,
		Code:    CodeConfirmationRequired,
		Message: "AI-generated content has not been confirmed",
		Hint:    "Review the quote, scope and materials, then confirm them before exporting.",
	}
}

// MismatchDetails is the diagnostic payload of a TOTALS_MISMATCH refusal.
type MismatchDetails struct {
	SumOfLineTotals      float64  `json:"sumOfLineTotals"`
	StoredMaterialsTotal *float64 `json:"storedMaterialsTotal"`
	Difference           float64  `json:"difference"`
}

func errTotalsMismatch(msg string, d MismatchDetails) *GateError {
	return &GateError{
		Status:  http.StatusBadRequest,
		Code:    CodeTotalsMismatch,
		Message: msg,
		Hint:    "Fix the material line totals or the materials total so they agree, then export again.",
		Details: d,
	}
}

func errInvalidRequest(msg string) *GateError {
	return &GateError{Status: http.StatusBadRequest, Code: CodeInvalidRequest, Message: msg}
}

// ErrRateLimited is returned by the HTTP layer, not the service.
func ErrRateLimited() *GateError {
	return &GateError{
		Status:  http.StatusTooManyRequests,
		Code:    CodeRateLimited,
		Message: "Too many exports",
		Hint:    "Wait a minute and try again.",
	}
}
