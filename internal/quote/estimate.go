package quote

import "math"

const (
	// HighEstimateFactor scales the base total up to the top of the quoted range.
	HighEstimateFactor = 1.2
	// rangeStep rounds the high estimate up to the next $50.
	rangeStep Cents = 5000
)

// EstimateRange is the low/high price band shown on previews and exports.
// BaseTotal is nil when no positive total can be derived.
type EstimateRange struct {
	BaseTotal      *float64 `json:"baseTotal"`
	HighEstimate   *float64 `json:"highEstimate"`
	FormattedRange string   `json:"formattedRange"`
}

func CalculateEstimateRange(raw string) EstimateRange {
	total, ok := Parse(raw).Total()
	if !ok || total <= 0 {
		return EstimateRange{}
	}
	high := HighEstimate(total)
	base, top := total.Float(), high.Float()
	return EstimateRange{
		BaseTotal:      &base,
		HighEstimate:   &top,
		FormattedRange: FormatAUD(total) + " – " + FormatAUD(high),
	}
}

// HighEstimate applies HighEstimateFactor and rounds up to the next step.
func HighEstimate(base Cents) Cents {
	high := Cents(math.Round(float64(base) * HighEstimateFactor))
	if rem := high % rangeStep; rem != 0 {
		high += rangeStep - rem
	}
	return high
}
