package orders

import "github.com/dukex/ikas-actions/pkg/ikas"

// Outcome is the result of fetching one order of a batch.
type Outcome struct {
	OrderID string
	Order   *ikas.Order
	Err     error
}

// Summary identifies a fetched order.
type Summary struct {
	ID          string
	OrderNumber string
}

// BatchResult holds one Outcome per requested ID, in request order.
type BatchResult struct {
	Outcomes []Outcome
}

func (r *BatchResult) Requested() int {
	return len(r.Outcomes)
}

// Succeeded returns the fetched orders in request order.
func (r *BatchResult) Succeeded() []Summary {
	summaries := make([]Summary, 0, len(r.Outcomes))

	for _, outcome := range r.Outcomes {
		if outcome.Err == nil && outcome.Order != nil {
			summaries = append(summaries, Summary{ID: outcome.Order.ID, OrderNumber: outcome.Order.OrderNumber})
		}
	}

	return summaries
}

// FailedIDs returns the requested IDs that could not be fetched, in request order.
func (r *BatchResult) FailedIDs() []string {
	var failed []string

	for _, outcome := range r.Outcomes {
		if outcome.Err != nil || outcome.Order == nil {
			failed = append(failed, outcome.OrderID)
		}
	}

	return failed
}

func (r *BatchResult) SuccessCount() int {
	return len(r.Succeeded())
}

func (r *BatchResult) FailedCount() int {
	return r.Requested() - r.SuccessCount()
}

// Success reports whether at least one order was fetched.
func (r *BatchResult) Success() bool {
	return r.SuccessCount() > 0
}
