package ledger

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultLimit is the number of records returned when a query sets none.
	DefaultLimit = 100

	// MaxLimit bounds a single query.
	MaxLimit = 10000
)

// ValidateQuery returns a *QueryError if q is malformed.
func ValidateQuery(q *Query) error {
	if q == nil {
		return NewQueryError(q, errors.New("query is nil"))
	}
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "asc", "desc":
	default:
		return NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}
	if q.Since != nil && q.Until != nil && q.Since.After(*q.Until) {
		return NewQueryError(q, errors.New("since must be before until"))
	}
	switch q.Outcome {
	case "", OutcomeSuccess, OutcomeFailure:
	default:
		return NewQueryError(q, fmt.Errorf("invalid outcome: %s (must be 'success' or 'failure')", q.Outcome))
	}
	return nil
}

// EffectiveLimit returns the limit to apply to q.
func (q *Query) EffectiveLimit() int {
	if q.Limit > 0 {
		return q.Limit
	}
	return DefaultLimit
}

// Ascending reports whether results are ordered oldest first.
func (q *Query) Ascending() bool {
	return strings.EqualFold(q.SortOrder, "asc")
}

// Matches reports whether r passes the filters of q. Pagination is not
// considered.
func (q *Query) Matches(r *Record) bool {
	if q.Since != nil && r.RecordedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.RecordedAt.After(*q.Until) {
		return false
	}
	if q.ConfigPath != "" && r.ConfigPath != q.ConfigPath {
		return false
	}
	if q.Mode != "" && r.Mode != q.Mode {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Trigger != "" && r.Trigger != q.Trigger {
		return false
	}
	return true
}
