package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultTimeout bounds every pipeline execution. A query that outlives it
// surfaces as an ExecError, not a hung request.
const DefaultTimeout = 5 * time.Second

// ErrInvalidPage is returned when pageNumber or pageSize is below 1.
var ErrInvalidPage = errors.New("page and limit must be at least 1")

// PageRequest is the transient pagination input, built per call.
type PageRequest struct {
	Page  int
	Limit int
}

// Validate checks the page bounds.
func (p PageRequest) Validate() error {
	if p.Page < 1 || p.Limit < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Page is the derived result envelope, recomputed every call.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ExecError wraps an underlying store failure during pipeline execution.
// It is never swallowed; callers map it to a 500 at the boundary.
type ExecError struct {
	Table string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("query on %s failed: %v", e.Table, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Run executes a filter -> join -> project -> sort -> paginate pipeline over
// table and scans the page rows into T. Pagination is applied after all
// filtering and joining, so TotalPages reflects the post-filter count. An
// empty match is not an error: the result has zero items and TotalPages 0.
func Run[T any](ctx context.Context, db *gorm.DB, table string, stages []Stage, page PageRequest) (*Page[T], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := checkIdent(table); err != nil {
		return nil, err
	}

	p, err := buildPlan(stages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	// Count the post-filter row set first; projection and ordering do not
	// affect it.
	countTx := p.applyFilters(db.WithContext(ctx).Table(table), table)
	var total int64
	if err := countTx.Count(&total).Error; err != nil {
		return nil, &ExecError{Table: table, Err: err}
	}

	result := &Page[T]{
		Items:      []T{},
		TotalItems: total,
		Page:       page.Page,
		Limit:      page.Limit,
	}
	if total == 0 {
		return result, nil
	}
	result.TotalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))

	tx := p.applyShape(p.applyFilters(db.WithContext(ctx).Table(table), table), table)

	offset := (page.Page - 1) * page.Limit
	if err := tx.Limit(page.Limit).Offset(offset).Scan(&result.Items).Error; err != nil {
		return nil, &ExecError{Table: table, Err: err}
	}

	return result, nil
}
