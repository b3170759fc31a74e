// internal/app/system/querybuilder/exec.go
package querybuilder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination derives TotalPages as ceil(total/limit) without the
// total+limit-1 overflow. A non-positive limit falls back to DefaultLimit.
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := 0
	if total > 0 {
		l := int64(limit)
		pages = int(total / l)
		if total%l != 0 {
			pages++
		}
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Find executes the finalized query and decodes every document into T.
func Find[T any](ctx context.Context, b Builder) ([]T, error) {
	cur, err := b.src.Find(ctx, b.Predicate(), b.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("querybuilder find: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("querybuilder decode: %w", err)
	}
	return out, nil
}

// List runs Find and PaginationInfo concurrently and returns both.
// Either failure cancels the other and is returned.
func List[T any](ctx context.Context, b Builder) ([]T, Pagination, error) {
	var (
		rows []T
		pg   Pagination
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = Find[T](gctx, b)
		return err
	})
	g.Go(func() error {
		var err error
		pg, err = b.PaginationInfo(gctx)
		if err != nil {
			return fmt.Errorf("querybuilder count: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, Pagination{}, err
	}
	return rows, pg, nil
}
