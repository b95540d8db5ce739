// Package paginate turns 1-indexed page/size pairs into slicing bounds.
//
// Limit is an absolute upper bound (skip + size), not a count: a page covers
// the half-open range [Skip, Limit) of the ordered sequence. Stores that take
// a count receive Limit()-Skip().
package paginate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRequest is returned by Validate for a page or size below 1.
	ErrInvalidRequest = errors.New("page and size must be at least 1")
	// ErrOutOfRange is returned by Validate when Page*Size does not fit in an int64.
	ErrOutOfRange = errors.New("page is out of range")
)

// Request is a 1-indexed page of Size elements.
type Request struct {
	Page int64
	Size int64
}

// Validate checks both fields are at least 1 and that Limit does not overflow.
func (r Request) Validate() error {
	if r.Page < 1 || r.Size < 1 {
		return fmt.Errorf("%w: page=%d size=%d", ErrInvalidRequest, r.Page, r.Size)
	}
	if r.Page > math.MaxInt64/r.Size {
		return fmt.Errorf("%w: page=%d size=%d", ErrOutOfRange, r.Page, r.Size)
	}
	return nil
}

// Skip is the number of elements before the page.
func (r Request) Skip() int64 { return (r.Page - 1) * r.Size }

// Limit is the exclusive upper bound of the page.
func (r Request) Limit() int64 { return r.Skip() + r.Size }

// Count is the number of elements a store should return for this page.
func (r Request) Count() int64 { return r.Limit() - r.Skip() }

// Slice returns the elements of items in [Skip, Limit), clamped to len(items).
func Slice[T any](items []T, r Request) []T {
	n := int64(len(items))
	start, end := r.Skip(), r.Limit()
	if start >= n || start < 0 {
		return nil
	}
	if end > n {
		end = n
	}
	return items[start:end]
}

// Page is one page of results. Total counts every matching element, not just Items.
type Page[T any] struct {
	Items []T
	Page  int64
	Size  int64
	Total int64
}

// New builds a Page for r.
func New[T any](items []T, r Request, total int64) Page[T] {
	return Page[T]{Items: items, Page: r.Page, Size: r.Size, Total: total}
}

// Empty reports whether the page holds no elements. An empty page is a valid
// result, not an error.
func (p Page[T]) Empty() bool { return len(p.Items) == 0 }
