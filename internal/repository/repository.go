package repository

import (
	"errors"

	"gorm.io/gorm"

	"strefex/pkg/apperror"
)

// Default and maximum page sizes for list operations
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams carries pagination and optional filters for list operations.
// Ordering is always by creation time, descending, so pagination is
// deterministic.
type ListParams struct {
	Page    int
	PerPage int
	Status  string
	Search  string
}

// Normalize clamps pagination to sane bounds
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized page
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// translate maps storage errors to the application taxonomy. A row that
// exists under another company surfaces as the same not-found as a missing
// row, so cross-tenant probing reveals nothing.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(resource + " already exists")
	}
	return err
}
