package option

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination applies cursor pagination: seek past the cursor position and
// fetch one row beyond the page size so the caller can detect a next page.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	if o.page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(o.page.PageToken)
		if err == nil && cursor != nil && cursor.CreatedAt != "" {
			createdAt, timeErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			id, idErr := snowflake.ParseString(cursor.ID)
			if timeErr == nil && idErr == nil {
				stmt = stmt.Where(
					"(created_at < ?) OR (created_at = ? AND id < ?)",
					createdAt, createdAt, int64(id),
				)
			}
		}
	}

	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}
	return stmt.Limit(size + 1)
}
