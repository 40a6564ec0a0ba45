package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, transfer *Transfer) error
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListTransferFilter, page pagination.Pagination) ([]*Transfer, error)
}
