package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, assignment *Assignment) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Assignment, error)
	FindActiveByWaterBox(ctx context.Context, db *gorm.DB, orgID, waterBoxID snowflake.ID) (*Assignment, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListAssignmentFilter, page pagination.Pagination) ([]*Assignment, error)
	ListAll(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListAssignmentFilter) ([]*Assignment, error)
	Update(ctx context.Context, db *gorm.DB, assignment *Assignment) error
}
