package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, box *WaterBox) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*WaterBox, error)
	FindByIDs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]*WaterBox, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListWaterBoxFilter, page pagination.Pagination) ([]*WaterBox, error)
	Update(ctx context.Context, db *gorm.DB, box *WaterBox) error
}
