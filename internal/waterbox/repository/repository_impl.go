package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/waterbox/domain"
	"github.com/openjass/aquanet/pkg/db/option"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, box *domain.WaterBox) error {
	return db.WithContext(ctx).Create(box).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.WaterBox, error) {
	var box domain.WaterBox
	err := db.WithContext(ctx).
		Model(&domain.WaterBox{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Scan(&box).Error
	if err != nil {
		return nil, err
	}
	if box.ID == 0 {
		return nil, nil
	}
	return &box, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]*domain.WaterBox, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var boxes []*domain.WaterBox
	err := db.WithContext(ctx).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Find(&boxes).Error
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListWaterBoxFilter, page pagination.Pagination) ([]*domain.WaterBox, error) {
	var boxes []*domain.WaterBox
	stmt := db.WithContext(ctx).
		Model(&domain.WaterBox{}).
		Where("org_id = ?", orgID)
	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Zone != "" {
		stmt = stmt.Where("zone = ?", filter.Zone)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&boxes).Error
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, box *domain.WaterBox) error {
	return db.WithContext(ctx).
		Model(&domain.WaterBox{}).
		Where("org_id = ? AND id = ?", box.OrgID, box.ID).
		Updates(map[string]any{
			"zone":       box.Zone,
			"address":    box.Address,
			"status":     box.Status,
			"updated_at": box.UpdatedAt,
		}).Error
}
