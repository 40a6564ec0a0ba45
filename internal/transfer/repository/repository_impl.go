package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/transfer/domain"
	"github.com/openjass/aquanet/pkg/db/option"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, transfer *domain.Transfer) error {
	return db.WithContext(ctx).Create(transfer).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListTransferFilter, page pagination.Pagination) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	stmt := db.WithContext(ctx).
		Model(&domain.Transfer{}).
		Where("org_id = ?", orgID)
	if filter.WaterBoxID != "" {
		stmt = stmt.Where("water_box_id = ?", filter.WaterBoxID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
