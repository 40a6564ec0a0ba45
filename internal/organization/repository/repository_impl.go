package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", org.ID).
		Updates(map[string]any{
			"name":       org.Name,
			"logo_url":   org.LogoURL,
			"address":    org.Address,
			"phone":      org.Phone,
			"updated_at": org.UpdatedAt,
		}).Error
}
