package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/assignment/domain"
	"github.com/openjass/aquanet/pkg/db/option"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, assignment *domain.Assignment) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) FindActiveByWaterBox(ctx context.Context, db *gorm.DB, orgID, waterBoxID snowflake.ID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := db.WithContext(ctx).
		Where("org_id = ? AND water_box_id = ? AND status = ?", orgID, waterBoxID, domain.AssignmentStatusActive).
		Order("start_date desc").
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListAssignmentFilter) *gorm.DB {
	if filter.WaterBoxID != "" {
		stmt = stmt.Where("water_box_id = ?", filter.WaterBoxID)
	}
	if filter.UserID != "" {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListAssignmentFilter, page pagination.Pagination) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	stmt := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("org_id = ?", orgID)
	stmt = applyFilter(stmt, filter)
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListAssignmentFilter) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	stmt := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("org_id = ?", orgID)
	stmt = applyFilter(stmt, filter)
	err := stmt.
		Order("start_date asc, id asc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, assignment *domain.Assignment) error {
	return db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("org_id = ? AND id = ?", assignment.OrgID, assignment.ID).
		Updates(map[string]any{
			"user_name":  assignment.UserName,
			"end_date":   assignment.EndDate,
			"status":     assignment.Status,
			"updated_at": assignment.UpdatedAt,
		}).Error
}
