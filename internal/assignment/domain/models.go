package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "ACTIVE"
	AssignmentStatusInactive  AssignmentStatus = "INACTIVE"
	AssignmentStatusSuspended AssignmentStatus = "SUSPENDED"
)

// Assignment is a time-bounded association of a water box with a paying user.
type Assignment struct {
	ID         snowflake.ID     `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID     `gorm:"not null;index" json:"organization_id"`
	WaterBoxID snowflake.ID     `gorm:"not null;index" json:"water_box_id"`
	UserID     string           `gorm:"not null" json:"user_id"`
	UserName   string           `json:"user_name,omitempty"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	MonthlyFee decimal.Decimal  `gorm:"type:numeric(12,2)" json:"monthly_fee"`
	Status     AssignmentStatus `gorm:"not null;default:'ACTIVE'" json:"status"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
