package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type WaterBoxStatus string

const (
	WaterBoxStatusActive   WaterBoxStatus = "ACTIVE"
	WaterBoxStatusInactive WaterBoxStatus = "INACTIVE"
)

// WaterBox is a physical water-supply connection point identified by a code.
type WaterBox struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"not null;index;uniqueIndex:water_boxes_org_code_key" json:"organization_id"`
	Code      string            `gorm:"not null;uniqueIndex:water_boxes_org_code_key" json:"code"`
	Zone      string            `json:"zone,omitempty"`
	Address   string            `json:"address,omitempty"`
	Status    WaterBoxStatus    `gorm:"not null;default:'ACTIVE'" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (WaterBox) TableName() string { return "water_boxes" }
