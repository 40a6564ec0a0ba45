package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Transfer records the reassignment of a water box from one user to another.
type Transfer struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID `gorm:"not null;index" json:"organization_id"`
	WaterBoxID       snowflake.ID `gorm:"not null;index" json:"water_box_id"`
	FromAssignmentID snowflake.ID `gorm:"not null" json:"from_assignment_id"`
	ToAssignmentID   snowflake.ID `gorm:"not null" json:"to_assignment_id"`
	FromUserID       string       `gorm:"not null" json:"from_user_id"`
	ToUserID         string       `gorm:"not null" json:"to_user_id"`
	Reason           string       `json:"reason,omitempty"`
	TransferredAt    time.Time    `gorm:"not null" json:"transferred_at"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
