package domain

import (
	"context"
	"errors"
	"time"

	"github.com/openjass/aquanet/pkg/db/pagination"
)

type CreateAssignmentRequest struct {
	WaterBoxID string
	UserID     string
	UserName   string
	StartDate  time.Time
	MonthlyFee string
}

type GetAssignmentRequest struct {
	ID string
}

type CloseAssignmentRequest struct {
	ID      string
	EndDate *time.Time
}

type ListAssignmentRequest struct {
	PageToken  string
	PageSize   int32
	WaterBoxID string
	UserID     string
	Status     string
}

type ListAssignmentFilter struct {
	WaterBoxID string
	UserID     string
	Status     string
}

type ListAssignmentResponse struct {
	pagination.PageInfo
	Assignments []Assignment `json:"assignments"`
}

type Service interface {
	Create(context.Context, CreateAssignmentRequest) (Assignment, error)
	List(context.Context, ListAssignmentRequest) (ListAssignmentResponse, error)
	GetByID(context.Context, GetAssignmentRequest) (Assignment, error)
	Close(context.Context, CloseAssignmentRequest) (Assignment, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidWaterBox     = errors.New("invalid_water_box")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidFee          = errors.New("invalid_fee")
	ErrInvalidID           = errors.New("invalid_id")
	ErrAlreadyAssigned     = errors.New("already_assigned")
	ErrAlreadyClosed       = errors.New("already_closed")
	ErrNotFound            = errors.New("not_found")
)
