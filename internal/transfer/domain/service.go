package domain

import (
	"context"
	"errors"

	"github.com/openjass/aquanet/pkg/db/pagination"
)

type CreateTransferRequest struct {
	WaterBoxID string
	ToUserID   string
	ToUserName string
	MonthlyFee string
	Reason     string
}

type ListTransferRequest struct {
	PageToken  string
	PageSize   int32
	WaterBoxID string
}

type ListTransferFilter struct {
	WaterBoxID string
}

type ListTransferResponse struct {
	pagination.PageInfo
	Transfers []Transfer `json:"transfers"`
}

type Service interface {
	Create(context.Context, CreateTransferRequest) (Transfer, error)
	List(context.Context, ListTransferRequest) (ListTransferResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidWaterBox     = errors.New("invalid_water_box")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidFee          = errors.New("invalid_fee")
	ErrNoActiveAssignment  = errors.New("no_active_assignment")
	ErrSameUser            = errors.New("same_user")
)
