package domain

import (
	"context"
	"errors"

	"github.com/openjass/aquanet/pkg/db/pagination"
)

type CreateWaterBoxRequest struct {
	Code    string
	Zone    string
	Address string
}

type UpdateWaterBoxRequest struct {
	ID      string
	Zone    *string
	Address *string
	Status  *string
}

type GetWaterBoxRequest struct {
	ID string
}

type ListWaterBoxRequest struct {
	PageToken string
	PageSize  int32
	Code      string
	Zone      string
	Status    string
}

type ListWaterBoxFilter struct {
	Code   string
	Zone   string
	Status string
}

type ListWaterBoxResponse struct {
	pagination.PageInfo
	WaterBoxes []WaterBox `json:"water_boxes"`
}

type Service interface {
	Create(context.Context, CreateWaterBoxRequest) (WaterBox, error)
	List(context.Context, ListWaterBoxRequest) (ListWaterBoxResponse, error)
	GetByID(context.Context, GetWaterBoxRequest) (WaterBox, error)
	Update(context.Context, UpdateWaterBoxRequest) (WaterBox, error)
	Archive(context.Context, GetWaterBoxRequest) (WaterBox, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrCodeExists          = errors.New("code_exists")
	ErrNotFound            = errors.New("not_found")
)
