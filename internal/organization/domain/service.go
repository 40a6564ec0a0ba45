package domain

import (
	"context"
	"errors"
)

type UpdateOrganizationRequest struct {
	Name    *string
	LogoURL *string
	Address *string
	Phone   *string
}

type Service interface {
	Get(ctx context.Context) (Organization, error)
	Update(ctx context.Context, req UpdateOrganizationRequest) (Organization, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrNotFound            = errors.New("not_found")
)
