package service

import (
	"context"
	"strings"
	"time"

	"github.com/openjass/aquanet/internal/organization/domain"
	"github.com/openjass/aquanet/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("organization.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Organization, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Organization{}, domain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if item == nil {
		return domain.Organization{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateOrganizationRequest) (domain.Organization, error) {
	org, err := s.Get(ctx)
	if err != nil {
		return domain.Organization{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Organization{}, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.LogoURL != nil {
		org.LogoURL = strings.TrimSpace(*req.LogoURL)
	}
	if req.Address != nil {
		org.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		org.Phone = strings.TrimSpace(*req.Phone)
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &org); err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}
