package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/orgcontext"
	"github.com/openjass/aquanet/internal/waterbox/domain"
	"github.com/openjass/aquanet/pkg/db"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("waterbox.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateWaterBoxRequest) (domain.WaterBox, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.WaterBox{}, domain.ErrInvalidOrganization
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.WaterBox{}, domain.ErrInvalidCode
	}

	now := time.Now().UTC()
	box := domain.WaterBox{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Code:      code,
		Zone:      strings.TrimSpace(req.Zone),
		Address:   strings.TrimSpace(req.Address),
		Status:    domain.WaterBoxStatusActive,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &box); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.WaterBox{}, domain.ErrCodeExists
		}
		return domain.WaterBox{}, err
	}

	return box, nil
}

func (s *Service) List(ctx context.Context, req domain.ListWaterBoxRequest) (domain.ListWaterBoxResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListWaterBoxResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListWaterBoxFilter{
		Code:   strings.TrimSpace(req.Code),
		Zone:   strings.TrimSpace(req.Zone),
		Status: strings.ToUpper(strings.TrimSpace(req.Status)),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListWaterBoxResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(box *domain.WaterBox) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        box.ID.String(),
			CreatedAt: box.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	boxes := make([]domain.WaterBox, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		boxes = append(boxes, *item)
	}

	resp := domain.ListWaterBoxResponse{WaterBoxes: boxes}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetWaterBoxRequest) (domain.WaterBox, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.WaterBox{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.WaterBox{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.WaterBox{}, err
	}
	if item == nil {
		return domain.WaterBox{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateWaterBoxRequest) (domain.WaterBox, error) {
	box, err := s.GetByID(ctx, domain.GetWaterBoxRequest{ID: req.ID})
	if err != nil {
		return domain.WaterBox{}, err
	}

	if req.Zone != nil {
		box.Zone = strings.TrimSpace(*req.Zone)
	}
	if req.Address != nil {
		box.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		status := domain.WaterBoxStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		switch status {
		case domain.WaterBoxStatusActive, domain.WaterBoxStatusInactive:
			box.Status = status
		default:
			return domain.WaterBox{}, domain.ErrInvalidStatus
		}
	}
	box.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &box); err != nil {
		return domain.WaterBox{}, err
	}
	return box, nil
}

func (s *Service) Archive(ctx context.Context, req domain.GetWaterBoxRequest) (domain.WaterBox, error) {
	box, err := s.GetByID(ctx, req)
	if err != nil {
		return domain.WaterBox{}, err
	}

	box.Status = domain.WaterBoxStatusInactive
	box.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &box); err != nil {
		return domain.WaterBox{}, err
	}
	return box, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
