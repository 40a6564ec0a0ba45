package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openjass/aquanet/internal/assignment/domain"
	"github.com/openjass/aquanet/internal/orgcontext"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
	"github.com/openjass/aquanet/pkg/db"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	WaterBoxSvc waterboxdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	waterBoxSvc waterboxdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("assignment.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		waterBoxSvc: p.WaterBoxSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAssignmentRequest) (domain.Assignment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Assignment{}, domain.ErrInvalidOrganization
	}

	box, err := s.waterBoxSvc.GetByID(ctx, waterboxdomain.GetWaterBoxRequest{ID: req.WaterBoxID})
	if err != nil {
		return domain.Assignment{}, domain.ErrInvalidWaterBox
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.Assignment{}, domain.ErrInvalidUser
	}

	fee, err := decimal.NewFromString(strings.TrimSpace(req.MonthlyFee))
	if err != nil || fee.IsNegative() {
		return domain.Assignment{}, domain.ErrInvalidFee
	}

	now := time.Now().UTC()
	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = now
	}

	assignment := domain.Assignment{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		WaterBoxID: box.ID,
		UserID:     userID,
		UserName:   strings.TrimSpace(req.UserName),
		StartDate:  startDate.UTC(),
		MonthlyFee: fee,
		Status:     domain.AssignmentStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Check and insert commit together; the partial unique index on active
	// assignments backstops concurrent creates for the same box.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindActiveByWaterBox(ctx, tx, orgID, box.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return domain.ErrAlreadyAssigned
		}
		return s.repo.Insert(ctx, tx, &assignment)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Assignment{}, domain.ErrAlreadyAssigned
		}
		return domain.Assignment{}, err
	}

	return assignment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAssignmentRequest) (domain.ListAssignmentResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListAssignmentResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListAssignmentFilter{
		WaterBoxID: strings.TrimSpace(req.WaterBoxID),
		UserID:     strings.TrimSpace(req.UserID),
		Status:     strings.ToUpper(strings.TrimSpace(req.Status)),
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
		return domain.ListAssignmentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(assignment *domain.Assignment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        assignment.ID.String(),
			CreatedAt: assignment.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	assignments := make([]domain.Assignment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		assignments = append(assignments, *item)
	}

	resp := domain.ListAssignmentResponse{Assignments: assignments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetAssignmentRequest) (domain.Assignment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Assignment{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Assignment{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Assignment{}, err
	}
	if item == nil {
		return domain.Assignment{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Close(ctx context.Context, req domain.CloseAssignmentRequest) (domain.Assignment, error) {
	assignment, err := s.GetByID(ctx, domain.GetAssignmentRequest{ID: req.ID})
	if err != nil {
		return domain.Assignment{}, err
	}

	if assignment.Status != domain.AssignmentStatusActive {
		return domain.Assignment{}, domain.ErrAlreadyClosed
	}

	now := time.Now().UTC()
	endDate := now
	if req.EndDate != nil && !req.EndDate.IsZero() {
		endDate = req.EndDate.UTC()
	}

	assignment.EndDate = &endDate
	assignment.Status = domain.AssignmentStatusInactive
	assignment.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, &assignment); err != nil {
		return domain.Assignment{}, err
	}
	return assignment, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
