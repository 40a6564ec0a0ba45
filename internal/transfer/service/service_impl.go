package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	"github.com/openjass/aquanet/internal/orgcontext"
	"github.com/openjass/aquanet/internal/transfer/domain"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
	"github.com/openjass/aquanet/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Repo           domain.Repository
	AssignmentRepo assignmentdomain.Repository
	WaterBoxRepo   waterboxdomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	repo           domain.Repository
	assignmentRepo assignmentdomain.Repository
	waterBoxRepo   waterboxdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("transfer.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		assignmentRepo: p.AssignmentRepo,
		waterBoxRepo:   p.WaterBoxRepo,
	}
}

// Create closes the current assignment of the water box and opens a new one
// for the destination user, recording the transfer. All three writes commit
// atomically.
func (s *Service) Create(ctx context.Context, req domain.CreateTransferRequest) (domain.Transfer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Transfer{}, domain.ErrInvalidOrganization
	}

	boxID, err := snowflake.ParseString(strings.TrimSpace(req.WaterBoxID))
	if err != nil || boxID == 0 {
		return domain.Transfer{}, domain.ErrInvalidWaterBox
	}

	toUserID := strings.TrimSpace(req.ToUserID)
	if toUserID == "" {
		return domain.Transfer{}, domain.ErrInvalidUser
	}

	box, err := s.waterBoxRepo.FindByID(ctx, s.db, orgID, boxID)
	if err != nil {
		return domain.Transfer{}, err
	}
	if box == nil {
		return domain.Transfer{}, domain.ErrInvalidWaterBox
	}

	var transfer domain.Transfer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.assignmentRepo.FindActiveByWaterBox(ctx, tx, orgID, boxID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNoActiveAssignment
		}
		if current.UserID == toUserID {
			return domain.ErrSameUser
		}

		fee := current.MonthlyFee
		if raw := strings.TrimSpace(req.MonthlyFee); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil || parsed.IsNegative() {
				return domain.ErrInvalidFee
			}
			fee = parsed
		}

		now := time.Now().UTC()
		current.EndDate = &now
		current.Status = assignmentdomain.AssignmentStatusInactive
		current.UpdatedAt = now
		if err := s.assignmentRepo.Update(ctx, tx, current); err != nil {
			return err
		}

		next := assignmentdomain.Assignment{
			ID:         s.genID.Generate(),
			OrgID:      orgID,
			WaterBoxID: boxID,
			UserID:     toUserID,
			UserName:   strings.TrimSpace(req.ToUserName),
			StartDate:  now,
			MonthlyFee: fee,
			Status:     assignmentdomain.AssignmentStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.assignmentRepo.Insert(ctx, tx, &next); err != nil {
			return err
		}

		transfer = domain.Transfer{
			ID:               s.genID.Generate(),
			OrgID:            orgID,
			WaterBoxID:       boxID,
			FromAssignmentID: current.ID,
			ToAssignmentID:   next.ID,
			FromUserID:       current.UserID,
			ToUserID:         toUserID,
			Reason:           strings.TrimSpace(req.Reason),
			TransferredAt:    now,
			CreatedAt:        now,
		}
		return s.repo.Insert(ctx, tx, &transfer)
	})
	if err != nil {
		return domain.Transfer{}, err
	}

	s.log.Info("water box transferred",
		zap.String("water_box_id", boxID.String()),
		zap.String("from_user", transfer.FromUserID),
		zap.String("to_user", transfer.ToUserID),
	)
	return transfer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransferRequest) (domain.ListTransferResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListTransferResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, domain.ListTransferFilter{
		WaterBoxID: strings.TrimSpace(req.WaterBoxID),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListTransferResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(transfer *domain.Transfer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        transfer.ID.String(),
			CreatedAt: transfer.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	transfers := make([]domain.Transfer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		transfers = append(transfers, *item)
	}

	resp := domain.ListTransferResponse{Transfers: transfers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}
