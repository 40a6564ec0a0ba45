package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	assignmentrepository "github.com/openjass/aquanet/internal/assignment/repository"
	assignmentservice "github.com/openjass/aquanet/internal/assignment/service"
	"github.com/openjass/aquanet/internal/orgcontext"
	"github.com/openjass/aquanet/internal/seed"
	"github.com/openjass/aquanet/internal/transfer/domain"
	"github.com/openjass/aquanet/internal/transfer/repository"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
	waterboxrepository "github.com/openjass/aquanet/internal/waterbox/repository"
	waterboxservice "github.com/openjass/aquanet/internal/waterbox/service"
	"github.com/openjass/aquanet/pkg/db"
)

type fixture struct {
	svc            domain.Service
	assignmentSvc  assignmentdomain.Service
	assignmentRepo assignmentdomain.Repository
	ctx            context.Context
	conn           *gorm.DB
	box            waterboxdomain.WaterBox
}

func setup(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := seed.EnsureSchema(conn); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	ctx := orgcontext.WithOrgID(context.Background(), 100)

	waterBoxRepo := waterboxrepository.Provide()
	assignmentRepo := assignmentrepository.Provide()

	waterBoxSvc := waterboxservice.New(waterboxservice.Params{
		DB: conn, Log: log, GenID: node, Repo: waterBoxRepo,
	})
	assignmentSvc := assignmentservice.New(assignmentservice.Params{
		DB: conn, Log: log, GenID: node, Repo: assignmentRepo, WaterBoxSvc: waterBoxSvc,
	})
	svc := New(Params{
		DB:             conn,
		Log:            log,
		GenID:          node,
		Repo:           repository.Provide(),
		AssignmentRepo: assignmentRepo,
		WaterBoxRepo:   waterBoxRepo,
	})

	box, err := waterBoxSvc.Create(ctx, waterboxdomain.CreateWaterBoxRequest{Code: "CAJA-001"})
	if err != nil {
		t.Fatalf("create box: %v", err)
	}

	return fixture{
		svc:            svc,
		assignmentSvc:  assignmentSvc,
		assignmentRepo: assignmentRepo,
		ctx:            ctx,
		conn:           conn,
		box:            box,
	}
}

func (f fixture) assign(t *testing.T, userID string) assignmentdomain.Assignment {
	t.Helper()
	assignment, err := f.assignmentSvc.Create(f.ctx, assignmentdomain.CreateAssignmentRequest{
		WaterBoxID: f.box.ID.String(),
		UserID:     userID,
		MonthlyFee: "45.5",
	})
	if err != nil {
		t.Fatalf("assign %s: %v", userID, err)
	}
	return assignment
}

func TestCreateTransfer(t *testing.T) {
	f := setup(t)
	first := f.assign(t, "u1")

	transfer, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(),
		ToUserID:   "u2",
		ToUserName: "María López",
		Reason:     "venta de vivienda",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if transfer.FromUserID != "u1" || transfer.ToUserID != "u2" {
		t.Fatalf("unexpected transfer parties %s -> %s", transfer.FromUserID, transfer.ToUserID)
	}
	if transfer.FromAssignmentID != first.ID {
		t.Fatalf("transfer must reference the closed assignment")
	}

	// The old assignment is closed and the new one is active with the inherited fee.
	closed, err := f.assignmentSvc.GetByID(f.ctx, assignmentdomain.GetAssignmentRequest{ID: first.ID.String()})
	if err != nil {
		t.Fatalf("get closed: %v", err)
	}
	if closed.Status != assignmentdomain.AssignmentStatusInactive || closed.EndDate == nil {
		t.Fatalf("previous assignment must be closed")
	}

	next, err := f.assignmentRepo.FindActiveByWaterBox(f.ctx, f.conn, closed.OrgID, f.box.ID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if next == nil || next.UserID != "u2" {
		t.Fatalf("expected u2 to hold the box")
	}
	if next.MonthlyFee.StringFixed(2) != "45.50" {
		t.Fatalf("fee should be inherited, got %s", next.MonthlyFee)
	}
}

func TestCreateTransferOverridesFee(t *testing.T) {
	f := setup(t)
	f.assign(t, "u1")

	_, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(),
		ToUserID:   "u2",
		MonthlyFee: "60",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	orgID, _ := orgcontext.OrgIDFromContext(f.ctx)
	next, err := f.assignmentRepo.FindActiveByWaterBox(f.ctx, f.conn, orgID, f.box.ID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if next.MonthlyFee.StringFixed(2) != "60.00" {
		t.Fatalf("expected overridden fee, got %s", next.MonthlyFee)
	}
}

func TestCreateTransferRequiresActiveAssignment(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(),
		ToUserID:   "u2",
	})
	if !errors.Is(err, domain.ErrNoActiveAssignment) {
		t.Fatalf("expected ErrNoActiveAssignment, got %v", err)
	}
}

func TestCreateTransferRejectsSameUser(t *testing.T) {
	f := setup(t)
	f.assign(t, "u1")

	_, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(),
		ToUserID:   "u1",
	})
	if !errors.Is(err, domain.ErrSameUser) {
		t.Fatalf("expected ErrSameUser, got %v", err)
	}
}

func TestCreateTransferRejectsInvalidFee(t *testing.T) {
	f := setup(t)
	f.assign(t, "u1")

	_, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(),
		ToUserID:   "u2",
		MonthlyFee: "-5",
	})
	if !errors.Is(err, domain.ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}

	// Failed transfers leave the current holder untouched.
	orgID, _ := orgcontext.OrgIDFromContext(f.ctx)
	current, err := f.assignmentRepo.FindActiveByWaterBox(f.ctx, f.conn, orgID, f.box.ID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if current == nil || current.UserID != "u1" {
		t.Fatalf("u1 must still hold the box after a failed transfer")
	}
}

func TestListTransfers(t *testing.T) {
	f := setup(t)
	f.assign(t, "u1")

	if _, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(), ToUserID: "u2",
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := f.svc.Create(f.ctx, domain.CreateTransferRequest{
		WaterBoxID: f.box.ID.String(), ToUserID: "u3",
	}); err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	page, err := f.svc.List(f.ctx, domain.ListTransferRequest{WaterBoxID: f.box.ID.String()})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(page.Transfers))
	}
}
