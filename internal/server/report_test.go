package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	assignmentrepository "github.com/openjass/aquanet/internal/assignment/repository"
	assignmentservice "github.com/openjass/aquanet/internal/assignment/service"
	"github.com/openjass/aquanet/internal/clock"
	"github.com/openjass/aquanet/internal/config"
	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
	organizationrepository "github.com/openjass/aquanet/internal/organization/repository"
	organizationservice "github.com/openjass/aquanet/internal/organization/service"
	"github.com/openjass/aquanet/internal/orgcontext"
	htmlrender "github.com/openjass/aquanet/internal/report/html"
	pdfrender "github.com/openjass/aquanet/internal/report/pdf"
	reportservice "github.com/openjass/aquanet/internal/report/service"
	"github.com/openjass/aquanet/internal/seed"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
	waterboxrepository "github.com/openjass/aquanet/internal/waterbox/repository"
	waterboxservice "github.com/openjass/aquanet/internal/waterbox/service"
	"github.com/openjass/aquanet/pkg/db"
)

func TestReportHeaderValuesFallBackToConfig(t *testing.T) {
	defaults := config.ReportConfig{OrgName: "JASS Central", Currency: "S/"}

	name, currency := reportHeaderValues(organizationdomain.Organization{}, defaults)
	if name != "JASS Central" || currency != "S/" {
		t.Fatalf("empty organization must use the configured defaults, got %q %q", name, currency)
	}

	name, currency = reportHeaderValues(organizationdomain.Organization{Name: "JASS San Pedro", Currency: "PEN"}, defaults)
	if name != "JASS San Pedro" || currency != "PEN" {
		t.Fatalf("organization values must win over the defaults, got %q %q", name, currency)
	}
}

func newReportTestServer(t *testing.T) *Server {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := seed.EnsureSchema(conn); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := seed.EnsureMainOrgWithID(conn, 100); err != nil {
		t.Fatalf("seed org: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()

	waterBoxRepo := waterboxrepository.Provide()
	assignmentRepo := assignmentrepository.Provide()

	organizationSvc := organizationservice.New(organizationservice.Params{
		DB: conn, Log: log, Repo: organizationrepository.Provide(),
	})
	waterBoxSvc := waterboxservice.New(waterboxservice.Params{
		DB: conn, Log: log, GenID: node, Repo: waterBoxRepo,
	})
	assignmentSvc := assignmentservice.New(assignmentservice.Params{
		DB: conn, Log: log, GenID: node, Repo: assignmentRepo, WaterBoxSvc: waterBoxSvc,
	})
	reportSvc := reportservice.New(reportservice.Params{
		Log:   log,
		Clock: clock.NewSystem(),
		PDF:   pdfrender.NewRenderer(log),
		HTML:  htmlrender.NewRenderer(log),
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine: engine,
		cfg: config.Config{
			DefaultOrgID: 100,
			Report:       config.ReportConfig{OrgName: "JASS Central", Currency: "S/"},
		},
		db:              conn,
		log:             log,
		genID:           node,
		organizationSvc: organizationSvc,
		waterBoxSvc:     waterBoxSvc,
		assignmentSvc:   assignmentSvc,
		reportSvc:       reportSvc,
		waterBoxRepo:    waterBoxRepo,
		assignmentRepo:  assignmentRepo,
	}
	s.registerAdminRoutes()
	return s
}

func TestGenerateAssignmentsReportEndpoint(t *testing.T) {
	s := newReportTestServer(t)

	ctx := orgcontext.WithOrgID(context.Background(), 100)
	box, err := s.waterBoxSvc.Create(ctx, waterboxdomain.CreateWaterBoxRequest{Code: "CAJA-001"})
	if err != nil {
		t.Fatalf("create box: %v", err)
	}
	if _, err := s.assignmentSvc.Create(ctx, assignmentdomain.CreateAssignmentRequest{
		WaterBoxID: box.ID.String(),
		UserID:     "u1",
		UserName:   "Juan Pérez",
		MonthlyFee: "45.5",
	}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/reports/assignments", nil)
	req.Header.Set(HeaderOrg, "100")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "reporte-asignaciones-") {
		t.Fatalf("expected the default report filename, got %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("expected a PDF body")
	}
}
