package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	"github.com/openjass/aquanet/internal/config"
	obslogger "github.com/openjass/aquanet/internal/observability/logger"
	obsmetrics "github.com/openjass/aquanet/internal/observability/metrics"
	obstracing "github.com/openjass/aquanet/internal/observability/tracing"
	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
	reportdomain "github.com/openjass/aquanet/internal/report/domain"
	transferdomain "github.com/openjass/aquanet/internal/transfer/domain"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Log:             log.Named("http"),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	waterBoxSvc     waterboxdomain.Service
	assignmentSvc   assignmentdomain.Service
	transferSvc     transferdomain.Service
	reportSvc       reportdomain.Service
	waterBoxRepo    waterboxdomain.Repository
	assignmentRepo  assignmentdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	WaterBoxSvc     waterboxdomain.Service
	AssignmentSvc   assignmentdomain.Service
	TransferSvc     transferdomain.Service
	ReportSvc       reportdomain.Service
	WaterBoxRepo    waterboxdomain.Repository
	AssignmentRepo  assignmentdomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("server"),
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		waterBoxSvc:     p.WaterBoxSvc,
		assignmentSvc:   p.AssignmentSvc,
		transferSvc:     p.TransferSvc,
		reportSvc:       p.ReportSvc,
		waterBoxRepo:    p.WaterBoxRepo,
		assignmentRepo:  p.AssignmentRepo,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.OrgContext())

	admin.GET("/organization", s.GetOrganization)
	admin.PATCH("/organization", s.UpdateOrganization)

	// -------- Water boxes --------
	admin.GET("/water-boxes", s.ListWaterBoxes)
	admin.POST("/water-boxes", s.CreateWaterBox)
	admin.GET("/water-boxes/:id", s.GetWaterBoxByID)
	admin.PATCH("/water-boxes/:id", s.UpdateWaterBox)
	admin.DELETE("/water-boxes/:id", s.ArchiveWaterBox)

	// -------- Assignments --------
	admin.GET("/assignments", s.ListAssignments)
	admin.POST("/assignments", s.CreateAssignment)
	admin.GET("/assignments/:id", s.GetAssignmentByID)
	admin.POST("/assignments/:id/close", s.CloseAssignment)

	// -------- Transfers --------
	admin.GET("/transfers", s.ListTransfers)
	admin.POST("/transfers", s.CreateTransfer)

	// -------- Reports --------
	admin.GET("/reports/assignments", s.GenerateAssignmentsReport)
}
