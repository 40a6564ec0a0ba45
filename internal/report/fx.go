package report

import (
	"github.com/openjass/aquanet/internal/report/html"
	"github.com/openjass/aquanet/internal/report/pdf"
	"github.com/openjass/aquanet/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(pdf.NewRenderer),
	fx.Provide(html.NewRenderer),
	fx.Provide(service.New),
)
