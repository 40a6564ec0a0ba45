package transfer

import (
	"github.com/openjass/aquanet/internal/transfer/repository"
	"github.com/openjass/aquanet/internal/transfer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transfer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
