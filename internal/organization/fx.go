package organization

import (
	"github.com/openjass/aquanet/internal/organization/repository"
	"github.com/openjass/aquanet/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
