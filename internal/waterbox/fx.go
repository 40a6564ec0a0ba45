package waterbox

import (
	"github.com/openjass/aquanet/internal/waterbox/repository"
	"github.com/openjass/aquanet/internal/waterbox/service"
	"go.uber.org/fx"
)

var Module = fx.Module("waterbox.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
