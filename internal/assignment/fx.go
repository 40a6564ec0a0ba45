package assignment

import (
	"github.com/openjass/aquanet/internal/assignment/repository"
	"github.com/openjass/aquanet/internal/assignment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assignment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
