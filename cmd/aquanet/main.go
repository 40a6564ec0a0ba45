package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/openjass/aquanet/internal/assignment"
	"github.com/openjass/aquanet/internal/clock"
	"github.com/openjass/aquanet/internal/config"
	"github.com/openjass/aquanet/internal/logger"
	"github.com/openjass/aquanet/internal/migration"
	"github.com/openjass/aquanet/internal/observability"
	"github.com/openjass/aquanet/internal/organization"
	"github.com/openjass/aquanet/internal/report"
	"github.com/openjass/aquanet/internal/server"
	"github.com/openjass/aquanet/internal/transfer"
	"github.com/openjass/aquanet/internal/waterbox"
	"github.com/openjass/aquanet/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		organization.Module,
		waterbox.Module,
		assignment.Module,
		transfer.Module,
		report.Module,

		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return node, nil
}
