package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotesync/internal/clock"
	"github.com/smallbiznis/quotesync/internal/config"
	"github.com/smallbiznis/quotesync/internal/configuration"
	"github.com/smallbiznis/quotesync/internal/logger"
	"github.com/smallbiznis/quotesync/internal/migration"
	"github.com/smallbiznis/quotesync/internal/netsuite"
	"github.com/smallbiznis/quotesync/internal/server"
	"github.com/smallbiznis/quotesync/internal/submission"
	"github.com/smallbiznis/quotesync/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		configuration.Module,
		netsuite.Module,
		submission.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
