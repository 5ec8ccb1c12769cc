package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setup(t *testing.T) (configdomain.Repository, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, conn.AutoMigrate(
		&configdomain.Configuration{},
		&configdomain.LineItem{},
	))

	node, _ := snowflake.NewNode(1)
	return NewRepository(conn), node
}

func seed(t *testing.T, repo configdomain.Repository, node *snowflake.Node) *configdomain.Configuration {
	t.Helper()

	cfg := &configdomain.Configuration{
		ID:      node.Generate(),
		Name:    "Rack Build",
		Status:  configdomain.ConfigStatusDraft,
		Version: 1,
	}
	assert.NoError(t, repo.Create(context.Background(), cfg, nil))
	return cfg
}

func newLine(node *snowflake.Node) *configdomain.LineItem {
	return &configdomain.LineItem{
		ID:           node.Generate(),
		ItemRef:      "ITEM-1",
		Quantity:     2,
		UnitCost:     decimal.RequireFromString("10.00"),
		TargetMargin: decimal.RequireFromString("0.20"),
	}
}

func version(t *testing.T, repo configdomain.Repository, id snowflake.ID) int64 {
	t.Helper()
	cfg, err := repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	return cfg.Version
}

func TestRepository_EveryMutationBumpsVersionOnce(t *testing.T) {
	repo, node := setup(t)
	cfg := seed(t, repo, node)
	ctx := context.Background()
	assert.Equal(t, int64(1), version(t, repo, cfg.ID))

	line := newLine(node)
	assert.NoError(t, repo.AddLineItem(ctx, cfg.ID, line))
	assert.Equal(t, int64(2), version(t, repo, cfg.ID))

	line.Quantity = 5
	assert.NoError(t, repo.UpdateLineItem(ctx, cfg.ID, line))
	assert.Equal(t, int64(3), version(t, repo, cfg.ID))

	assert.NoError(t, repo.UpdateFields(ctx, cfg.ID, map[string]any{
		"customer_name": "Acme Corp",
	}))
	assert.Equal(t, int64(4), version(t, repo, cfg.ID))

	assert.NoError(t, repo.DeleteLineItem(ctx, cfg.ID, line.ID))
	assert.Equal(t, int64(5), version(t, repo, cfg.ID))
}

func TestRepository_StatusFlipKeepsVersion(t *testing.T) {
	repo, node := setup(t)
	cfg := seed(t, repo, node)
	ctx := context.Background()

	message := "remote rejected"
	assert.NoError(t, repo.UpdateStatus(ctx, cfg.ID, configdomain.ConfigStatusError, &message))
	assert.Equal(t, int64(1), version(t, repo, cfg.ID))

	assert.NoError(t, repo.UpdateStatus(ctx, cfg.ID, configdomain.ConfigStatusSubmitted, nil))
	assert.Equal(t, int64(1), version(t, repo, cfg.ID))

	reloaded, err := repo.FindByID(ctx, cfg.ID)
	assert.NoError(t, err)
	assert.Equal(t, configdomain.ConfigStatusSubmitted, reloaded.Status)
	assert.Nil(t, reloaded.LastError)
}

func TestRepository_FailedMutationLeavesVersionAlone(t *testing.T) {
	repo, node := setup(t)
	cfg := seed(t, repo, node)
	ctx := context.Background()

	missing := newLine(node)
	assert.ErrorIs(t, repo.UpdateLineItem(ctx, cfg.ID, missing), configdomain.ErrLineNotFound)
	assert.ErrorIs(t, repo.DeleteLineItem(ctx, cfg.ID, missing.ID), configdomain.ErrLineNotFound)
	assert.Equal(t, int64(1), version(t, repo, cfg.ID))
}

func TestRepository_EmptyFieldUpdateIsNoop(t *testing.T) {
	repo, node := setup(t)
	cfg := seed(t, repo, node)

	assert.NoError(t, repo.UpdateFields(context.Background(), cfg.ID, map[string]any{}))
	assert.Equal(t, int64(1), version(t, repo, cfg.ID))
}

func TestRepository_LineOrderingFollowsPosition(t *testing.T) {
	repo, node := setup(t)
	cfg := seed(t, repo, node)
	ctx := context.Background()

	second := newLine(node)
	second.ItemRef = "ITEM-B"
	second.Position = 2
	assert.NoError(t, repo.AddLineItem(ctx, cfg.ID, second))

	first := newLine(node)
	first.ItemRef = "ITEM-A"
	first.Position = 1
	assert.NoError(t, repo.AddLineItem(ctx, cfg.ID, first))

	lines, err := repo.ListLineItems(ctx, cfg.ID)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, "ITEM-A", lines[0].ItemRef)
	assert.Equal(t, "ITEM-B", lines[1].ItemRef)
}

func TestRepository_FindByID_Unknown(t *testing.T) {
	repo, node := setup(t)

	cfg, err := repo.FindByID(context.Background(), node.Generate())
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}
