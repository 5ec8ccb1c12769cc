package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) configdomain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, cfg *configdomain.Configuration, lines []configdomain.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cfg).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ConfigurationID = cfg.ID
		}
		return tx.Create(&lines).Error
	})
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*configdomain.Configuration, error) {
	var cfg configdomain.Configuration
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repo) ListLineItems(ctx context.Context, configID snowflake.ID) ([]configdomain.LineItem, error) {
	var lines []configdomain.LineItem
	err := r.db.WithContext(ctx).
		Where("configuration_id = ?", configID).
		Order("position ASC, id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repo) FindLineItem(ctx context.Context, configID, lineID snowflake.ID) (*configdomain.LineItem, error) {
	var line configdomain.LineItem
	err := r.db.WithContext(ctx).
		Where("configuration_id = ? AND id = ?", configID, lineID).
		First(&line).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *repo) AddLineItem(ctx context.Context, configID snowflake.ID, line *configdomain.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line.ConfigurationID = configID
		if err := tx.Create(line).Error; err != nil {
			return err
		}
		return bumpVersion(tx, configID)
	})
}

func (r *repo) UpdateLineItem(ctx context.Context, configID snowflake.ID, line *configdomain.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&configdomain.LineItem{}).
			Where("configuration_id = ? AND id = ?", configID, line.ID).
			Updates(map[string]any{
				"item_ref":       line.ItemRef,
				"description":    line.Description,
				"quantity":       line.Quantity,
				"unit_cost":      line.UnitCost,
				"target_margin":  line.TargetMargin,
				"product_price":  line.ProductPrice,
				"price_override": line.PriceOverride,
				"tariff_percent": line.TariffPercent,
				"custom_columns": line.CustomColumns,
				"updated_at":     time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return configdomain.ErrLineNotFound
		}
		return bumpVersion(tx, configID)
	})
}

func (r *repo) DeleteLineItem(ctx context.Context, configID, lineID snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("configuration_id = ? AND id = ?", configID, lineID).
			Delete(&configdomain.LineItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return configdomain.ErrLineNotFound
		}
		return bumpVersion(tx, configID)
	})
}

func (r *repo) UpdateFields(ctx context.Context, configID snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = time.Now().UTC()
		result := tx.Model(&configdomain.Configuration{}).
			Where("id = ?", configID).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return configdomain.ErrNotFound
		}
		return bumpVersion(tx, configID)
	})
}

func (r *repo) UpdateStatus(ctx context.Context, configID snowflake.ID, status configdomain.ConfigStatus, lastError *string) error {
	// No version bump here: the submitted snapshot is unchanged.
	result := r.db.WithContext(ctx).Model(&configdomain.Configuration{}).
		Where("id = ?", configID).
		Updates(map[string]any{
			"status":     status,
			"last_error": lastError,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return configdomain.ErrNotFound
	}
	return result.Error
}

// bumpVersion increments the configuration version inside the caller's
// transaction, so version strictly identifies a snapshot of submittable state.
func bumpVersion(tx *gorm.DB, configID snowflake.ID) error {
	result := tx.Exec(
		`UPDATE configurations SET version = version + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(),
		configID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return configdomain.ErrNotFound
	}
	return nil
}
