package migration

import (
	"github.com/smallbiznis/quotesync/internal/config"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		// The SQL migration set targets postgres. Dev and test databases on
		// other dialects fall back to gorm's schema sync.
		if cfg.DBType != "postgres" {
			log.Info("using automigrate schema sync", zap.String("dialect", cfg.DBType))
			return conn.AutoMigrate(
				&configdomain.Configuration{},
				&configdomain.LineItem{},
				&submissiondomain.Submission{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
