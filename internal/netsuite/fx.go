package netsuite

import (
	"github.com/smallbiznis/quotesync/internal/config"
	"github.com/smallbiznis/quotesync/internal/netsuite/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewClient selects the live or mock variant once, from configuration. Call
// sites never branch on mock mode.
func NewClient(cfg config.Config, log *zap.Logger) (domain.Client, error) {
	if cfg.NetSuite.Mock {
		log.Warn("netsuite mock mode enabled; no live calls will be made")
		return NewMockClient(log), nil
	}
	return NewLiveClient(cfg.NetSuite, log)
}

var Module = fx.Module("netsuite.client",
	fx.Provide(NewClient),
)
