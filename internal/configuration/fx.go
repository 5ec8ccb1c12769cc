package configuration

import (
	"github.com/smallbiznis/quotesync/internal/configuration/repository"
	"github.com/smallbiznis/quotesync/internal/configuration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("configuration.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
