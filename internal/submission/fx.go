package submission

import (
	"github.com/smallbiznis/quotesync/internal/submission/repository"
	"github.com/smallbiznis/quotesync/internal/submission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("submission.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
