package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quotesync/internal/config"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	netsuitedomain "github.com/smallbiznis/quotesync/internal/netsuite/domain"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	configSvc     configdomain.Service
	submissionSvc submissiondomain.Service
	netsuite      netsuitedomain.Client
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	ConfigSvc     configdomain.Service
	SubmissionSvc submissiondomain.Service
	NetSuite      netsuitedomain.Client
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		configSvc:     p.ConfigSvc,
		submissionSvc: p.SubmissionSvc,
		netsuite:      p.NetSuite,
	}

	svc.registerConfigurationRoutes()
	svc.registerNetSuiteRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerConfigurationRoutes() {
	v1 := s.engine.Group("/v1")

	configurations := v1.Group("/configurations")
	{
		configurations.POST("", s.CreateConfiguration)
		configurations.GET("/:id", s.GetConfiguration)
		configurations.PATCH("/:id", s.UpdateConfiguration)
		configurations.GET("/:id/summary", s.GetConfigurationSummary)

		configurations.POST("/:id/lines", s.AddLineItem)
		configurations.PUT("/:id/lines/:lineId", s.UpdateLineItem)
		configurations.DELETE("/:id/lines/:lineId", s.RemoveLineItem)

		configurations.POST("/:id/submit", s.SubmitConfiguration)
		configurations.GET("/:id/submissions", s.ListSubmissions)
	}
}

func (s *Server) registerNetSuiteRoutes() {
	netsuite := s.engine.Group("/v1/netsuite")
	{
		netsuite.GET("/estimates/:estimateRef", s.GetEstimate)
		netsuite.GET("/search", s.SearchRecords)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
