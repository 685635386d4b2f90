package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/veritas/config"
	"github.com/mohammad-safakhou/veritas/internal/pipeline"
	"github.com/mohammad-safakhou/veritas/internal/telemetry"
	"github.com/mohammad-safakhou/veritas/provider"
	"github.com/mohammad-safakhou/veritas/repository"
	"github.com/mohammad-safakhou/veritas/tools/web_search"
)

func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tele = telemetry.NewTelemetry(prometheus.DefaultRegisterer)
	}

	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Type), cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	llm = telemetry.InstrumentProvider(llm, tele)

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create web searcher: %w", err)
	}
	searcher = telemetry.InstrumentSearcher(searcher, tele)

	ctx := context.Background()
	sessions, err := repository.NewSessionRepository(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create session repository: %w", err)
	}

	domains := cfg.Search.TrustedDomains
	if len(domains) == 0 {
		domains = config.DefaultTrustedDomains
	}

	runner := pipeline.NewRunner(pipeline.DefaultStages(cfg, llm, searcher), sessions, cfg.Storage.SessionTTL, tele)
	followup := pipeline.NewFollowupHandler(sessions, llm, cfg.LLM.CompletionModel, searcher, domains, cfg.Search.MaxResults, tele)

	ws := NewWSHandler(runner, followup, []byte(cfg.Server.JWTSecret))
	e.GET("/ws", ws.Handle)
	e.GET("/ws/:session_id", ws.Handle)

	return e.Start(cfg.Server.Address)
}
