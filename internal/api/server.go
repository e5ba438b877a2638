// Package api exposes the assistant, the simulated network and the log
// analysis over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/netops-assistant/server/internal/agent/graph"
	"github.com/netops-assistant/server/internal/agent/graph/tools"
	errx "github.com/netops-assistant/server/internal/core/error"
	"github.com/netops-assistant/server/internal/loganalysis"
	"github.com/netops-assistant/server/internal/netsim"
	"github.com/netops-assistant/server/internal/observability"
	logx "github.com/netops-assistant/server/pkg/logger"
)

// Indexer rebuilds the documentation index from a directory.
type Indexer interface {
	IndexDir(ctx context.Context, dir string) (int, error)
}

// LogAnalyzer rates and explains log events.
type LogAnalyzer interface {
	ClassifySeverity(ctx context.Context, events []loganalysis.Event) []loganalysis.Event
	Explain(ctx context.Context, ev loganalysis.Event) (string, error)
}

// Deps are the collaborators behind the routes. Docs, Logs and Metrics may be
// nil; their routes then answer 503.
type Deps struct {
	Runner   graph.Runner
	Network  *netsim.Network
	Tools    *tools.Registry
	Docs     Indexer
	DocsPath string
	Logs     LogAnalyzer
	LogsPath string
	Metrics  *observability.Collector
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires every route onto a new echo instance.
func NewServer(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logx.Info()
			if v.Error != nil {
				ev = logx.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("HTTP request")
			return nil
		},
	}))

	chat := &ChatHandler{runner: deps.Runner}
	e.POST("/chat", chat.Send)
	e.DELETE("/chat/:id", chat.Reset)

	toolsHandler := &ToolHandler{registry: deps.Tools}
	e.GET("/tools", toolsHandler.List)
	e.POST("/tools/:name", toolsHandler.Call)

	devices := &DeviceHandler{network: deps.Network}
	e.GET("/devices", devices.List)
	e.GET("/devices/:ip/vlans", devices.ShowAll)
	e.GET("/devices/:ip/vlans/:port", devices.ShowPort)
	e.PUT("/devices/:ip/vlans", devices.ChangeVLAN)

	docs := &DocsHandler{indexer: deps.Docs, path: deps.DocsPath}
	e.POST("/rag/index", docs.Index)

	logs := NewLogHandler(deps.Logs, deps.LogsPath)
	e.POST("/logs/severity", logs.Severity)
	e.POST("/logs/explain", logs.Explain)

	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	return e
}

// errorHandler renders every error as {"error": ...}, taking the status from
// echo.HTTPError or errx.AppError.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := errx.SystemErrorMessage

	var he *echo.HTTPError
	var appErr *errx.AppError
	switch {
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	case errors.As(err, &appErr):
		status = errx.StatusOf(appErr)
		msg = appErr.Error()
	}

	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Error: msg})
	}
	if err != nil {
		logx.Error().Err(err).Msg("Failed to write error response")
	}
}

func unavailable(what string) error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, what+" is not configured")
}
