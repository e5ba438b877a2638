package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/netops-assistant/server/internal/loganalysis"
	logx "github.com/netops-assistant/server/pkg/logger"
)

const (
	sortByCount    = "count"
	sortBySeverity = "severity"
)

// LogHandler serves severity rating and explanations for the log file.
// Ratings are cached until the file changes or a refresh is requested. A run
// that was cancelled or rated nothing is served but not cached.
type LogHandler struct {
	analyzer LogAnalyzer
	path     string

	mu      sync.Mutex
	events  []loganalysis.Event
	modTime time.Time
	rated   bool
}

func NewLogHandler(analyzer LogAnalyzer, path string) *LogHandler {
	return &LogHandler{analyzer: analyzer, path: path}
}

type explainRequest struct {
	EventType string `json:"event_type"`
}

type explainResponse struct {
	EventType   string `json:"event_type"`
	Explanation string `json:"explanation"`
}

// Severity handles POST /logs/severity?sort=count|severity&refresh=true
func (h *LogHandler) Severity(c echo.Context) error {
	if h.analyzer == nil || h.path == "" {
		return unavailable("log analysis")
	}

	order := strings.ToLower(c.QueryParam("sort"))
	if order == "" {
		order = sortBySeverity
	}
	if order != sortByCount && order != sortBySeverity {
		return echo.NewHTTPError(http.StatusBadRequest, "sort must be count or severity")
	}
	refresh := false
	if v := c.QueryParam("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "refresh must be a boolean")
		}
		refresh = b
	}

	events, err := h.rate(c.Request().Context(), refresh)
	if err != nil {
		return err
	}
	if order == sortByCount {
		events = loganalysis.SortByCount(events)
	} else {
		events = loganalysis.SortBySeverity(events)
	}
	return c.JSON(http.StatusOK, events)
}

// Explain handles POST /logs/explain
func (h *LogHandler) Explain(c echo.Context) error {
	if h.analyzer == nil || h.path == "" {
		return unavailable("log analysis")
	}
	var req explainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.EventType) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event_type is required")
	}

	events, err := loganalysis.LoadFile(h.path)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.EventType != req.EventType {
			continue
		}
		text, err := h.analyzer.Explain(c.Request().Context(), ev)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, explainResponse{EventType: ev.EventType, Explanation: text})
	}
	return echo.NewHTTPError(http.StatusNotFound, "event type "+req.EventType+" not found")
}

func (h *LogHandler) rate(ctx context.Context, refresh bool) ([]loganalysis.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	modTime := fileModTime(h.path)
	if h.rated && !refresh && modTime.Equal(h.modTime) {
		return h.events, nil
	}
	events, err := loganalysis.LoadFile(h.path)
	if err != nil {
		return nil, err
	}

	rated := h.analyzer.ClassifySeverity(ctx, events)
	if ctx.Err() != nil || !anyRated(rated) {
		logx.Warn().Err(ctx.Err()).Str("path", h.path).Msg("Severity ratings incomplete; not cached")
		return rated, nil
	}
	h.events, h.modTime, h.rated = rated, modTime, true
	return rated, nil
}

func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func anyRated(events []loganalysis.Event) bool {
	for _, ev := range events {
		if ev.Severity != loganalysis.SeverityUnknown {
			return true
		}
	}
	return false
}
