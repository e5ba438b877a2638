package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	logx "github.com/netops-assistant/server/pkg/logger"
)

type DocsHandler struct {
	indexer Indexer
	path    string
}

type indexResponse struct {
	Chunks int `json:"chunks"`
}

// Index handles POST /rag/index
func (h *DocsHandler) Index(c echo.Context) error {
	if h.indexer == nil || h.path == "" {
		return unavailable("knowledge base")
	}
	n, err := h.indexer.IndexDir(c.Request().Context(), h.path)
	if err != nil {
		return err
	}
	logx.Info().Str("path", h.path).Int("chunks", n).Msg("Knowledge base reindexed")
	return c.JSON(http.StatusOK, indexResponse{Chunks: n})
}
