package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/netops-assistant/server/internal/agent/graph"
	"github.com/netops-assistant/server/internal/agent/model"
)

type ChatHandler struct {
	runner graph.Runner
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

// Send handles POST /chat
func (h *ChatHandler) Send(c echo.Context) error {
	if h.runner == nil {
		return unavailable("chat")
	}
	var req model.QueryInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	if req.ConversationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	answer, err := h.runner.Invoke(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{ConversationID: req.ConversationID, Response: answer})
}

// Reset handles DELETE /chat/:id
func (h *ChatHandler) Reset(c echo.Context) error {
	if h.runner == nil {
		return unavailable("chat")
	}
	if err := h.runner.Reset(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
