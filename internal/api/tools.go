package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/netops-assistant/server/internal/agent/graph/tools"
)

type ToolHandler struct {
	registry *tools.Registry
}

type toolInfo struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Params any    `json:"params,omitempty"`
}

// List handles GET /tools
func (h *ToolHandler) List(c echo.Context) error {
	if h.registry == nil {
		return unavailable("tools")
	}
	infos, err := h.registry.Infos(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]toolInfo, 0, len(infos))
	for _, info := range infos {
		ti := toolInfo{Name: info.Name, Desc: info.Desc}
		if info.ParamsOneOf != nil {
			js, err := info.ParamsOneOf.ToJSONSchema()
			if err != nil {
				return err
			}
			ti.Params = js
		}
		out = append(out, ti)
	}
	return c.JSON(http.StatusOK, out)
}

// Call handles POST /tools/:name. The body is sanitized the same way as
// model-issued arguments and the tool's JSON result is returned as is,
// failures included.
func (h *ToolHandler) Call(c echo.Context) error {
	if h.registry == nil {
		return unavailable("tools")
	}
	name := c.Param("name")
	t, ok := h.registry.Get(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown tool "+name)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	args := string(body)
	if len(body) > 0 && !json.Valid(body) {
		return echo.NewHTTPError(http.StatusBadRequest, "body must be a JSON object")
	}

	ctx := c.Request().Context()
	if args, err = tools.SanitizeArguments(ctx, name, args); err != nil {
		return err
	}
	out, err := t.InvokableRun(ctx, args)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, []byte(out))
}
