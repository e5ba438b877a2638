package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/netops-assistant/server/internal/netsim"
)

type DeviceHandler struct {
	network *netsim.Network
}

type resultResponse struct {
	Result string `json:"result"`
}

type changeVLANRequest struct {
	Port string `json:"port"`
	VLAN int    `json:"vlan"`
}

// List handles GET /devices
func (h *DeviceHandler) List(c echo.Context) error {
	if h.network == nil {
		return unavailable("network")
	}
	return c.JSON(http.StatusOK, h.network.Inventory().Devices())
}

// ShowAll handles GET /devices/:ip/vlans
func (h *DeviceHandler) ShowAll(c echo.Context) error {
	if h.network == nil {
		return unavailable("network")
	}
	ip, err := ipParam(c)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if !h.network.VLANs().HasDevice(ip) {
		status = http.StatusNotFound
	}
	return c.JSON(status, resultResponse{Result: h.network.ShowVLANPortsAll(ip)})
}

// ShowPort handles GET /devices/:ip/vlans/:port. The port must be
// path-escaped, e.g. Gi0%2F5.
func (h *DeviceHandler) ShowPort(c echo.Context) error {
	if h.network == nil {
		return unavailable("network")
	}
	ip, err := ipParam(c)
	if err != nil {
		return err
	}
	port, err := url.PathUnescape(c.Param("port"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed port")
	}
	status := http.StatusOK
	if _, deviceOK, portOK := h.network.VLANs().VLAN(ip, port); !deviceOK || !portOK {
		status = http.StatusNotFound
	}
	return c.JSON(status, resultResponse{Result: h.network.ShowVLANPort(ip, port)})
}

// ChangeVLAN handles PUT /devices/:ip/vlans
func (h *DeviceHandler) ChangeVLAN(c echo.Context) error {
	if h.network == nil {
		return unavailable("network")
	}
	var req changeVLANRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ip, err := ipParam(c)
	if err != nil {
		return err
	}
	port := strings.TrimSpace(req.Port)

	result, err := h.network.ChangeVLAN(ip, port, req.VLAN)
	if err != nil {
		return err
	}

	sw := h.network.Switches()
	status := http.StatusOK
	switch {
	case !hasSwitch(sw, ip):
		status = http.StatusNotFound
	case !sw.ValidPort(ip, port), !sw.ValidVLAN(ip, req.VLAN):
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, resultResponse{Result: result})
}

func ipParam(c echo.Context) (string, error) {
	ip, err := url.PathUnescape(c.Param("ip"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "malformed ip")
	}
	if err := netsim.ValidateIPv4(ip); err != nil {
		return "", err
	}
	return ip, nil
}

func hasSwitch(sw *netsim.SwitchTable, ip string) bool {
	_, ok := sw.Name(ip)
	return ok
}
