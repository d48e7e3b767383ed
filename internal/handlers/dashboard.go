package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML []byte

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	MQTTConnected bool   `json:"mqtt_connected"`
}

// @Summary      Live dashboard
// @Description  HTML page with the current temperature and a live chart fed by /ws.
// @Tags         dashboard
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *Handler) dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := HealthResponse{Status: statusOK}
	if h.services.Connection != nil {
		resp.MQTTConnected = h.services.Connection.Connected()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Live series snapshot
// @Description  Points of the live window in arrival order, min/max, y-axis display bounds and the latest reading. Min, max and bounds are absent while the window is empty; a placeholder message is set instead.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/snapshot [get]
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.services.Monitoring.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "snapshot_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
