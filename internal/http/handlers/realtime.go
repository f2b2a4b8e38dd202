package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream hands the request to the hub. Identification travels in the
// userId/sessionId query params; the hub rejects incomplete handshakes.
func (rh *RealtimeHandler) Stream(c *gin.Context) {
	rh.hub.ServeWS(c.Writer, c.Request)
}
