package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Introspection-ендпоїнти: читають таблицю кімнат і журнал подій, нічого не
// мутують і не блокуються на критичному шляху сесій.

// GetRoomCount повертає кількість користувачів у кімнаті.
// GET /room/:roomId → {"roomId": ..., "userCount": n}
func (h *Handler) GetRoomCount(c *gin.Context) {
	roomID := c.Param("roomId")
	if strings.TrimSpace(roomID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomId":    roomID,
		"userCount": h.Gateway.Table.Count(roomID),
	})
}

// ListRooms повертає всі активні кімнати з лічильниками.
// GET /rooms → {"totalRooms": n, "rooms": [...]}
func (h *Handler) ListRooms(c *gin.Context) {
	rooms := h.Gateway.Table.ListRooms()
	c.JSON(http.StatusOK, gin.H{
		"totalRooms": len(rooms),
		"rooms":      rooms,
	})
}

// GetEventLog повертає останні події та поточні агреговані лічильники.
// GET /logs → {"totalEvents": n, "logs": [...], "currentState": {...}}
func (h *Handler) GetEventLog(c *gin.Context) {
	events := h.Gateway.Events.Snapshot()
	activeRooms, totalConnections := h.Gateway.Table.Totals()

	c.JSON(http.StatusOK, gin.H{
		"totalEvents": len(events),
		"logs":        events,
		"currentState": gin.H{
			"activeRooms":      activeRooms,
			"totalConnections": totalConnections,
		},
	})
}
