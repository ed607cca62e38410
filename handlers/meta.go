package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
	"respos-api/statemachine"
)

// GetStateMachineInfo exposes every transition table for docs and tooling.
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":        statemachine.Order.Transitions(),
		"order_item":   statemachine.OrderItem.Transitions(),
		"table":        statemachine.Table.Transitions(),
		"shift":        statemachine.Shift.Transitions(),
		"void_request": statemachine.VoidRequest.Transitions(),
	})
}

// ListNotifications returns the caller's notifications, broadcast included.
func (h *Handler) ListNotifications(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	notes, err := h.Engine.Notifications(c.Request.Context(), emp)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(notes), "notifications": notes})
}

// MarkNotificationRead marks one notification read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Engine.MarkNotificationRead(c.Request.Context(), emp, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification read"})
}
