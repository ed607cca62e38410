package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
	"respos-api/models"
)

// ListOrders returns orders, optionally filtered with ?status=.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Engine.Orders(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "summary": summary, "orders": orders})
}

// GetOrder returns one order with items.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Engine.Order(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetTableOrder returns a table's active order, for the refetch after a
// table change event.
func (h *Handler) GetTableOrder(c *gin.Context) {
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Engine.OrderForTable(c.Request.Context(), tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateItemStatusRequest struct {
	Status models.OrderItemStatus `json:"status" binding:"required"`
}

// UpdateItemStatus advances one line through the kitchen flow.
func (h *Handler) UpdateItemStatus(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Engine.UpdateItemStatus(c.Request.Context(), emp, itemID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "order": order})
}

// VoidItem voids a pending/preparing line.
func (h *Handler) VoidItem(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	order, err := h.Engine.VoidItem(c.Request.Context(), emp, itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item voided", "order": order})
}

// ServeAll marks every ready line on the order served.
func (h *Handler) ServeAll(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Engine.ServeAll(c.Request.Context(), emp, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ready items served", "order": order})
}

type AdjustmentsRequest struct {
	Discount float64 `json:"discount"`
	Tip      float64 `json:"tip"`
}

// SetAdjustments sets discount and tip; totals are recomputed server-side.
func (h *Handler) SetAdjustments(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Engine.SetAdjustments(c.Request.Context(), emp, orderID, req.Discount, req.Tip)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Adjustments applied", "order": order})
}

type PayRequest struct {
	Method string `json:"method" binding:"required"`
}

// Pay settles the order. Requires the payments permission and an open
// shift for the caller.
func (h *Handler) Pay(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Engine.Pay(c.Request.Context(), emp, orderID, req.Method)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order settled", "order": order})
}
