package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/engine"
	"respos-api/middleware"
)

// GetCart returns the caller's staged lines and their display total.
func (h *Handler) GetCart(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	lines := h.Engine.CartView(emp)
	var total float64
	for i := range lines {
		total += lines[i].LineTotal()
	}
	c.JSON(http.StatusOK, gin.H{
		"table_id": h.Engine.SessionFor(emp.ID).TableID(),
		"lines":    lines,
		"total":    total,
	})
}

type AddToCartRequest struct {
	MenuItemID  uint   `json:"menu_item_id" binding:"required"`
	VariantID   *uint  `json:"variant_id"`
	PropertyIDs []uint `json:"property_ids"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Notes       string `json:"notes"`
}

// AddToCart stages one selection; identical selections merge.
func (h *Handler) AddToCart(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lines, err := h.Engine.AddToCart(c.Request.Context(), emp, engine.AddToCartInput{
		MenuItemID:  req.MenuItemID,
		VariantID:   req.VariantID,
		PropertyIDs: req.PropertyIDs,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

type UpdateCartLineRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// UpdateCartLine sets a line's quantity; zero removes it.
func (h *Handler) UpdateCartLine(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	lineID, ok := paramID(c, "lineId")
	if !ok {
		return
	}
	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lines, err := h.Engine.UpdateCartQuantity(emp, int(lineID), *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// RemoveCartLine deletes one staged line.
func (h *Handler) RemoveCartLine(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	lineID, ok := paramID(c, "lineId")
	if !ok {
		return
	}
	lines, err := h.Engine.RemoveCartLine(emp, int(lineID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// ClearCart drops every staged line.
func (h *Handler) ClearCart(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	h.Engine.ClearCart(emp)
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

type SubmitCartRequest struct {
	Guests int `json:"guests"`
}

// SubmitCart turns the staged lines into order items against the selected
// table, opening the order if the table has none.
func (h *Handler) SubmitCart(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	var req SubmitCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Engine.SubmitCart(c.Request.Context(), emp, req.Guests)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order submitted", "order": order})
}
