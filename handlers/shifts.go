package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
)

type OpenShiftRequest struct {
	OpeningCash float64 `json:"opening_cash"`
}

// OpenShift opens a cash-drawer session for the caller.
func (h *Handler) OpenShift(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	var req OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shift, err := h.Engine.OpenShift(c.Request.Context(), emp, req.OpeningCash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shift opened", "shift": shift})
}

type CloseShiftRequest struct {
	ClosingCash float64 `json:"closing_cash"`
	Notes       string  `json:"notes"`
}

// CloseShift closes the caller's shift.
func (h *Handler) CloseShift(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	shiftID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shift, err := h.Engine.CloseShift(c.Request.Context(), emp, shiftID, req.ClosingCash, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift closed", "shift": shift})
}

// CurrentShift returns the caller's open shift, if any.
func (h *Handler) CurrentShift(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	shift, err := h.Engine.CurrentShift(c.Request.Context(), emp)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift})
}
