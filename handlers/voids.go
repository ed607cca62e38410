package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
	"respos-api/models"
)

// ListVoidRequests returns void requests, optionally with ?status=.
func (h *Handler) ListVoidRequests(c *gin.Context) {
	reqs, err := h.Engine.VoidRequests(c.Request.Context(), models.VoidRequestStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reqs), "void_requests": reqs})
}

type VoidRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestVoid files a void request; the order freezes at void_pending.
func (h *Handler) RequestVoid(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req VoidRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vr, err := h.Engine.RequestVoid(c.Request.Context(), emp, orderID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Void requested, order frozen", "void_request": vr})
}

type ResolveVoidRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ResolveVoid approves or rejects a pending void request.
func (h *Handler) ResolveVoid(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ResolveVoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vr, err := h.Engine.ResolveVoid(c.Request.Context(), emp, requestID, *req.Approve)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Void request " + string(vr.Status), "void_request": vr})
}

// VoidOrder voids directly, for void_approve holders.
func (h *Handler) VoidOrder(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req VoidRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Engine.VoidOrder(c.Request.Context(), emp, orderID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order voided", "order": order})
}
