package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// ListTables returns the floor view, optionally scoped with ?floor=.
func (h *Handler) ListTables(c *gin.Context) {
	var floorID uint
	if f := c.Query("floor"); f != "" {
		parsed, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floor"})
			return
		}
		floorID = uint(parsed)
	}
	tables, err := h.Engine.Tables(c.Request.Context(), floorID)
	if err != nil {
		writeError(c, err)
		return
	}
	// Status counts for the floor dashboard.
	summary := map[string]int{}
	for _, t := range tables {
		summary[string(t.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "summary": summary, "tables": tables})
}

// SelectTable points the caller's session at a table.
func (h *Handler) SelectTable(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Engine.SelectTable(emp, tableID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table selected", "table_id": tableID})
}

// CleanTable flips a dirty table back to free.
func (h *Handler) CleanTable(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := h.Engine.MarkTableCleaned(c.Request.Context(), emp, tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table cleaned", "table": table})
}

// ReserveTable holds a free table.
func (h *Handler) ReserveTable(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := h.Engine.ReserveTable(c.Request.Context(), emp, tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table reserved", "table": table})
}

// CancelReservation returns a reserved table to free.
func (h *Handler) CancelReservation(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := h.Engine.CancelReservation(c.Request.Context(), emp, tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled", "table": table})
}
