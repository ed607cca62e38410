package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"respos-api/engine"
	"respos-api/errs"
	"respos-api/realtime"
	"respos-api/store"
)

// Handler carries the wired dependencies for every route. No package
// globals: concurrent test servers and multi-process deployments get
// their own instance.
type Handler struct {
	Engine    *engine.Engine
	Store     store.Store
	Bus       realtime.Bus
	JWTSecret []byte
}

func New(eng *engine.Engine, st store.Store, bus realtime.Bus, jwtSecret []byte) *Handler {
	return &Handler{Engine: eng, Store: st, Bus: bus, JWTSecret: jwtSecret}
}

// writeError maps the engine's error taxonomy onto HTTP. Every failure
// produces a user-visible signal; nothing is swallowed or auto-retried.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "kind": "permission_denied"})
	case errors.Is(err, errs.ErrShiftRequired):
		// Distinct from permission_denied: the fix is opening a shift.
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error(), "kind": "shift_required"})
	case errors.Is(err, errs.ErrInvariantViolation):
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"kind":   "invariant_violation",
			"action": "refresh your view and retry if still applicable",
		})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "validation_failure"})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, errs.ErrTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": "transport_failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
