package engine

import (
	"context"

	"respos-api/models"
)

// actionPermissions maps UI-level actions to the permission that gates
// them. The UI uses this to disable or hide controls ahead of time; the
// engine still re-checks on every mutation, since a client's view of its
// own rights can be stale.
var actionPermissions = map[string]models.Permission{
	"select_table":  models.PermOrders,
	"edit_cart":     models.PermOrders,
	"submit_order":  models.PermOrders,
	"void_item":     models.PermOrders,
	"clean_table":   models.PermTables,
	"reserve_table": models.PermTables,
	"advance_item":  models.PermKitchen,
	"serve_item":    models.PermServe,
	"pay":           models.PermPayments,
	"open_shift":    models.PermShifts,
	"close_shift":   models.PermShifts,
	"request_void":  models.PermVoidRequest,
	"approve_void":  models.PermVoidApprove,
}

// CanAct reports whether the employee may perform the named action right
// now. "pay" additionally requires an open shift: permission alone is not
// enough to settle.
func (e *Engine) CanAct(ctx context.Context, emp *models.Employee, action string) bool {
	perm, ok := actionPermissions[action]
	if !ok {
		return false
	}
	if !emp.HasPermission(perm) {
		return false
	}
	if action == "pay" {
		if _, err := e.store.OpenShiftFor(ctx, emp.ID); err != nil {
			return false
		}
	}
	return true
}

// AllowedActions evaluates every known action for the employee.
func (e *Engine) AllowedActions(ctx context.Context, emp *models.Employee) map[string]bool {
	out := make(map[string]bool, len(actionPermissions))
	for action := range actionPermissions {
		out[action] = e.CanAct(ctx, emp, action)
	}
	return out
}

// Notifications lists the employee's notifications (own plus broadcast).
func (e *Engine) Notifications(ctx context.Context, emp *models.Employee) ([]models.Notification, error) {
	return e.store.ListNotifications(ctx, emp.ID)
}

// MarkNotificationRead marks one notification read.
func (e *Engine) MarkNotificationRead(ctx context.Context, emp *models.Employee, id uint) error {
	return e.store.MarkNotificationRead(ctx, id)
}
