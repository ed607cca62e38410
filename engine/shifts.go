package engine

import (
	"context"
	"errors"

	"respos-api/errs"
	"respos-api/models"
)

// OpenShift opens a cash-drawer session for the employee. The storage
// boundary enforces at most one open shift per employee atomically.
func (e *Engine) OpenShift(ctx context.Context, emp *models.Employee, openingCash float64) (*models.Shift, error) {
	const op = "engine.OpenShift"
	if err := require(op, emp, models.PermShifts); err != nil {
		return nil, err
	}
	if openingCash < 0 {
		return nil, errs.Validation(op, errors.New("opening cash must not be negative"))
	}
	return e.store.OpenShift(ctx, emp.ID, openingCash)
}

// CloseShift closes the employee's own shift, recording the counted cash.
func (e *Engine) CloseShift(ctx context.Context, emp *models.Employee, shiftID uint, closingCash float64, notes string) (*models.Shift, error) {
	const op = "engine.CloseShift"
	if err := require(op, emp, models.PermShifts); err != nil {
		return nil, err
	}
	if closingCash < 0 {
		return nil, errs.Validation(op, errors.New("closing cash must not be negative"))
	}
	return e.store.CloseShift(ctx, shiftID, emp.ID, closingCash, notes)
}

// CurrentShift returns the employee's open shift, or ErrNotFound.
func (e *Engine) CurrentShift(ctx context.Context, emp *models.Employee) (*models.Shift, error) {
	return e.store.OpenShiftFor(ctx, emp.ID)
}
