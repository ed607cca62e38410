package engine

import (
	"context"

	"respos-api/errs"
	"respos-api/models"
	"respos-api/realtime"
	"respos-api/statemachine"
)

// Tables lists tables, optionally scoped to one floor.
func (e *Engine) Tables(ctx context.Context, floorID uint) ([]models.Table, error) {
	return e.store.ListTables(ctx, floorID)
}

// Table returns one table.
func (e *Engine) Table(ctx context.Context, id uint) (*models.Table, error) {
	return e.store.GetTable(ctx, id)
}

// moveTable applies one staff-driven table transition through the machine
// and the conditional write. A stale view loses at the write boundary and
// surfaces as an InvariantViolation telling the client to refresh.
func (e *Engine) moveTable(ctx context.Context, op string, emp *models.Employee, tableID uint, to models.TableStatus) (*models.Table, error) {
	if err := require(op, emp, models.PermTables); err != nil {
		return nil, err
	}
	table, err := e.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Table.CanTransition(table.Status, to, string(models.PermTables)); err != nil {
		return nil, errs.Invariant(op, err)
	}
	if err := e.store.UpdateTableStatus(ctx, tableID, table.Status, to); err != nil {
		return nil, err
	}
	e.publish(realtime.EventUpdate, realtime.CollectionTables, tableID)
	table.Status = to
	return table, nil
}

// MarkTableCleaned flips a dirty table back to free. Explicit staff
// action; no order involvement.
func (e *Engine) MarkTableCleaned(ctx context.Context, emp *models.Employee, tableID uint) (*models.Table, error) {
	return e.moveTable(ctx, "engine.MarkTableCleaned", emp, tableID, models.TableFree)
}

// ReserveTable holds a free table for an upcoming party.
func (e *Engine) ReserveTable(ctx context.Context, emp *models.Employee, tableID uint) (*models.Table, error) {
	return e.moveTable(ctx, "engine.ReserveTable", emp, tableID, models.TableReserved)
}

// CancelReservation returns a reserved table to free.
func (e *Engine) CancelReservation(ctx context.Context, emp *models.Employee, tableID uint) (*models.Table, error) {
	return e.moveTable(ctx, "engine.CancelReservation", emp, tableID, models.TableFree)
}
