package engine

import (
	"context"
	"errors"
	"fmt"

	"respos-api/errs"
	"respos-api/models"
	"respos-api/realtime"
	"respos-api/statemachine"
)

// Order returns one order with its items.
func (e *Engine) Order(ctx context.Context, id uint) (*models.Order, error) {
	return e.store.GetOrder(ctx, id)
}

// Orders lists orders, optionally filtered by status.
func (e *Engine) Orders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return e.store.ListOrders(ctx, status)
}

// OrderForTable returns the table's active order, if any.
func (e *Engine) OrderForTable(ctx context.Context, tableID uint) (*models.Order, error) {
	return e.store.ActiveOrderForTable(ctx, tableID)
}

// frozenGuard rejects mutations against an order that is awaiting void
// resolution or already settled.
func frozenGuard(op string, order *models.Order) error {
	if order.Status == models.OrderVoidPending {
		return errs.Invariant(op, fmt.Errorf("order %s is frozen pending void approval", order.OrderNumber))
	}
	if order.Status.Terminal() {
		return errs.Invariant(op, fmt.Errorf("order %s is %s", order.OrderNumber, order.Status))
	}
	return nil
}

// UpdateItemStatus advances one line through the kitchen flow. The actor
// is whichever of the edge's permitted permissions the employee holds;
// an edge that exists for nobody is an invariant violation, an edge the
// employee cannot drive is a permission rejection.
func (e *Engine) UpdateItemStatus(ctx context.Context, emp *models.Employee, itemID uint, to models.OrderItemStatus) (*models.Order, error) {
	const op = "engine.UpdateItemStatus"
	item, err := e.store.GetOrderItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	if err := frozenGuard(op, order); err != nil {
		return nil, err
	}

	actors := statemachine.OrderItem.ActorsFor(item.Status, to)
	if len(actors) == 0 {
		return nil, errs.Invariant(op, statemachine.OrderItem.CanTransition(item.Status, to, ""))
	}
	actor := ""
	for _, a := range actors {
		if emp.HasPermission(models.Permission(a)) {
			actor = a
			break
		}
	}
	if actor == "" {
		return nil, errs.PermissionDenied(op, fmt.Errorf("employee %d holds none of %v", emp.ID, actors))
	}
	if err := statemachine.OrderItem.CanTransition(item.Status, to, actor); err != nil {
		return nil, errs.Invariant(op, err)
	}

	if err := e.store.UpdateOrderItemStatus(ctx, itemID, item.Status, to); err != nil {
		return nil, err
	}
	e.publish(realtime.EventUpdate, realtime.CollectionOrderItems, itemID)
	return e.syncOrder(ctx, order.ID, emp.ID)
}

// VoidItem voids a single line. Only pending/preparing lines qualify; a
// ready or served line needs an order-level void request instead.
func (e *Engine) VoidItem(ctx context.Context, emp *models.Employee, itemID uint) (*models.Order, error) {
	return e.UpdateItemStatus(ctx, emp, itemID, models.ItemVoid)
}

// ServeAll marks every ready line served. A convenience, not a batch: one
// transition per item, and a failure on one line does not roll back the
// others.
func (e *Engine) ServeAll(ctx context.Context, emp *models.Employee, orderID uint) (*models.Order, error) {
	const op = "engine.ServeAll"
	if err := require(op, emp, models.PermServe); err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := frozenGuard(op, order); err != nil {
		return nil, err
	}

	var failures []error
	served := false
	for i := range order.Items {
		if order.Items[i].Status != models.ItemReady {
			continue
		}
		if err := e.store.UpdateOrderItemStatus(ctx, order.Items[i].ID, models.ItemReady, models.ItemServed); err != nil {
			failures = append(failures, err)
			continue
		}
		served = true
		e.publish(realtime.EventUpdate, realtime.CollectionOrderItems, order.Items[i].ID)
	}
	if served {
		if _, err := e.syncOrder(ctx, orderID, emp.ID); err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return e.store.GetOrder(ctx, orderID)
}

// SetAdjustments sets discount and tip and recomputes the totals.
func (e *Engine) SetAdjustments(ctx context.Context, emp *models.Employee, orderID uint, discount, tip float64) (*models.Order, error) {
	const op = "engine.SetAdjustments"
	if err := require(op, emp, models.PermOrders); err != nil {
		return nil, err
	}
	if discount < 0 || tip < 0 {
		return nil, errs.Validation(op, errors.New("discount and tip must not be negative"))
	}
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := frozenGuard(op, order); err != nil {
		return nil, err
	}
	order.Discount, order.Tip = discount, tip
	if err := e.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	e.publish(realtime.EventUpdate, realtime.CollectionOrders, order.ID)
	return order, nil
}

// Pay settles the order. Requires the payments permission, an open shift
// for the acting employee (a distinct ShiftRequired rejection, so the UI
// can say "open a shift" rather than "no rights"), and a payment method.
// Irreversible; the table is released toward dirty in the same storage
// transaction.
func (e *Engine) Pay(ctx context.Context, emp *models.Employee, orderID uint, method string) (*models.Order, error) {
	const op = "engine.Pay"
	if err := require(op, emp, models.PermPayments); err != nil {
		return nil, err
	}
	if method == "" {
		return nil, errs.Validation(op, errors.New("payment method is required"))
	}
	if _, err := e.store.OpenShiftFor(ctx, emp.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ShiftRequired(op)
		}
		return nil, err
	}

	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderPaid, string(models.PermPayments)); err != nil {
		return nil, errs.Invariant(op, err)
	}
	// Settle against server-recomputed totals, never the displayed ones.
	if err := e.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	if err := e.store.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderPaid, method, emp.ID, "settled"); err != nil {
		return nil, err
	}

	e.publish(realtime.EventUpdate, realtime.CollectionOrders, orderID)
	if order.TableID != nil {
		e.publish(realtime.EventUpdate, realtime.CollectionTables, *order.TableID)
	}
	return e.store.GetOrder(ctx, orderID)
}
