// Package engine is the order/table coordination core: it gates every
// mutation on permissions and shift state, validates transitions against
// the closed state machines, delegates the write to the storage boundary
// (which enforces the cross-client invariants atomically), and publishes
// a change event so every connected client invalidates and refetches.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"respos-api/errs"
	"respos-api/models"
	"respos-api/realtime"
	"respos-api/statemachine"
	"respos-api/store"
)

type Engine struct {
	store   store.Store
	bus     realtime.Bus
	taxRate float64

	mu       sync.Mutex
	sessions map[uint]*Session
}

func New(st store.Store, bus realtime.Bus, taxRate float64) *Engine {
	return &Engine{
		store:    st,
		bus:      bus,
		taxRate:  taxRate,
		sessions: make(map[uint]*Session),
	}
}

// TaxRate returns the configured tax rate (e.g. 0.08 for 8%).
func (e *Engine) TaxRate() float64 { return e.taxRate }

// publish emits one change event. Mutations publish after the write
// committed; a lost event only delays convergence until the next one.
func (e *Engine) publish(event string, collection realtime.Collection, rowID uint) {
	e.bus.Publish(realtime.ChangeEvent{Event: event, Collection: collection, RowID: rowID})
}

// notify persists a staff notification and announces it on the bus.
// recipient nil means broadcast.
func (e *Engine) notify(ctx context.Context, recipient *uint, kind, message string) {
	n := &models.Notification{RecipientID: recipient, Kind: kind, Message: message}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		// The triggering mutation already succeeded; a lost notification
		// is not worth failing it over.
		return
	}
	e.bus.Publish(realtime.ChangeEvent{
		Event:      realtime.EventInsert,
		Collection: realtime.CollectionNotifications,
		RowID:      n.ID,
		Recipient:  recipient,
	})
}

// require rejects the operation unless the employee holds the permission.
func require(op string, emp *models.Employee, perm models.Permission) error {
	if emp.HasPermission(perm) {
		return nil
	}
	return errs.PermissionDenied(op, fmt.Errorf("employee %d lacks %q", emp.ID, perm))
}

// newOrderNumber builds a display-only order number from the clock plus a
// random suffix. Not guaranteed globally unique, and nothing keys on it.
func newOrderNumber() string {
	return time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}

// recomputeTotals re-derives the money columns from the live item rows and
// persists them. Server-authoritative: called after every item mutation,
// never trusted from a client.
func (e *Engine) recomputeTotals(ctx context.Context, order *models.Order) error {
	var subtotal float64
	for i := range order.Items {
		subtotal += order.Items[i].LineTotal()
	}
	tax := subtotal * e.taxRate
	total := subtotal + tax - order.Discount + order.Tip
	order.Subtotal, order.Tax, order.Total = subtotal, tax, total
	return e.store.UpdateOrderTotals(ctx, order.ID, subtotal, order.Discount, order.Tip, tax, total)
}

// deriveOrderStatus computes what the aggregate item progress says the
// order status should be. Voided lines do not count.
func deriveOrderStatus(order *models.Order) models.OrderStatus {
	live := 0
	started := false
	allReady := true
	for i := range order.Items {
		switch order.Items[i].Status {
		case models.ItemVoid:
			continue
		case models.ItemPending:
			allReady = false
		case models.ItemPreparing:
			started = true
			allReady = false
		case models.ItemReady, models.ItemServed:
			started = true
		}
		live++
	}
	switch {
	case live > 0 && allReady:
		return models.OrderReady
	case started:
		return models.OrderInProgress
	default:
		return models.OrderOpen
	}
}

// syncOrder refetches the order, recomputes totals, and applies any
// system-driven status transition the item progress implies. Publishes
// the order change event once.
func (e *Engine) syncOrder(ctx context.Context, orderID, changedBy uint) (*models.Order, error) {
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := e.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	desired := deriveOrderStatus(order)
	if desired != order.Status &&
		statemachine.Order.CanTransition(order.Status, desired, statemachine.ActorSystem) == nil {
		if err := e.store.UpdateOrderStatus(ctx, order.ID, order.Status, desired, "", changedBy, "derived from item progress"); err != nil {
			return nil, err
		}
		if desired == models.OrderReady {
			e.notify(ctx, nil, "order_ready", fmt.Sprintf("order %s is ready", order.OrderNumber))
		}
		order.Status = desired
	}
	e.publish(realtime.EventUpdate, realtime.CollectionOrders, order.ID)
	return order, nil
}
