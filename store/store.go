// Package store is the persistence boundary of the coordination engine.
// The engine never talks to gorm directly; it goes through the Store
// interface so tests and alternative backends can swap the implementation.
//
// The two cross-client invariants — one non-terminal order per table, one
// open shift per employee — are enforced HERE, inside transactions with
// conditional writes. Client-side check-then-act cannot prevent races
// between independent sessions, so the losing write must fail at this
// boundary with ErrInvariantViolation.
package store

import (
	"context"

	"respos-api/models"
)

type Store interface {
	// Identity and roles.
	EmployeeForUser(ctx context.Context, userID uint) (*models.Employee, error)
	EmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)

	// Tables.
	ListTables(ctx context.Context, floorID uint) ([]models.Table, error) // floorID 0 lists every floor
	GetTable(ctx context.Context, id uint) (*models.Table, error)
	// UpdateTableStatus flips a table's status only if it still has the
	// expected current status; otherwise ErrInvariantViolation.
	UpdateTableStatus(ctx context.Context, tableID uint, from, to models.TableStatus) error

	// Orders.
	// CreateOrder atomically verifies no non-terminal order references the
	// table, flips the table to occupied, and inserts the order with its
	// items. The loser of a same-table race gets ErrInvariantViolation.
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	AddOrderItems(ctx context.Context, orderID uint, items []models.OrderItem) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ActiveOrderForTable(ctx context.Context, tableID uint) (*models.Order, error)
	ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) // "" lists all
	// UpdateOrderStatus performs a conditional status write and records the
	// audit row. Settlement and void release the table in the same
	// transaction.
	UpdateOrderStatus(ctx context.Context, orderID uint, from, to models.OrderStatus, paymentMethod string, changedBy uint, note string) error
	// UpdateOrderTotals persists the server-recomputed money columns.
	UpdateOrderTotals(ctx context.Context, orderID uint, subtotal, discount, tip, tax, total float64) error

	// Order items.
	GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, itemID uint, from, to models.OrderItemStatus) error

	// Catalog reads.
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)

	// Shifts.
	// OpenShift atomically enforces at most one open shift per employee.
	OpenShift(ctx context.Context, employeeID uint, openingCash float64) (*models.Shift, error)
	CloseShift(ctx context.Context, shiftID, employeeID uint, closingCash float64, notes string) (*models.Shift, error)
	// OpenShiftFor returns the employee's open shift, or ErrNotFound.
	OpenShiftFor(ctx context.Context, employeeID uint) (*models.Shift, error)

	// Void requests.
	FileVoidRequest(ctx context.Context, req *models.VoidRequest) error
	GetVoidRequest(ctx context.Context, id uint) (*models.VoidRequest, error)
	ListVoidRequests(ctx context.Context, status models.VoidRequestStatus) ([]models.VoidRequest, error)
	// ResolveVoidRequest conditionally moves pending → approved|rejected,
	// records the reviewer, and in the same transaction moves the frozen
	// order out of void_pending to orderTarget (releasing the table when
	// the target is terminal) with an audit row. A resolved request can
	// therefore never coexist with a still-frozen order.
	ResolveVoidRequest(ctx context.Context, requestID, reviewerID uint, decision models.VoidRequestStatus, orderTarget models.OrderStatus, note string) error

	// Notifications.
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID uint) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
}
