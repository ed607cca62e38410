package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"respos-api/errs"
	"respos-api/models"
)

// Gorm implements Store on a gorm DB handle (SQLite in production and in
// tests). SQLite serializes writers, so the conditional writes below are
// atomic without row locks.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates the schema for every engine-owned model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.Role{},
		&models.Floor{},
		&models.Table{},
		&models.MenuItem{},
		&models.Variant{},
		&models.MenuProperty{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Shift{},
		&models.VoidRequest{},
		&models.Notification{},
	)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(op, err)
	}
	return errs.Transport(op, err)
}

// ── Identity ─────────────────────────────────────────────────────────

func (g *Gorm) EmployeeForUser(ctx context.Context, userID uint) (*models.Employee, error) {
	var emp models.Employee
	if err := g.db.WithContext(ctx).Preload("Roles").First(&emp, userID).Error; err != nil {
		return nil, wrap("store.EmployeeForUser", err)
	}
	return &emp, nil
}

func (g *Gorm) EmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var emp models.Employee
	if err := g.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&emp).Error; err != nil {
		return nil, wrap("store.EmployeeByEmail", err)
	}
	return &emp, nil
}

// ── Tables ───────────────────────────────────────────────────────────

func (g *Gorm) ListTables(ctx context.Context, floorID uint) ([]models.Table, error) {
	var tables []models.Table
	q := g.db.WithContext(ctx).Order("number")
	if floorID != 0 {
		q = q.Where("floor_id = ?", floorID)
	}
	if err := q.Find(&tables).Error; err != nil {
		return nil, wrap("store.ListTables", err)
	}
	return tables, nil
}

func (g *Gorm) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := g.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, wrap("store.GetTable", err)
	}
	return &table, nil
}

func (g *Gorm) UpdateTableStatus(ctx context.Context, tableID uint, from, to models.TableStatus) error {
	const op = "store.UpdateTableStatus"
	res := g.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, from).
		Update("status", to)
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Invariant(op, fmt.Errorf("table %d is no longer %s", tableID, from))
	}
	return nil
}

// ── Orders ───────────────────────────────────────────────────────────

// nonTerminalOrders filters to statuses still attached to a table.
func nonTerminalOrders(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []models.OrderStatus{models.OrderPaid, models.OrderVoid})
}

func (g *Gorm) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	const op = "store.CreateOrder"
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.TableID == nil {
			return errs.Validation(op, errors.New("order requires a table"))
		}
		tableID := *order.TableID

		var active int64
		if err := nonTerminalOrders(tx.Model(&models.Order{})).
			Where("table_id = ?", tableID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return errs.Invariant(op, fmt.Errorf("table %d already has an active order", tableID))
		}

		// Conditional occupancy flip: the race loser sees zero rows here.
		res := tx.Model(&models.Table{}).
			Where("id = ? AND status IN ?", tableID, []models.TableStatus{models.TableFree, models.TableReserved}).
			Update("status", models.TableOccupied)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Invariant(op, fmt.Errorf("table %d is not free", tableID))
		}

		order.Items = items
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: order.OpenedByID,
			Note:      "order opened",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return err
		}
		return wrap(op, err)
	}
	return nil
}

func (g *Gorm) AddOrderItems(ctx context.Context, orderID uint, items []models.OrderItem) error {
	const op = "store.AddOrderItems"
	for i := range items {
		items[i].OrderID = orderID
		items[i].ID = 0
	}
	if err := g.db.WithContext(ctx).Create(&items).Error; err != nil {
		return wrap(op, err)
	}
	return nil
}

func (g *Gorm) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := g.db.WithContext(ctx).
		Preload("Items").
		Preload("Table").
		First(&order, id).Error
	if err != nil {
		return nil, wrap("store.GetOrder", err)
	}
	return &order, nil
}

func (g *Gorm) ActiveOrderForTable(ctx context.Context, tableID uint) (*models.Order, error) {
	var order models.Order
	err := nonTerminalOrders(g.db.WithContext(ctx).Preload("Items")).
		Where("table_id = ?", tableID).
		First(&order).Error
	if err != nil {
		return nil, wrap("store.ActiveOrderForTable", err)
	}
	return &order, nil
}

func (g *Gorm) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	q := g.db.WithContext(ctx).Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, wrap("store.ListOrders", err)
	}
	return orders, nil
}

// updateOrderStatusTx is the conditional order status write shared by
// UpdateOrderStatus and ResolveVoidRequest. Must run inside tx.
func updateOrderStatusTx(tx *gorm.DB, orderID uint, from, to models.OrderStatus, paymentMethod string, changedBy uint, note string) error {
	const op = "store.UpdateOrderStatus"
	updates := map[string]any{"status": to}
	if paymentMethod != "" {
		updates["payment_method"] = paymentMethod
	}
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Invariant(op, fmt.Errorf("order %d is no longer %s", orderID, from))
	}

	// Settlement or void releases the table toward dirty in the same
	// transaction, so the table never stays occupied with zero
	// non-terminal orders.
	if to.Terminal() {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.TableID != nil {
			if err := tx.Model(&models.Table{}).
				Where("id = ? AND status = ?", *order.TableID, models.TableOccupied).
				Update("status", models.TableDirty).Error; err != nil {
				return err
			}
		}
	}

	history := models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	}
	return tx.Create(&history).Error
}

func (g *Gorm) UpdateOrderStatus(ctx context.Context, orderID uint, from, to models.OrderStatus, paymentMethod string, changedBy uint, note string) error {
	const op = "store.UpdateOrderStatus"
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateOrderStatusTx(tx, orderID, from, to, paymentMethod, changedBy, note)
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return err
		}
		return wrap(op, err)
	}
	return nil
}

func (g *Gorm) UpdateOrderTotals(ctx context.Context, orderID uint, subtotal, discount, tip, tax, total float64) error {
	const op = "store.UpdateOrderTotals"
	res := g.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"subtotal": subtotal,
			"discount": discount,
			"tip":      tip,
			"tax":      tax,
			"total":    total,
		})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(op, fmt.Errorf("order %d", orderID))
	}
	return nil
}

// ── Order items ──────────────────────────────────────────────────────

func (g *Gorm) GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := g.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, wrap("store.GetOrderItem", err)
	}
	return &item, nil
}

func (g *Gorm) UpdateOrderItemStatus(ctx context.Context, itemID uint, from, to models.OrderItemStatus) error {
	const op = "store.UpdateOrderItemStatus"
	res := g.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ? AND status = ?", itemID, from).
		Update("status", to)
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Invariant(op, fmt.Errorf("item %d is no longer %s", itemID, from))
	}
	return nil
}

// ── Catalog ──────────────────────────────────────────────────────────

func (g *Gorm) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := g.db.WithContext(ctx).
		Preload("Variants").
		Preload("Properties").
		First(&item, id).Error
	if err != nil {
		return nil, wrap("store.GetMenuItem", err)
	}
	return &item, nil
}

// ── Shifts ───────────────────────────────────────────────────────────

func (g *Gorm) OpenShift(ctx context.Context, employeeID uint, openingCash float64) (*models.Shift, error) {
	const op = "store.OpenShift"
	shift := models.Shift{
		EmployeeID:  employeeID,
		OpeningCash: openingCash,
		Status:      models.ShiftOpen,
		OpenedAt:    time.Now(),
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.Shift{}).
			Where("employee_id = ? AND status = ?", employeeID, models.ShiftOpen).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return errs.Invariant(op, fmt.Errorf("employee %d already has an open shift", employeeID))
		}
		return tx.Create(&shift).Error
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, wrap(op, err)
	}
	return &shift, nil
}

func (g *Gorm) CloseShift(ctx context.Context, shiftID, employeeID uint, closingCash float64, notes string) (*models.Shift, error) {
	const op = "store.CloseShift"
	now := time.Now()
	res := g.db.WithContext(ctx).Model(&models.Shift{}).
		Where("id = ? AND employee_id = ? AND status = ?", shiftID, employeeID, models.ShiftOpen).
		Updates(map[string]any{
			"status":       models.ShiftClosed,
			"closing_cash": closingCash,
			"notes":        notes,
			"closed_at":    now,
		})
	if res.Error != nil {
		return nil, wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.Invariant(op, fmt.Errorf("shift %d is not open for employee %d", shiftID, employeeID))
	}
	var shift models.Shift
	if err := g.db.WithContext(ctx).First(&shift, shiftID).Error; err != nil {
		return nil, wrap(op, err)
	}
	return &shift, nil
}

func (g *Gorm) OpenShiftFor(ctx context.Context, employeeID uint) (*models.Shift, error) {
	var shift models.Shift
	err := g.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, models.ShiftOpen).
		First(&shift).Error
	if err != nil {
		return nil, wrap("store.OpenShiftFor", err)
	}
	return &shift, nil
}

// ── Void requests ────────────────────────────────────────────────────

func (g *Gorm) FileVoidRequest(ctx context.Context, req *models.VoidRequest) error {
	if err := g.db.WithContext(ctx).Create(req).Error; err != nil {
		return wrap("store.FileVoidRequest", err)
	}
	return nil
}

func (g *Gorm) GetVoidRequest(ctx context.Context, id uint) (*models.VoidRequest, error) {
	var req models.VoidRequest
	if err := g.db.WithContext(ctx).Preload("Order").First(&req, id).Error; err != nil {
		return nil, wrap("store.GetVoidRequest", err)
	}
	return &req, nil
}

func (g *Gorm) ListVoidRequests(ctx context.Context, status models.VoidRequestStatus) ([]models.VoidRequest, error) {
	var reqs []models.VoidRequest
	q := g.db.WithContext(ctx).Preload("Order").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, wrap("store.ListVoidRequests", err)
	}
	return reqs, nil
}

func (g *Gorm) ResolveVoidRequest(ctx context.Context, requestID, reviewerID uint, decision models.VoidRequestStatus, orderTarget models.OrderStatus, note string) error {
	const op = "store.ResolveVoidRequest"
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.VoidRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.VoidRequest{}).
			Where("id = ? AND status = ?", requestID, models.VoidRequestPending).
			Updates(map[string]any{
				"status":         decision,
				"reviewed_by_id": reviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Invariant(op, fmt.Errorf("void request %d is no longer pending", requestID))
		}
		// The order leaves void_pending in the same transaction. If it
		// cannot, the resolution rolls back and the request stays pending.
		return updateOrderStatusTx(tx, req.OrderID, models.OrderVoidPending, orderTarget, "", reviewerID, note)
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return err
		}
		return wrap(op, err)
	}
	return nil
}

// ── Notifications ────────────────────────────────────────────────────

func (g *Gorm) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := g.db.WithContext(ctx).Create(n).Error; err != nil {
		return wrap("store.CreateNotification", err)
	}
	return nil
}

func (g *Gorm) ListNotifications(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	var notes []models.Notification
	err := g.db.WithContext(ctx).
		Where("recipient_id IS NULL OR recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&notes).Error
	if err != nil {
		return nil, wrap("store.ListNotifications", err)
	}
	return notes, nil
}

func (g *Gorm) MarkNotificationRead(ctx context.Context, id uint) error {
	const op = "store.MarkNotificationRead"
	res := g.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(op, fmt.Errorf("notification %d", id))
	}
	return nil
}
