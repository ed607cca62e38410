package store

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"respos-api/errs"
	"respos-api/models"
)

func newTestStore(t *testing.T) *Gorm {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGorm(db)
}

func seedTable(t *testing.T, g *Gorm, status models.TableStatus) *models.Table {
	t.Helper()
	floor := models.Floor{Name: "main"}
	if err := g.db.Create(&floor).Error; err != nil {
		t.Fatalf("seed floor: %v", err)
	}
	table := models.Table{FloorID: floor.ID, Number: 1, Seats: 4, Status: status}
	if err := g.db.Create(&table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return &table
}

func newOrderFor(table *models.Table) *models.Order {
	return &models.Order{
		TableID:     &table.ID,
		OrderNumber: "T-1",
		Status:      models.OrderOpen,
		OpenedByID:  1,
	}
}

func TestCreateOrderOccupiesTable(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	items := []models.OrderItem{{MenuItemID: 1, Name: "Item A", Quantity: 2, UnitPrice: 10, Status: models.ItemPending}}
	if err := g.CreateOrder(ctx, newOrderFor(table), items); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, err := g.GetTable(ctx, table.ID)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got.Status != models.TableOccupied {
		t.Errorf("table status: got %s, want occupied", got.Status)
	}

	order, err := g.ActiveOrderForTable(ctx, table.ID)
	if err != nil {
		t.Fatalf("ActiveOrderForTable: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("order items: got %+v", order.Items)
	}
}

func TestCreateOrderRaceLoserGetsInvariantViolation(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	if err := g.CreateOrder(ctx, newOrderFor(table), nil); err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}
	// Second writer raced on the same table: exactly one order may win.
	err := g.CreateOrder(ctx, newOrderFor(table), nil)
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Fatalf("second CreateOrder: got %v, want invariant violation", err)
	}

	var count int64
	g.db.Model(&models.Order{}).Where("table_id = ?", table.ID).Count(&count)
	if count != 1 {
		t.Errorf("orders against table: got %d, want 1", count)
	}
}

func TestUpdateTableStatusConditional(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableDirty)
	ctx := context.Background()

	if err := g.UpdateTableStatus(ctx, table.ID, models.TableDirty, models.TableFree); err != nil {
		t.Fatalf("dirty→free: %v", err)
	}
	// Stale expectation loses.
	err := g.UpdateTableStatus(ctx, table.ID, models.TableDirty, models.TableFree)
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("stale flip: got %v, want invariant violation", err)
	}
}

func TestSettlementReleasesTable(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	order := newOrderFor(table)
	if err := g.CreateOrder(ctx, order, nil); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := g.UpdateOrderStatus(ctx, order.ID, models.OrderOpen, models.OrderPaid, "cash", 1, "settled"); err != nil {
		t.Fatalf("settle: %v", err)
	}

	got, _ := g.GetTable(ctx, table.ID)
	if got.Status != models.TableDirty {
		t.Errorf("table after settlement: got %s, want dirty", got.Status)
	}

	reloaded, _ := g.GetOrder(ctx, order.ID)
	if reloaded.PaymentMethod != "cash" {
		t.Errorf("payment method: got %q, want cash", reloaded.PaymentMethod)
	}
	if len(reloaded.Items) != 0 {
		t.Errorf("unexpected items: %+v", reloaded.Items)
	}
}

func TestUpdateOrderStatusRejectsStaleFrom(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	order := newOrderFor(table)
	if err := g.CreateOrder(ctx, order, nil); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	err := g.UpdateOrderStatus(ctx, order.ID, models.OrderReady, models.OrderPaid, "cash", 1, "")
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("stale from-status: got %v, want invariant violation", err)
	}
}

func TestOpenShiftSingleton(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	ctx := context.Background()

	first, err := g.OpenShift(ctx, 42, 100)
	if err != nil {
		t.Fatalf("first OpenShift: %v", err)
	}
	if _, err := g.OpenShift(ctx, 42, 50); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Fatalf("second OpenShift: got %v, want invariant violation", err)
	}
	// Another employee is unaffected.
	if _, err := g.OpenShift(ctx, 43, 80); err != nil {
		t.Fatalf("other employee OpenShift: %v", err)
	}

	if _, err := g.CloseShift(ctx, first.ID, 42, 180, "even"); err != nil {
		t.Fatalf("CloseShift: %v", err)
	}
	if _, err := g.OpenShiftFor(ctx, 42); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("OpenShiftFor after close: got %v, want not found", err)
	}
	// Re-opening after close is allowed.
	if _, err := g.OpenShift(ctx, 42, 180); err != nil {
		t.Errorf("reopen after close: %v", err)
	}
}

// fileFrozenVoidRequest opens an order on the table, freezes it at
// void_pending and files the matching request.
func fileFrozenVoidRequest(t *testing.T, g *Gorm, table *models.Table) (*models.Order, *models.VoidRequest) {
	t.Helper()
	ctx := context.Background()
	order := newOrderFor(table)
	if err := g.CreateOrder(ctx, order, nil); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := g.UpdateOrderStatus(ctx, order.ID, models.OrderOpen, models.OrderVoidPending, "", 2, "void requested"); err != nil {
		t.Fatalf("freeze order: %v", err)
	}
	req := &models.VoidRequest{OrderID: order.ID, RequestedByID: 2, Reason: "spilled", Status: models.VoidRequestPending, PriorStatus: models.OrderOpen}
	if err := g.FileVoidRequest(ctx, req); err != nil {
		t.Fatalf("FileVoidRequest: %v", err)
	}
	return order, req
}

func TestResolveVoidRequestConditional(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	order, req := fileFrozenVoidRequest(t, g, table)
	if err := g.ResolveVoidRequest(ctx, req.ID, 9, models.VoidRequestApproved, models.OrderVoid, "void approved"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// A second reviewer racing the resolution loses.
	err := g.ResolveVoidRequest(ctx, req.ID, 10, models.VoidRequestRejected, models.OrderOpen, "")
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("double resolve: got %v, want invariant violation", err)
	}

	got, _ := g.GetVoidRequest(ctx, req.ID)
	if got.Status != models.VoidRequestApproved || got.ReviewedByID == nil || *got.ReviewedByID != 9 {
		t.Errorf("resolved request: %+v", got)
	}
	// The order left void_pending in the same write, table released.
	reloaded, _ := g.GetOrder(ctx, order.ID)
	if reloaded.Status != models.OrderVoid {
		t.Errorf("order after approval: got %s, want void", reloaded.Status)
	}
	gotTable, _ := g.GetTable(ctx, table.ID)
	if gotTable.Status != models.TableDirty {
		t.Errorf("table after approval: got %s, want dirty", gotTable.Status)
	}
}

// Resolution and the order's exit from void_pending are one transaction:
// if the order cannot leave the frozen state, the request stays pending
// rather than ending up resolved against a still-frozen order.
func TestResolveVoidRequestAtomicWithOrder(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	order, req := fileFrozenVoidRequest(t, g, table)
	// Someone already yanked the order out of void_pending.
	if err := g.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderOpen).Error; err != nil {
		t.Fatalf("unfreeze order: %v", err)
	}

	err := g.ResolveVoidRequest(ctx, req.ID, 9, models.VoidRequestApproved, models.OrderVoid, "void approved")
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Fatalf("resolve against unfrozen order: got %v, want invariant violation", err)
	}
	got, _ := g.GetVoidRequest(ctx, req.ID)
	if got.Status != models.VoidRequestPending || got.ReviewedByID != nil {
		t.Errorf("request after rollback: %+v, want still pending", got)
	}
	reloaded, _ := g.GetOrder(ctx, order.ID)
	if reloaded.Status != models.OrderOpen {
		t.Errorf("order after rollback: got %s, want open", reloaded.Status)
	}
}

func TestUpdateOrderItemStatusConditional(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	table := seedTable(t, g, models.TableFree)
	ctx := context.Background()

	order := newOrderFor(table)
	items := []models.OrderItem{{MenuItemID: 1, Name: "Item A", Quantity: 1, UnitPrice: 5, Status: models.ItemPending}}
	if err := g.CreateOrder(ctx, order, items); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	itemID := order.Items[0].ID

	if err := g.UpdateOrderItemStatus(ctx, itemID, models.ItemPending, models.ItemPreparing); err != nil {
		t.Fatalf("pending→preparing: %v", err)
	}
	err := g.UpdateOrderItemStatus(ctx, itemID, models.ItemPending, models.ItemPreparing)
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("stale item flip: got %v, want invariant violation", err)
	}
}

func TestNotificationsRecipientScope(t *testing.T) {
	t.Parallel()
	g := newTestStore(t)
	ctx := context.Background()

	alice := uint(1)
	if err := g.CreateNotification(ctx, &models.Notification{RecipientID: &alice, Kind: "order_ready", Message: "order 1 ready"}); err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if err := g.CreateNotification(ctx, &models.Notification{Kind: "announcement", Message: "floor meeting"}); err != nil {
		t.Fatalf("CreateNotification broadcast: %v", err)
	}

	mine, err := g.ListNotifications(ctx, alice)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("alice notifications: got %d, want 2 (own + broadcast)", len(mine))
	}

	other, err := g.ListNotifications(ctx, 99)
	if err != nil {
		t.Fatalf("ListNotifications other: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("stranger notifications: got %d, want 1 (broadcast only)", len(other))
	}
}
