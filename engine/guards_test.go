package engine

import (
	"context"
	"errors"
	"testing"

	"respos-api/errs"
	"respos-api/models"
)

func TestPayRequiresOpenShift(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)

	// Cashier holds the payments permission but has no open shift: the
	// rejection must be ShiftRequired, never a generic permission error.
	_, err := h.engine.Pay(ctx, h.cashier, order.ID, "cash")
	if !errors.Is(err, errs.ErrShiftRequired) {
		t.Fatalf("pay without shift: got %v, want shift required", err)
	}
	if errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatal("pay without shift must not read as a permission rejection")
	}

	if _, err := h.engine.OpenShift(ctx, h.cashier, 100); err != nil {
		t.Fatalf("OpenShift: %v", err)
	}
	if _, err := h.engine.Pay(ctx, h.cashier, order.ID, "cash"); err != nil {
		t.Fatalf("pay with open shift: %v", err)
	}
}

func TestPayPermissionAndMethodGates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)

	// Captain lacks payments entirely.
	if _, err := h.engine.Pay(ctx, h.captain, order.ID, "cash"); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("pay by captain: got %v, want permission denied", err)
	}

	if _, err := h.engine.OpenShift(ctx, h.cashier, 100); err != nil {
		t.Fatalf("OpenShift: %v", err)
	}
	// Empty payment method is rejected before anything mutates.
	if _, err := h.engine.Pay(ctx, h.cashier, order.ID, ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("pay without method: got %v, want validation failure", err)
	}

	// Settlement is irreversible: paying twice hits an undefined edge.
	if _, err := h.engine.Pay(ctx, h.cashier, order.ID, "cash"); err != nil {
		t.Fatalf("first pay: %v", err)
	}
	if _, err := h.engine.Pay(ctx, h.cashier, order.ID, "card"); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("second pay: got %v, want invariant violation", err)
	}
}

func TestKitchenPermissionGates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)
	itemID := order.Items[0].ID

	// The captain cannot drive kitchen edges.
	if _, err := h.engine.UpdateItemStatus(ctx, h.captain, itemID, models.ItemPreparing); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("captain advancing item: got %v, want permission denied", err)
	}
	// The cook cannot serve.
	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, itemID, models.ItemPreparing); err != nil {
		t.Fatalf("cook to preparing: %v", err)
	}
	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, itemID, models.ItemReady); err != nil {
		t.Fatalf("cook to ready: %v", err)
	}
	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, itemID, models.ItemServed); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("cook serving: got %v, want permission denied", err)
	}
	// The captain serves.
	if _, err := h.engine.UpdateItemStatus(ctx, h.captain, itemID, models.ItemServed); err != nil {
		t.Errorf("captain serving: %v", err)
	}
	// Undefined edge: served → preparing does not exist for anyone.
	if _, err := h.engine.UpdateItemStatus(ctx, h.admin, itemID, models.ItemPreparing); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("served→preparing: got %v, want invariant violation", err)
	}
}

func TestItemVoidEligibility(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)
	itemID := order.Items[0].ID

	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, itemID, models.ItemPreparing); err != nil {
		t.Fatalf("to preparing: %v", err)
	}
	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, itemID, models.ItemReady); err != nil {
		t.Fatalf("to ready: %v", err)
	}

	// Ready lines cannot be voided directly.
	if _, err := h.engine.VoidItem(ctx, h.captain, itemID); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("void ready item: got %v, want invariant violation", err)
	}

	// But the order-level void request is still permitted, even once
	// everything is served.
	if _, err := h.engine.UpdateItemStatus(ctx, h.captain, itemID, models.ItemServed); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if _, err := h.engine.RequestVoid(ctx, h.captain, order.ID, "guest walked out"); err != nil {
		t.Errorf("order-level void on served order: %v", err)
	}
}

func TestVoidRequestFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)
	if _, err := h.engine.UpdateItemStatus(ctx, h.cook, order.Items[0].ID, models.ItemPreparing); err != nil {
		t.Fatalf("to preparing: %v", err)
	}

	req, err := h.engine.RequestVoid(ctx, h.captain, order.ID, "wrong order")
	if err != nil {
		t.Fatalf("RequestVoid: %v", err)
	}
	if req.PriorStatus != models.OrderInProgress {
		t.Errorf("prior status: got %s, want in_progress", req.PriorStatus)
	}
	frozen, _ := h.engine.Order(ctx, order.ID)
	if frozen.Status != models.OrderVoidPending {
		t.Fatalf("order after request: got %s, want void_pending", frozen.Status)
	}

	// Frozen means no settlement.
	if _, err := h.engine.OpenShift(ctx, h.cashier, 100); err != nil {
		t.Fatalf("OpenShift: %v", err)
	}
	if _, err := h.engine.Pay(ctx, h.cashier, order.ID, "cash"); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("pay while frozen: got %v, want invariant violation", err)
	}

	// The captain cannot resolve; the admin rejects and the prior status
	// comes back.
	if _, err := h.engine.ResolveVoid(ctx, h.captain, req.ID, true); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("captain resolving: got %v, want permission denied", err)
	}
	if _, err := h.engine.ResolveVoid(ctx, h.admin, req.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}
	restored, _ := h.engine.Order(ctx, order.ID)
	if restored.Status != models.OrderInProgress {
		t.Errorf("order after rejection: got %s, want in_progress restored", restored.Status)
	}

	// Second request, approved this time: order voids, table releases.
	req, err = h.engine.RequestVoid(ctx, h.captain, order.ID, "still wrong")
	if err != nil {
		t.Fatalf("second RequestVoid: %v", err)
	}
	if _, err := h.engine.ResolveVoid(ctx, h.admin, req.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}
	voided, _ := h.engine.Order(ctx, order.ID)
	if voided.Status != models.OrderVoid {
		t.Errorf("order after approval: got %s, want void", voided.Status)
	}
	table, _ := h.engine.Table(ctx, h.table1.ID)
	if table.Status != models.TableDirty {
		t.Errorf("table after void: got %s, want dirty", table.Status)
	}
}

func TestDirectVoidByApprover(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)
	if _, err := h.engine.VoidOrder(ctx, h.captain, order.ID, "nope"); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("direct void by captain: got %v, want permission denied", err)
	}
	voided, err := h.engine.VoidOrder(ctx, h.admin, order.ID, "comped")
	if err != nil {
		t.Fatalf("direct void by admin: %v", err)
	}
	if voided.Status != models.OrderVoid {
		t.Errorf("order: got %s, want void", voided.Status)
	}
}

func TestServeAllIssuesPerItemTransitions(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	order := h.submitOrder(t, h.captain, h.table1.ID, h.burger.ID, 1)
	if _, err := h.engine.AddToCart(ctx, h.captain, AddToCartInput{MenuItemID: h.fries.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if _, err := h.engine.SubmitCart(ctx, h.captain, 0); err != nil {
		t.Fatalf("append submit: %v", err)
	}

	order, _ = h.engine.Order(ctx, order.ID)
	// Only the burger reaches ready; the fries stay pending.
	for i := range order.Items {
		if order.Items[i].MenuItemID != h.burger.ID {
			continue
		}
		if _, err := h.engine.UpdateItemStatus(ctx, h.cook, order.Items[i].ID, models.ItemPreparing); err != nil {
			t.Fatalf("to preparing: %v", err)
		}
		if _, err := h.engine.UpdateItemStatus(ctx, h.cook, order.Items[i].ID, models.ItemReady); err != nil {
			t.Fatalf("to ready: %v", err)
		}
	}

	order, err := h.engine.ServeAll(ctx, h.captain, order.ID)
	if err != nil {
		t.Fatalf("ServeAll: %v", err)
	}
	servedBurger, pendingFries := false, false
	for i := range order.Items {
		switch order.Items[i].MenuItemID {
		case h.burger.ID:
			servedBurger = order.Items[i].Status == models.ItemServed
		case h.fries.ID:
			pendingFries = order.Items[i].Status == models.ItemPending
		}
	}
	if !servedBurger || !pendingFries {
		t.Errorf("after ServeAll: %+v", order.Items)
	}

	// The cook cannot batch-serve.
	if _, err := h.engine.ServeAll(ctx, h.cook, order.ID); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("cook ServeAll: got %v, want permission denied", err)
	}
}

func TestShiftLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	// The cook cannot open a drawer.
	if _, err := h.engine.OpenShift(ctx, h.cook, 50); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Errorf("cook OpenShift: got %v, want permission denied", err)
	}

	shift, err := h.engine.OpenShift(ctx, h.cashier, 100)
	if err != nil {
		t.Fatalf("OpenShift: %v", err)
	}
	// One open shift per employee.
	if _, err := h.engine.OpenShift(ctx, h.cashier, 10); !errors.Is(err, errs.ErrInvariantViolation) {
		t.Errorf("second OpenShift: got %v, want invariant violation", err)
	}

	current, err := h.engine.CurrentShift(ctx, h.cashier)
	if err != nil || current.ID != shift.ID {
		t.Fatalf("CurrentShift: %v (%+v)", err, current)
	}

	closed, err := h.engine.CloseShift(ctx, h.cashier, shift.ID, 250, "drawer even")
	if err != nil {
		t.Fatalf("CloseShift: %v", err)
	}
	if closed.Status != models.ShiftClosed || closed.ClosedAt == nil {
		t.Errorf("closed shift: %+v", closed)
	}
	if _, err := h.engine.CurrentShift(ctx, h.cashier); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("CurrentShift after close: got %v, want not found", err)
	}
}

func TestCanActPredicates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	if h.engine.CanAct(ctx, h.captain, "pay") {
		t.Error("captain should not be able to pay")
	}
	if !h.engine.CanAct(ctx, h.captain, "serve_item") {
		t.Error("captain should be able to serve")
	}
	if h.engine.CanAct(ctx, h.cook, "submit_order") {
		t.Error("cook should not submit orders")
	}

	// The payments permission alone is not enough: "pay" also needs an
	// open shift.
	if h.engine.CanAct(ctx, h.cashier, "pay") {
		t.Error("cashier without shift should not be able to pay")
	}
	if _, err := h.engine.OpenShift(ctx, h.cashier, 100); err != nil {
		t.Fatalf("OpenShift: %v", err)
	}
	if !h.engine.CanAct(ctx, h.cashier, "pay") {
		t.Error("cashier with open shift should be able to pay")
	}

	// Wildcard covers everything except the shift gate.
	actions := h.engine.AllowedActions(ctx, h.admin)
	for action, allowed := range actions {
		if action == "pay" {
			if allowed {
				t.Error("admin without shift should not pass the pay gate")
			}
			continue
		}
		if !allowed {
			t.Errorf("admin should be allowed %q", action)
		}
	}
}
