package engine

import (
	"context"
	"fmt"

	"respos-api/errs"
	"respos-api/models"
	"respos-api/realtime"
	"respos-api/statemachine"
)

// VoidRequests lists void requests, optionally filtered by status.
func (e *Engine) VoidRequests(ctx context.Context, status models.VoidRequestStatus) ([]models.VoidRequest, error) {
	return e.store.ListVoidRequests(ctx, status)
}

// RequestVoid files a void request and freezes the order at void_pending.
// Any non-terminal order qualifies, even one with every item served —
// order-level void is independent of item-level void eligibility. An
// employee holding void_approve should use VoidOrder directly instead.
func (e *Engine) RequestVoid(ctx context.Context, emp *models.Employee, orderID uint, reason string) (*models.VoidRequest, error) {
	const op = "engine.RequestVoid"
	if err := require(op, emp, models.PermVoidRequest); err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderVoidPending, string(models.PermVoidRequest)); err != nil {
		return nil, errs.Invariant(op, err)
	}

	prior := order.Status
	if err := e.store.UpdateOrderStatus(ctx, orderID, prior, models.OrderVoidPending, "", emp.ID, "void requested: "+reason); err != nil {
		return nil, err
	}
	req := &models.VoidRequest{
		OrderID:       orderID,
		RequestedByID: emp.ID,
		Reason:        reason,
		Status:        models.VoidRequestPending,
		PriorStatus:   prior,
	}
	if err := e.store.FileVoidRequest(ctx, req); err != nil {
		return nil, err
	}

	e.publish(realtime.EventUpdate, realtime.CollectionOrders, orderID)
	e.publish(realtime.EventInsert, realtime.CollectionVoidRequests, req.ID)
	e.notify(ctx, nil, "void_requested", fmt.Sprintf("void requested for order %s: %s", order.OrderNumber, reason))
	return req, nil
}

// ResolveVoid approves or rejects a pending request. Approval voids the
// order and releases its table; rejection restores the status the order
// held when the request was filed.
func (e *Engine) ResolveVoid(ctx context.Context, emp *models.Employee, requestID uint, approve bool) (*models.VoidRequest, error) {
	const op = "engine.ResolveVoid"
	if err := require(op, emp, models.PermVoidApprove); err != nil {
		return nil, err
	}
	req, err := e.store.GetVoidRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	decision := models.VoidRequestRejected
	if approve {
		decision = models.VoidRequestApproved
	}
	if err := statemachine.VoidRequest.CanTransition(req.Status, decision, string(models.PermVoidApprove)); err != nil {
		return nil, errs.Invariant(op, err)
	}

	// One store transaction resolves the request and moves the order out
	// of void_pending, so the order can never end up permanently frozen
	// behind an already-resolved request.
	target := req.PriorStatus
	note := "void rejected, prior status restored"
	if approve {
		target = models.OrderVoid
		note = "void approved"
	}
	if err := e.store.ResolveVoidRequest(ctx, requestID, emp.ID, decision, target, note); err != nil {
		return nil, err
	}

	order, err := e.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	e.publish(realtime.EventUpdate, realtime.CollectionOrders, req.OrderID)
	e.publish(realtime.EventUpdate, realtime.CollectionVoidRequests, requestID)
	if approve && order.TableID != nil {
		e.publish(realtime.EventUpdate, realtime.CollectionTables, *order.TableID)
	}
	e.notify(ctx, &req.RequestedByID, "void_resolved",
		fmt.Sprintf("void request for order %s was %s", order.OrderNumber, decision))

	req.Status = decision
	req.ReviewedByID = &emp.ID
	return req, nil
}

// VoidOrder voids directly, without the request detour. Reserved to
// void_approve holders.
func (e *Engine) VoidOrder(ctx context.Context, emp *models.Employee, orderID uint, reason string) (*models.Order, error) {
	const op = "engine.VoidOrder"
	if err := require(op, emp, models.PermVoidApprove); err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderVoid, string(models.PermVoidApprove)); err != nil {
		return nil, errs.Invariant(op, err)
	}
	if err := e.store.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderVoid, "", emp.ID, "voided: "+reason); err != nil {
		return nil, err
	}
	e.publish(realtime.EventUpdate, realtime.CollectionOrders, orderID)
	if order.TableID != nil {
		e.publish(realtime.EventUpdate, realtime.CollectionTables, *order.TableID)
	}
	return e.store.GetOrder(ctx, orderID)
}
