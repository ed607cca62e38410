package statemachine

import "respos-api/models"

// Order is the authoritative state machine for a check's lifecycle.
//
// open ↔ in_progress and in_progress → ready are system-driven: they are
// derived from the aggregate status of the order's items, never requested
// directly by a client. void_pending freezes the order until a void_approve
// holder resolves the request; rejection restores the recorded prior state.
var Order = New("order", []Transition[models.OrderStatus]{
	// Derived from item progress.
	{From: models.OrderOpen, To: models.OrderInProgress, Actor: ActorSystem},
	{From: models.OrderInProgress, To: models.OrderOpen, Actor: ActorSystem},
	{From: models.OrderInProgress, To: models.OrderReady, Actor: ActorSystem},
	// Adding a fresh item to a ready order puts it back in progress.
	{From: models.OrderReady, To: models.OrderInProgress, Actor: ActorSystem},

	// Void request flow. Filing freezes the order; resolution either
	// restores the prior state or voids the order.
	{From: models.OrderOpen, To: models.OrderVoidPending, Actor: string(models.PermVoidRequest)},
	{From: models.OrderInProgress, To: models.OrderVoidPending, Actor: string(models.PermVoidRequest)},
	{From: models.OrderReady, To: models.OrderVoidPending, Actor: string(models.PermVoidRequest)},
	{From: models.OrderVoidPending, To: models.OrderOpen, Actor: string(models.PermVoidApprove)},
	{From: models.OrderVoidPending, To: models.OrderInProgress, Actor: string(models.PermVoidApprove)},
	{From: models.OrderVoidPending, To: models.OrderReady, Actor: string(models.PermVoidApprove)},
	{From: models.OrderVoidPending, To: models.OrderVoid, Actor: string(models.PermVoidApprove)},

	// A void_approve holder may void directly without the request detour.
	{From: models.OrderOpen, To: models.OrderVoid, Actor: string(models.PermVoidApprove)},
	{From: models.OrderInProgress, To: models.OrderVoid, Actor: string(models.PermVoidApprove)},
	{From: models.OrderReady, To: models.OrderVoid, Actor: string(models.PermVoidApprove)},

	// Settlement. Irreversible; additionally gated by the shift guard.
	{From: models.OrderOpen, To: models.OrderPaid, Actor: string(models.PermPayments)},
	{From: models.OrderInProgress, To: models.OrderPaid, Actor: string(models.PermPayments)},
	{From: models.OrderReady, To: models.OrderPaid, Actor: string(models.PermPayments)},
})
