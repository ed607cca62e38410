package statemachine

import "respos-api/models"

// OrderItem tracks a single line through the kitchen. void is reachable
// from pending/preparing only: once a line is ready or served it can no
// longer be voided directly and requires an order-level void request.
var OrderItem = New("order_item", []Transition[models.OrderItemStatus]{
	{From: models.ItemPending, To: models.ItemPreparing, Actor: string(models.PermKitchen)},
	{From: models.ItemPreparing, To: models.ItemReady, Actor: string(models.PermKitchen)},
	{From: models.ItemReady, To: models.ItemServed, Actor: string(models.PermServe)},
	{From: models.ItemPending, To: models.ItemVoid, Actor: string(models.PermOrders)},
	{From: models.ItemPreparing, To: models.ItemVoid, Actor: string(models.PermOrders)},
})
