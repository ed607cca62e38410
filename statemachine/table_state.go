package statemachine

import "respos-api/models"

// Table tracks physical occupancy and cleanliness, independent of any
// specific order. free → occupied and occupied → dirty are system-driven
// (order creation and settlement); dirty → free is an explicit staff
// action with no order involvement.
var Table = New("table", []Transition[models.TableStatus]{
	{From: models.TableFree, To: models.TableOccupied, Actor: ActorSystem},
	{From: models.TableReserved, To: models.TableOccupied, Actor: ActorSystem},
	{From: models.TableOccupied, To: models.TableDirty, Actor: ActorSystem},
	{From: models.TableDirty, To: models.TableFree, Actor: string(models.PermTables)},
	{From: models.TableFree, To: models.TableReserved, Actor: string(models.PermTables)},
	{From: models.TableReserved, To: models.TableFree, Actor: string(models.PermTables)},
})
