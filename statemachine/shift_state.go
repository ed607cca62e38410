package statemachine

import "respos-api/models"

// Shift is deliberately tiny: a cash-drawer session opens once and closes
// once. Opening is a row creation, not a transition.
var Shift = New("shift", []Transition[models.ShiftStatus]{
	{From: models.ShiftOpen, To: models.ShiftClosed, Actor: string(models.PermShifts)},
})
