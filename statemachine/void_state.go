package statemachine

import "respos-api/models"

// VoidRequest resolution is reserved to void_approve holders. approved and
// rejected are both terminal; a rejected request is never reopened, the
// requester files a new one.
var VoidRequest = New("void_request", []Transition[models.VoidRequestStatus]{
	{From: models.VoidRequestPending, To: models.VoidRequestApproved, Actor: string(models.PermVoidApprove)},
	{From: models.VoidRequestPending, To: models.VoidRequestRejected, Actor: string(models.PermVoidApprove)},
})
