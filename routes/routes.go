package routes

import (
	"github.com/gin-gonic/gin"

	"respos-api/handlers"
	"respos-api/middleware"
	"respos-api/models"
	"respos-api/store"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, st store.Store, jwtSecret []byte) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machines", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(jwtSecret, st))
	{
		auth.GET("/profile", h.Profile)
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/stream", h.Stream)
		auth.GET("/notifications", h.ListNotifications)
		auth.PUT("/notifications/:id/read", h.MarkNotificationRead)
		auth.GET("/tables", h.ListTables)
		auth.GET("/tables/:id/order", h.GetTableOrder)
		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/:id", h.GetOrder)
	}

	// ── Captain routes: table selection, cart, submission ──────────
	captain := r.Group("/api")
	captain.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermOrders))
	{
		captain.PUT("/tables/:id/select", h.SelectTable)
		captain.GET("/cart", h.GetCart)
		captain.POST("/cart", h.AddToCart)
		captain.PUT("/cart/:lineId", h.UpdateCartLine)
		captain.DELETE("/cart/:lineId", h.RemoveCartLine)
		captain.DELETE("/cart", h.ClearCart)
		captain.POST("/cart/submit", h.SubmitCart)
		captain.PUT("/orders/:id/adjustments", h.SetAdjustments)
		captain.PUT("/orders/items/:itemId/void", h.VoidItem)
	}

	// ── Floor routes: cleanliness and reservations ─────────────────
	floor := r.Group("/api")
	floor.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermTables))
	{
		floor.PUT("/tables/:id/clean", h.CleanTable)
		floor.PUT("/tables/:id/reserve", h.ReserveTable)
		floor.PUT("/tables/:id/unreserve", h.CancelReservation)
	}

	// ── Kitchen and serving routes ─────────────────────────────────
	kitchen := r.Group("/api")
	kitchen.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermKitchen, models.PermServe))
	{
		kitchen.PUT("/orders/items/:itemId/status", h.UpdateItemStatus)
	}
	serve := r.Group("/api")
	serve.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermServe))
	{
		serve.PUT("/orders/:id/serve-all", h.ServeAll)
	}

	// ── Cashier routes: shifts and settlement ──────────────────────
	cashier := r.Group("/api")
	cashier.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermShifts, models.PermPayments))
	{
		cashier.POST("/shifts", h.OpenShift)
		cashier.PUT("/shifts/:id/close", h.CloseShift)
		cashier.GET("/shifts/current", h.CurrentShift)
		cashier.PUT("/orders/:id/pay", h.Pay)
	}

	// ── Void flow ──────────────────────────────────────────────────
	voidReq := r.Group("/api")
	voidReq.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermVoidRequest, models.PermVoidApprove))
	{
		voidReq.POST("/orders/:id/void-request", h.RequestVoid)
		voidReq.GET("/void-requests", h.ListVoidRequests)
	}
	voidApprove := r.Group("/api")
	voidApprove.Use(middleware.AuthRequired(jwtSecret, st), middleware.PermissionRequired(models.PermVoidApprove))
	{
		voidApprove.PUT("/void-requests/:id/resolve", h.ResolveVoid)
		voidApprove.PUT("/orders/:id/void", h.VoidOrder)
	}
}
