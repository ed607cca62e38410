package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"respos-api/middleware"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an employee and returns a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	emp, err := h.Store.EmployeeByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	token, err := middleware.GenerateToken(h.JWTSecret, emp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "employee": emp})
}

// Profile returns the caller plus the actions their roles currently allow,
// so the UI can disable controls ahead of time.
func (h *Handler) Profile(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	c.JSON(http.StatusOK, gin.H{
		"employee":        emp,
		"allowed_actions": h.Engine.AllowedActions(c.Request.Context(), emp),
	})
}

// Logout drops the caller's session, cart included.
func (h *Handler) Logout(c *gin.Context) {
	emp := middleware.GetEmployee(c)
	h.Engine.DropSession(emp.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Session dropped"})
}
