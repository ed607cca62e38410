package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"respos-api/models"
	"respos-api/store"
)

type Claims struct {
	EmployeeID uint   `json:"employee_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for an employee. Roles are not baked
// into the token: they are resolved fresh on every request, so a role
// change takes effect without re-login.
func GenerateToken(secret []byte, emp *models.Employee) (string, error) {
	claims := Claims{
		EmployeeID: emp.ID,
		Email:      emp.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// AuthRequired validates the JWT, resolves the employee with their roles,
// and injects them into the request context.
func AuthRequired(secret []byte, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		emp, err := st.EmployeeForUser(c.Request.Context(), claims.EmployeeID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Employee no longer exists"})
			c.Abort()
			return
		}
		c.Set("employee", emp)
		c.Next()
	}
}

// PermissionRequired enforces that the caller holds one of the listed
// permissions. A coarse pre-filter: handlers still re-check through the
// engine, which is authoritative.
func PermissionRequired(perms ...models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		emp := GetEmployee(c)
		if emp == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Employee not found in context"})
			c.Abort()
			return
		}
		for _, p := range perms {
			if emp.HasPermission(p) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required permission(s): " + permsString(perms),
		})
		c.Abort()
	}
}

func permsString(perms []models.Permission) string {
	s := ""
	for i, p := range perms {
		if i > 0 {
			s += ", "
		}
		s += string(p)
	}
	return s
}

// GetEmployee extracts the authenticated employee from context.
func GetEmployee(c *gin.Context) *models.Employee {
	val, ok := c.Get("employee")
	if !ok {
		return nil
	}
	emp, _ := val.(*models.Employee)
	return emp
}
