package middleware

import (
	"errors"
	"net/http"

	"delivery-service/models"

	"github.com/gin-gonic/gin"
)

const (
	AccountContextKey = "accountID"
	RoleContextKey    = "role"
	AdminRole         = "admin"
)

// AuthMiddleware trusts the identity headers stamped by the api gateway,
// with a cookie fallback for portals served behind it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader("X-User-ID")
		role := c.GetHeader("X-User-Role")

		if accountID == "" {
			if v, err := c.Cookie("user_id"); err == nil {
				accountID = v
			}
		}
		if role == "" {
			if v, err := c.Cookie("user_role"); err == nil {
				role = v
			}
		}

		if accountID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(AccountContextKey, accountID)
		c.Set(RoleContextKey, role)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleContextKey)
		if !exists || role != AdminRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAccountID returns the authenticated account id.
func GetAccountID(c *gin.Context) (string, error) {
	id, exists := c.Get(AccountContextKey)
	if !exists {
		return "", errors.New("account id not found in context")
	}
	s, ok := id.(string)
	if !ok || s == "" {
		return "", errors.New("invalid account id in context")
	}
	return s, nil
}

// GetAccountType maps the gateway role header onto a token-owning account
// type. Unknown roles default to customer accounts.
func GetAccountType(c *gin.Context) string {
	role, _ := c.Get(RoleContextKey)
	switch role {
	case models.AccountRestaurant:
		return models.AccountRestaurant
	case models.AccountDelivery:
		return models.AccountDelivery
	default:
		return models.AccountUser
	}
}
