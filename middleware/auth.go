package middleware

import (
	"errors"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
)

// ValidateToken checks the bearer token and puts the user id into the
// context for the handlers downstream.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization header is missing"))
		c.Abort()
		return
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		apperrors.Respond(c, apperrors.Unauthorized("Invalid or expired token"))
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Invalid token claims"))
		c.Abort()
		return
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		// older tokens carry the id under user_id
		sub, _ = claims["user_id"].(string)
	}
	if sub == "" {
		apperrors.Respond(c, apperrors.Unauthorized("Token carries no user identity"))
		c.Abort()
		return
	}

	c.Set("user_id", sub)
	c.Next()
}

// UserID pulls the authenticated user id set by ValidateToken.
func UserID(c *gin.Context) (string, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
