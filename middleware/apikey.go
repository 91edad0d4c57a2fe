package middleware

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
)

func ValidateAPIKey(c *gin.Context) {
	apiKey := c.GetHeader("X-API-KEY")
	if apiKey == "" || apiKey != os.Getenv("ADMIN_API_KEY") {
		apperrors.Respond(c, apperrors.Unauthorized("Invalid or missing API key"))
		c.Abort()
		return
	}
	c.Next()
}
