package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public,
// user (JWT-protected), and admin (API-key-protected) route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, qrUploadDir, publicBaseURL string) {
	SetupProductRoutes(r, db)

	SetupCartRoutes(r, db)

	SetupOrderRoutes(r, db)

	SetupUserRoutes(r, db)

	SetupAdminRoutes(r, db, qrUploadDir, publicBaseURL)
}
