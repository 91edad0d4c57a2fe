package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/Comfortablydumbb/grocery-Project/controllers/user"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	me := r.Group("/me", middleware.ValidateToken)
	{
		me.GET("", userControllers.GetMe(db))
		me.PUT("", userControllers.UpdateMe(db))
	}
}
