package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Comfortablydumbb/grocery-Project/controllers/cart"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart", middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		cart.DELETE("", cartControllers.ClearCartHandler(db))

		cart.POST("/items", cartControllers.AddToCartHandler(db))
		cart.PUT("/items/:product_id", cartControllers.UpdateQuantityHandler(db))
		cart.DELETE("/items/:product_id", cartControllers.RemoveFromCartHandler(db))
	}
}
