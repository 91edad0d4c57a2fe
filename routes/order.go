package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Comfortablydumbb/grocery-Project/controllers/order"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Place a new order from the cart
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Fetch the caller's orders, newest first
		orders.GET("", orderControllers.GetUserOrdersHandler(db))

		// Fetch one order by id or order_ref
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Cancel one of the caller's pending orders (restores stock)
		orders.POST("/:orderID/cancel", orderControllers.CancelMyOrderHandler(db))
	}
}
