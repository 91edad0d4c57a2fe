package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Comfortablydumbb/grocery-Project/controllers/cart"
	orderControllers "github.com/Comfortablydumbb/grocery-Project/controllers/order"
	productcontroller "github.com/Comfortablydumbb/grocery-Project/controllers/product"
	qrcontroller "github.com/Comfortablydumbb/grocery-Project/controllers/qr"
	userControllers "github.com/Comfortablydumbb/grocery-Project/controllers/user"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, qrUploadDir, publicBaseURL string) {
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		// Catalog management
		admin.POST("/products", productcontroller.CreateProduct(db))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(db))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(db))
		admin.POST("/categories", productcontroller.CreateCategory(db))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(db))

		// Order management
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
		admin.POST("/orders/:orderID/cancel", orderControllers.CancelOrderHandler(db))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		admin.PUT("/orders/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))

		// Payment QR
		admin.POST("/qr", qrcontroller.HandleQRFileUpload(db, qrUploadDir, publicBaseURL))
		admin.DELETE("/qr", qrcontroller.DeleteQRFileHandler(db, qrUploadDir))

		// Customer support
		admin.GET("/users", userControllers.GetAllUsers(db))
		admin.GET("/users/:user_id/cart", cartControllers.GetAdminUserCartHandler(db))
	}
}
