package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/Comfortablydumbb/grocery-Project/controllers/product"
	qrcontroller "github.com/Comfortablydumbb/grocery-Project/controllers/qr"
)

// Public, unauthenticated catalog reads plus the payment QR fetch.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productcontroller.GetAllProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/qr", qrcontroller.GetActiveQRHandler(db))
}
