package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

// ProductView decorates a product with its derived prices for display.
type ProductView struct {
	models.Product
	FinalPrice float64 `json:"final_price"`
	OldPrice   float64 `json:"old_price"`
}

func viewOf(p models.Product) ProductView {
	return ProductView{Product: p, FinalPrice: p.FinalPrice(), OldPrice: p.OldPrice()}
}

// GetProductByID returns a single product with its categories.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid product id %q", idParam))
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("product not found"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, viewOf(product))
	}
}

// GetAllProducts lists the catalog. Optional query params:
// ?search=<name substring> and ?category=<category id>.
func GetAllProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Categories").Order("created_at DESC")

		if search := c.Query("search"); search != "" {
			query = query.Where("product_name LIKE ?", "%"+search+"%")
		}
		if category := c.Query("category"); category != "" {
			catID, err := strconv.Atoi(category)
			if err != nil {
				apperrors.Respond(c, apperrors.InvalidInput("invalid category id %q", category))
				return
			}
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", catID)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		views := make([]ProductView, 0, len(products))
		for _, p := range products {
			views = append(views, viewOf(p))
		}
		c.JSON(http.StatusOK, views)
	}
}
