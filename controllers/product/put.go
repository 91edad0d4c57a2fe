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

type UpdateProductInput struct {
	ProductName *string   `json:"product_name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Discount    *int      `json:"discount"`
	Unit        *string   `json:"unit"`
	Images      *[]string `json:"images"`
	TotalUnits  *int      `json:"total_units"`
	CategoryIDs *[]uint   `json:"category_ids"`
}

// UpdateProduct edits catalog fields. A new total keeps the sold count
// and re-derives remaining, so remaining + sold == total always holds.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid product id %q", idParam))
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}
		if input.Price != nil && *input.Price <= 0 {
			apperrors.Respond(c, apperrors.InvalidInput("price must be positive"))
			return
		}
		if input.Discount != nil && (*input.Discount < 0 || *input.Discount > 100) {
			apperrors.Respond(c, apperrors.InvalidInput("discount must be between 0 and 100"))
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("product not found"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		if input.ProductName != nil {
			product.ProductName = *input.ProductName
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Discount != nil {
			product.Discount = *input.Discount
		}
		if input.Unit != nil {
			product.Unit = *input.Unit
		}
		if input.Images != nil {
			product.Images = *input.Images
		}
		if input.TotalUnits != nil {
			if *input.TotalUnits < product.SoldUnits {
				apperrors.Respond(c, apperrors.InvalidInput(
					"total units (%d) cannot be below units already sold (%d)",
					*input.TotalUnits, product.SoldUnits))
				return
			}
			product.TotalUnits = *input.TotalUnits
			product.RemainingUnits = *input.TotalUnits - product.SoldUnits
		}

		if err := db.Save(&product).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		if input.CategoryIDs != nil {
			categories, catErr := loadCategories(db, *input.CategoryIDs)
			if catErr != nil {
				apperrors.Respond(c, catErr)
				return
			}
			assoc := db.Model(&product).Association("Categories")
			if len(categories) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(categories)
			}
			if err != nil {
				apperrors.Respond(c, apperrors.StoreUnavailable(err))
				return
			}
		}

		c.JSON(http.StatusOK, viewOf(product))
	}
}

// DeleteProduct soft-deletes a catalog entry. Existing order lines keep
// their snapshots; carts drop the line at read time.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid product id %q", idParam))
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(result.Error))
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("product not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
