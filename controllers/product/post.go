package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

type CreateProductInput struct {
	ProductName string   `json:"product_name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Discount    int      `json:"discount" binding:"min=0,max=100"`
	Unit        string   `json:"unit"`
	Images      []string `json:"images"`
	TotalUnits  int      `json:"total_units" binding:"min=0"`
	CategoryIDs []uint   `json:"category_ids"`
}

func loadCategories(db *gorm.DB, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := db.Find(&categories, ids).Error; err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if len(categories) != len(ids) {
		return nil, apperrors.NotFound("one or more categories do not exist")
	}
	return categories, nil
}

// CreateProduct adds a catalog entry. A fresh product starts with all
// units remaining and none sold.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		categories, err := loadCategories(db, input.CategoryIDs)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		product := models.Product{
			ProductName:    input.ProductName,
			Description:    input.Description,
			Price:          input.Price,
			Discount:       input.Discount,
			Unit:           input.Unit,
			Images:         input.Images,
			TotalUnits:     input.TotalUnits,
			RemainingUnits: input.TotalUnits,
			SoldUnits:      0,
			Categories:     categories,
		}
		if err := db.Create(&product).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusCreated, viewOf(product))
	}
}

type CreateCategoryInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// POST /admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		category := models.Category{Name: input.Name, Image: input.Image}
		if err := db.Create(&category).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		result := db.Delete(&models.Category{}, "id = ?", id)
		if result.Error != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(result.Error))
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("category not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
