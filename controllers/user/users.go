package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

type UpdateUserInput struct {
	Name    *string         `json:"name"`
	Email   *string         `json:"email"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// GET /me
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("user profile not found"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /me — upsert keyed by the JWT subject, so a first-time caller
// gets a profile row without a separate signup step.
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		var user models.User
		if err := db.Where(models.User{ID: userID}).FirstOrCreate(&user).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Address != nil {
			user.Address = *input.Address
		}

		if err := db.Save(&user).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "name", "phone", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
