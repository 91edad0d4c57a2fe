package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

type AddToCartInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartLineView is a cart line joined with live product data. Price and
// stock always reflect the catalog as of the read, never a snapshot.
type CartLineView struct {
	ProductID      uint      `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Price          float64   `json:"price"`
	FinalPrice     float64   `json:"final_price"`
	OldPrice       float64   `json:"old_price"`
	Discount       int       `json:"discount"`
	Unit           string    `json:"unit"`
	Images         []string  `json:"images"`
	RemainingUnits int       `json:"remaining_units"`
	Quantity       int       `json:"quantity"`
	AddedAt        time.Time `json:"added_at"`
}

type CartView struct {
	CartID uint           `json:"cart_id"`
	UserID string         `json:"user_id"`
	Items  []CartLineView `json:"items"`
}

type AddToCartResult struct {
	Cart           *CartView `json:"cart"`
	AvailableStock int       `json:"available_stock"`
	Quantity       int       `json:"quantity"`
}

// -------- Core Logic --------

// AddToCart puts one more unit of the product into the user's cart,
// creating the cart and the line as needed. Adding never reserves
// stock; it only refuses quantities the catalog cannot currently cover.
func AddToCart(db *gorm.DB, userID string, productID uint) (*AddToCartResult, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %d does not exist", productID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	var item models.CartItem
	newQuantity := 1
	err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	switch {
	case err == nil:
		newQuantity = item.Quantity + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first add, line created below
	default:
		return nil, apperrors.StoreUnavailable(err)
	}

	if newQuantity > product.RemainingUnits {
		stockErr := apperrors.InsufficientStock(product.ProductName, product.RemainingUnits, newQuantity)
		stockErr.Details["current_cart_quantity"] = item.Quantity
		return nil, stockErr
	}

	if item.ID == 0 {
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: productID,
			Quantity:  newQuantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
	} else {
		item.Quantity = newQuantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
	}

	view, err := GetCart(db, userID)
	if err != nil {
		return nil, err
	}
	return &AddToCartResult{
		Cart:           view,
		AvailableStock: product.RemainingUnits,
		Quantity:       newQuantity,
	}, nil
}

// UpdateQuantity sets the line quantity verbatim. There is deliberately
// no stock bound here: the cart is a wish list, not a reservation, and
// placement re-validates every line against live stock.
func UpdateQuantity(db *gorm.DB, userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user has no cart")
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %d is not in the cart", productID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	item.Quantity = quantity
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &item, nil
}

// RemoveFromCart deletes one line from the user's cart.
func RemoveFromCart(db *gorm.DB, userID string, productID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user has no cart")
		}
		return apperrors.StoreUnavailable(err)
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return apperrors.StoreUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product %d is not in the cart", productID)
	}
	return nil
}

// ClearCart drops every line from the user's cart.
func ClearCart(db *gorm.DB, userID string) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to clear
		}
		return apperrors.StoreUnavailable(err)
	}
	if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// GetCart returns the cart with each line expanded with live product
// fields. A user without a cart gets an empty cart, not an error.
// Lines whose product has been removed from the catalog are skipped.
func GetCart(db *gorm.DB, userID string) (*CartView, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartView{UserID: userID, Items: []CartLineView{}}, nil
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	view := &CartView{CartID: cart.CartID, UserID: userID, Items: []CartLineView{}}
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperrors.StoreUnavailable(err)
		}
		view.Items = append(view.Items, CartLineView{
			ProductID:      product.ID,
			ProductName:    product.ProductName,
			Price:          product.Price,
			FinalPrice:     product.FinalPrice(),
			OldPrice:       product.OldPrice(),
			Discount:       product.Discount,
			Unit:           product.Unit,
			Images:         product.Images,
			RemainingUnits: product.RemainingUnits,
			Quantity:       item.Quantity,
			AddedAt:        item.AddedAt,
		})
	}
	return view, nil
}

// -------- Handlers --------

// POST /cart/items
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		result, err := AddToCart(db, userID, input.ProductID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// PUT /cart/items/:product_id
func UpdateQuantityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		productID, err := parseProductID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		item, updateErr := UpdateQuantity(db, userID, productID, input.Quantity)
		if updateErr != nil {
			apperrors.Respond(c, updateErr)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/items/:product_id
func RemoveFromCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		productID, err := parseProductID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		if err := RemoveFromCart(db, userID, productID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		if err := ClearCart(db, userID); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		view, err := GetCart(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GET /admin/users/:user_id/cart
func GetAdminUserCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			apperrors.Respond(c, apperrors.InvalidInput("user_id is required"))
			return
		}

		view, err := GetCart(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func parseProductID(c *gin.Context) (uint, error) {
	raw := c.Param("product_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid product id %q", raw)
	}
	return uint(id), nil
}
