package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

// -------- Request Structs --------

type OrderSelection struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Selections      []OrderSelection `json:"selections" binding:"required"`
	DeliveryAddress string           `json:"delivery_address" binding:"required"`
	Phone           string           `json:"phone" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"required"`
}

type PlaceOrderResult struct {
	OrderID            uint                 `json:"order_id"`
	OrderRef           string               `json:"order_ref"`
	TotalAmount        float64              `json:"total_amount"`
	PaymentStatus      models.PaymentStatus `json:"payment_status"`
	PaymentInstruction string               `json:"payment_instruction,omitempty"`
	QRImageURL         string               `json:"qr_image_url,omitempty"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", apperrors.InvalidInput("invalid order status %q", status)
	}
}

func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch strings.ToLower(method) {
	case string(models.PaymentMethodCash):
		return models.PaymentMethodCash, nil
	case string(models.PaymentMethodQR):
		return models.PaymentMethodQR, nil
	default:
		return "", apperrors.InvalidInput("invalid payment method %q", method)
	}
}

// generateOrderRef builds the human-facing order reference.
// Example: 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// wrapStoreErr keeps apperrors as-is and classifies everything else as
// a transient storage failure.
func wrapStoreErr(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.StoreUnavailable(err)
}

// -------- Core Logic --------

// PlaceOrder turns a cart selection into an order. The whole sequence
// runs in one transaction: every stock check-and-decrement, the order
// insert, and the pruning of the ordered cart lines commit together or
// not at all. Stock is taken with a conditional UPDATE guarded by
// remaining_units >= quantity, so a concurrent placement on the same
// product can never drive stock negative.
func PlaceOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, apperrors.InvalidInput("delivery address is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, apperrors.InvalidInput("phone number is required")
	}
	paymentMethod, err := mapPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if len(req.Selections) == 0 {
		return nil, apperrors.InvalidInput("no products selected")
	}
	seen := make(map[uint]bool, len(req.Selections))
	for _, sel := range req.Selections {
		if sel.Quantity < 1 {
			return nil, apperrors.InvalidInput("quantity for product %d must be at least 1", sel.ProductID)
		}
		if seen[sel.ProductID] {
			return nil, apperrors.InvalidInput("product %d selected more than once", sel.ProductID)
		}
		seen[sel.ProductID] = true
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user has no cart")
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	inCart := make(map[uint]bool, len(cart.Items))
	for _, item := range cart.Items {
		inCart[item.ProductID] = true
	}
	for _, sel := range req.Selections {
		if !inCart[sel.ProductID] {
			return nil, apperrors.NotFound("product %d is not in the cart", sel.ProductID)
		}
	}

	paymentStatus := models.PaymentStatusPending
	if paymentMethod == models.PaymentMethodQR {
		paymentStatus = models.PaymentStatusPaid
	}

	var order models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		var orderItems []models.OrderItem
		orderedIDs := make([]uint, 0, len(req.Selections))

		for _, sel := range req.Selections {
			var product models.Product
			if err := tx.First(&product, "id = ?", sel.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("product %d does not exist", sel.ProductID)
				}
				return err
			}

			// Conditional decrement: only commits when enough stock is
			// still there at update time.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND remaining_units >= ?", sel.ProductID, sel.Quantity).
				Updates(map[string]interface{}{
					"remaining_units": gorm.Expr("remaining_units - ?", sel.Quantity),
					"sold_units":      gorm.Expr("sold_units + ?", sel.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Re-read: the count that rejected the update, not the
				// possibly stale one from the load above.
				var fresh models.Product
				if err := tx.First(&fresh, "id = ?", sel.ProductID).Error; err != nil {
					return err
				}
				return apperrors.InsufficientStock(fresh.ProductName, fresh.RemainingUnits, sel.Quantity)
			}

			unitPrice := product.FinalPrice()
			lineTotal := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(sel.Quantity))).Round(2)
			total = total.Add(lineTotal)

			lineTotalF, _ := lineTotal.Float64()
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.ProductName,
				Unit:        product.Unit,
				UnitPrice:   unitPrice,
				Quantity:    sel.Quantity,
				LineTotal:   lineTotalF,
			})
			orderedIDs = append(orderedIDs, sel.ProductID)
		}

		totalF, _ := total.Round(2).Float64()
		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Items:           orderItems,
			TotalAmount:     totalF,
			DeliveryAddress: req.DeliveryAddress,
			Phone:           req.Phone,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   paymentStatus,
			Status:          models.OrderStatusPending,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Prune exactly the ordered lines; anything else stays carted.
		if err := tx.Where("cart_id = ? AND product_id IN ?", cart.CartID, orderedIDs).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapStoreErr(txErr)
	}

	result := &PlaceOrderResult{
		OrderID:       order.ID,
		OrderRef:      order.OrderRef,
		TotalAmount:   order.TotalAmount,
		PaymentStatus: order.PaymentStatus,
	}
	if paymentMethod == models.PaymentMethodQR {
		result.PaymentInstruction = fmt.Sprintf(
			"Scan the store QR code and transfer %.2f. Quote order %s as the payment reference.",
			order.TotalAmount, order.OrderRef)
		if qr, err := models.ActiveQRFile(db); err == nil {
			result.QRImageURL = qr.FileURL
		}
	}
	return result, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		result, err := PlaceOrder(db, userID, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// GET /orders — the caller's orders, newest first
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders — every order, newest first
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — one of the caller's orders, by numeric id or
// by order_ref. Foreign orders read as not found.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		param := c.Param("orderID")
		if param == "" {
			apperrors.Respond(c, apperrors.InvalidInput("orderID is required"))
			return
		}

		query := db.
			Preload("User").
			Preload("Items").
			Where("user_id = ?", userID)
		// A reference never parses as a number, an id always does.
		if id, err := strconv.ParseUint(param, 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("order_ref = ?", param)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("order not found"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
