package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/middleware"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// CancelOrder reverses a pending order. Stock restoration and the
// status write ride the same transaction: an order can never read
// cancelled while the units it consumed are still missing.
func CancelOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order %d not found", orderID)
			}
			return err
		}
		if order.Status != models.OrderStatusPending {
			return apperrors.InvalidTransition("only pending orders can be cancelled; order is %s", order.Status)
		}

		for _, item := range order.Items {
			// Inverse of placement. A product meanwhile removed from
			// the catalog has nothing left to restore.
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"remaining_units": gorm.Expr("remaining_units + ?", item.Quantity),
					"sold_units":      gorm.Expr("sold_units - ?", item.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
	if txErr != nil {
		return nil, wrapStoreErr(txErr)
	}
	return &order, nil
}

// CancelUserOrder is the owner-facing cancel: the order must belong to
// userID. A foreign order reads as not found so ids cannot be guessed.
func CancelUserOrder(db *gorm.DB, userID string, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Select("id", "user_id").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", orderID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	return CancelOrder(db, orderID)
}

// ChangeStatus moves an order to newStatus. Cancelled is terminal, and
// entering it goes through CancelOrder so the stock restore can never
// be skipped. Other transitions are unconstrained store policy.
func ChangeStatus(db *gorm.DB, orderID uint, newStatusRaw string) (*models.Order, error) {
	newStatus, err := mapOrderStatus(newStatusRaw)
	if err != nil {
		return nil, err
	}
	if newStatus == models.OrderStatusCancelled {
		return CancelOrder(db, orderID)
	}

	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", orderID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, apperrors.InvalidTransition("order %d is cancelled and cannot change status", orderID)
	}

	if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	order.Status = newStatus
	return &order, nil
}

// UpdatePaymentStatus flips the manual payment flag on an order.
func UpdatePaymentStatus(db *gorm.DB, orderID uint, raw string) (*models.Order, error) {
	var newStatus models.PaymentStatus
	switch raw {
	case string(models.PaymentStatusPending):
		newStatus = models.PaymentStatusPending
	case string(models.PaymentStatusPaid):
		newStatus = models.PaymentStatusPaid
	default:
		return nil, apperrors.InvalidInput("invalid payment status %q", raw)
	}

	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", orderID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	if err := db.Model(&order).Update("payment_status", newStatus).Error; err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	order.PaymentStatus = newStatus
	return &order, nil
}

// -------- Handlers --------

func parseOrderID(c *gin.Context) (uint, error) {
	raw := c.Param("orderID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid order id %q", raw)
	}
	return uint(id), nil
}

// POST /orders/:orderID/cancel — owner only
func CancelMyOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}

		orderID, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		order, cancelErr := CancelUserOrder(db, userID, orderID)
		if cancelErr != nil {
			apperrors.Respond(c, cancelErr)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /admin/orders/:orderID/cancel — no ownership restriction
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		order, cancelErr := CancelOrder(db, orderID)
		if cancelErr != nil {
			apperrors.Respond(c, cancelErr)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		order, changeErr := ChangeStatus(db, orderID, req.Status)
		if changeErr != nil {
			apperrors.Respond(c, changeErr)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("invalid input: %s", err.Error()))
			return
		}

		order, updateErr := UpdatePaymentStatus(db, orderID, req.PaymentStatus)
		if updateErr != nil {
			apperrors.Respond(c, updateErr)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
