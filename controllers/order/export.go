package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

// GET /admin/orders/export — download all orders as a spreadsheet, one
// row per order line.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		headers := []string{
			"OrderID", "OrderRef", "UserID", "Status", "PaymentMethod", "PaymentStatus",
			"DeliveryAddress", "Phone", "TotalAmount", "ProductID", "ProductName",
			"Unit", "UnitPrice", "Quantity", "LineTotal", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			for _, item := range o.Items {
				row := sheet.AddRow()
				row.AddCell().SetValue(o.ID)
				row.AddCell().SetValue(o.OrderRef)
				row.AddCell().SetValue(o.UserID)
				row.AddCell().SetValue(string(o.Status))
				row.AddCell().SetValue(string(o.PaymentMethod))
				row.AddCell().SetValue(string(o.PaymentStatus))
				row.AddCell().SetValue(o.DeliveryAddress)
				row.AddCell().SetValue(o.Phone)
				row.AddCell().SetValue(o.TotalAmount)
				row.AddCell().SetValue(item.ProductID)
				row.AddCell().SetValue(item.ProductName)
				row.AddCell().SetValue(item.Unit)
				row.AddCell().SetValue(item.UnitPrice)
				row.AddCell().SetValue(item.Quantity)
				row.AddCell().SetValue(item.LineTotal)
				row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}
