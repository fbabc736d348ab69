package http

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/tealeg/xlsx"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout      = "2006-01-02 15:04:05"
)

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

// ordersWorkbook lays out one row per order.
func ordersWorkbook(orders []entity.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("failed to create orders sheet: %w", err)
	}
	addHeaderRow(sheet, []string{
		"Order Number", "Customer", "Phone", "City", "Pincode", "Items",
		"Subtotal", "Discount", "Delivery", "Total", "Payment", "Status", "Placed At",
	})

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.ShippingAddress.FullName)
		row.AddCell().SetValue(o.ShippingAddress.Phone)
		row.AddCell().SetValue(o.ShippingAddress.City)
		row.AddCell().SetValue(o.ShippingAddress.Pincode)
		row.AddCell().SetValue(len(o.Items))
		row.AddCell().SetValue(o.Subtotal.InexactFloat64())
		row.AddCell().SetValue(o.Discount.InexactFloat64())
		row.AddCell().SetValue(o.DeliveryCharge.InexactFloat64())
		row.AddCell().SetValue(o.Total.InexactFloat64())
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.CreatedAt.Format(timeLayout))
	}
	return file, nil
}

func productsWorkbook(products []entity.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create products sheet: %w", err)
	}
	addHeaderRow(sheet, []string{
		"ID", "Name", "Brand", "Category", "Price", "Original Price",
		"Stock", "Compatible Models", "Active", "Updated At",
	})

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.InexactFloat64())
		if p.OriginalPrice.Valid {
			row.AddCell().SetValue(p.OriginalPrice.Decimal.InexactFloat64())
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(strings.Join(p.CompatibleModels, ", "))
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetValue(p.UpdatedAt.Format(timeLayout))
	}
	return file, nil
}

func writeWorkbook(c *gin.Context, filename string, file *xlsx.File) error {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	return file.Write(c.Writer)
}
