package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersWorkbook(t *testing.T) {
	orders := []entity.Order{
		{
			OrderNumber:     "MA261018000001",
			ShippingAddress: entity.ShippingAddress{FullName: "Asha Patil", Phone: "9876543210", City: "Mumbai", Pincode: "400050"},
			Items:           []entity.OrderItem{{ProductName: "Brake Pad Set"}, {ProductName: "Oil Filter"}},
			Subtotal:        decimal.NewFromInt(2490),
			Discount:        decimal.NewFromInt(249),
			DeliveryCharge:  decimal.NewFromInt(49),
			Total:           decimal.NewFromInt(2290),
			PaymentMethod:   entity.PaymentCOD,
			Status:          entity.OrderStatusPending,
			CreatedAt:       time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		},
	}

	file, err := ordersWorkbook(orders)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Order Number", sheet.Rows[0].Cells[0].Value)

	row := sheet.Rows[1]
	assert.Equal(t, "MA261018000001", row.Cells[0].Value)
	assert.Equal(t, "Asha Patil", row.Cells[1].Value)
	assert.Equal(t, "2", row.Cells[5].Value)
	assert.Equal(t, "pending", row.Cells[11].Value)
}

func TestProductsWorkbook(t *testing.T) {
	products := []entity.Product{
		{ID: "p1", Name: "Brake Pad Set", Brand: "Bosch", Category: "Brakes", Price: decimal.NewFromInt(1299), Stock: 12, IsActive: true},
		{ID: "p2", Name: "Clutch Kit", Brand: "Valeo", Category: "Transmission", Price: decimal.NewFromInt(4599)},
	}

	file, err := productsWorkbook(products)
	require.NoError(t, err)

	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Clutch Kit", sheet.Rows[2].Cells[1].Value)
	assert.Empty(t, sheet.Rows[2].Cells[5].Value)
}

func TestWriteWorkbook(t *testing.T) {
	file, err := productsWorkbook(nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, writeWorkbook(c, "products.xlsx", file))
	assert.Equal(t, "attachment; filename=products.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}
