package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/notify"
	"github.com/shopspring/decimal"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type activeRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// productRequest is the admin product form. is_active is honoured only on
// create, where it defaults to true; the toggle endpoint owns it afterwards.
type productRequest struct {
	Name             string              `json:"name"`
	Brand            string              `json:"brand"`
	Category         string              `json:"category"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	OriginalPrice    decimal.NullDecimal `json:"original_price"`
	ImageURL         *string             `json:"image_url"`
	Stock            int                 `json:"stock"`
	CompatibleModels []string            `json:"compatible_models"`
	IsActive         *bool               `json:"is_active"`
}

func (r productRequest) product() entity.Product {
	return entity.Product{
		Name:             r.Name,
		Brand:            r.Brand,
		Category:         r.Category,
		Description:      r.Description,
		Price:            r.Price,
		OriginalPrice:    r.OriginalPrice,
		ImageURL:         r.ImageURL,
		Stock:            r.Stock,
		CompatibleModels: r.CompatibleModels,
		IsActive:         r.IsActive == nil || *r.IsActive,
	}
}

// deliveryAreaRequest is the admin delivery area form, with the same
// is_active rule as productRequest.
type deliveryAreaRequest struct {
	Pincode        string          `json:"pincode"`
	AreaName       string          `json:"area_name"`
	City           string          `json:"city"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	EstimatedDays  int             `json:"estimated_days"`
	IsActive       *bool           `json:"is_active"`
}

func (r deliveryAreaRequest) area() entity.DeliveryArea {
	return entity.DeliveryArea{
		Pincode:        r.Pincode,
		AreaName:       r.AreaName,
		City:           r.City,
		DeliveryCharge: r.DeliveryCharge,
		EstimatedDays:  r.EstimatedDays,
		IsActive:       r.IsActive == nil || *r.IsActive,
	}
}

func (h *Handler) handleAdminOverview(c *gin.Context) {
	stats, err := h.admin.Overview(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) handleAdminListOrders(c *gin.Context) {
	orders, err := h.admin.ListOrders(c.Request.Context(), currentSession(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) handleAdminGetOrder(c *gin.Context) {
	order, err := h.admin.GetOrder(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withProgress(order))
}

func (h *Handler) handleUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.admin.UpdateOrderStatus(c.Request.Context(), currentSession(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) handleExportOrders(c *gin.Context) {
	orders, err := h.admin.ListOrders(c.Request.Context(), currentSession(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	file, err := ordersWorkbook(orders)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := writeWorkbook(c, "orders.xlsx", file); err != nil {
		slog.Error("Failed to write orders export", "err", err)
	}
}

func (h *Handler) handleAdminListProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) handleExportProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	file, err := productsWorkbook(products)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := writeWorkbook(c, "products.xlsx", file); err != nil {
		slog.Error("Failed to write products export", "err", err)
	}
}

func (h *Handler) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	p := req.product()
	if err := h.admin.CreateProduct(c.Request.Context(), currentSession(c), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) handleUpdateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	p := req.product()
	p.ID = c.Param("id")
	if err := h.admin.UpdateProduct(c.Request.Context(), currentSession(c), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) handleToggleProduct(c *gin.Context) {
	var req activeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.admin.SetProductActive(c.Request.Context(), currentSession(c), c.Param("id"), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleDeleteProduct(c *gin.Context) {
	if err := h.admin.DeleteProduct(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleListDeliveryAreas(c *gin.Context) {
	areas, err := h.admin.ListDeliveryAreas(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery_areas": areas})
}

func (h *Handler) handleCreateDeliveryArea(c *gin.Context) {
	var req deliveryAreaRequest
	if !bindJSON(c, &req) {
		return
	}
	a := req.area()
	if err := h.admin.CreateDeliveryArea(c.Request.Context(), currentSession(c), &a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) handleUpdateDeliveryArea(c *gin.Context) {
	var req deliveryAreaRequest
	if !bindJSON(c, &req) {
		return
	}
	a := req.area()
	a.ID = c.Param("id")
	if err := h.admin.UpdateDeliveryArea(c.Request.Context(), currentSession(c), &a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) handleToggleDeliveryArea(c *gin.Context) {
	var req activeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.admin.SetDeliveryAreaActive(c.Request.Context(), currentSession(c), c.Param("id"), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleDeleteDeliveryArea(c *gin.Context) {
	if err := h.admin.DeleteDeliveryArea(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleListCustomers(c *gin.Context) {
	customers, err := h.admin.ListCustomers(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) handleListAuditLogs(c *gin.Context) {
	logs, err := h.admin.ListAuditLogs(c.Request.Context(), currentSession(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// handleSendStatusEmail is the explicit "send order status email" function.
func (h *Handler) handleSendStatusEmail(c *gin.Context) {
	var req notify.StatusEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if err := h.notifications.SendStatusEmail(c.Request.Context(), currentSession(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
