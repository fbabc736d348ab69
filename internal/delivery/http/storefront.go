package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/service"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (h *Handler) handleSignUp(c *gin.Context) {
	var req service.SignUpInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) handleSignIn(c *gin.Context) {
	var req signInRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) handleSignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), currentSession(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleMe(c *gin.Context) {
	sess := currentSession(c)
	profile, err := h.auth.Profile(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "profile": profile})
}

func (h *Handler) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.auth.UpdateProfile(c.Request.Context(), currentSession(c), req.FullName, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) handleCheckPincode(c *gin.Context) {
	c.JSON(http.StatusOK, h.delivery.CheckPincode(c.Request.Context(), c.Query("pincode")))
}

func (h *Handler) handleListProducts(c *gin.Context) {
	filter := entity.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Sort:     c.Query("sort"),
	}
	for _, b := range c.QueryArray("brand") {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Brands = append(filter.Brands, part)
			}
		}
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) handleSuggestProducts(c *gin.Context) {
	products, err := h.catalog.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) handleGetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (h *Handler) handleListReviews(c *gin.Context) {
	summary, err := h.reviews.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) handleSubmitReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviews.Submit(c.Request.Context(), currentSession(c), c.Param("id"), req.Rating, req.Title, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) handleDeleteReview(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type wishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *Handler) handleListWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) handleAddToWishlist(c *gin.Context) {
	var req wishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.wishlist.Add(c.Request.Context(), currentSession(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) handleRemoveFromWishlist(c *gin.Context) {
	if err := h.wishlist.Remove(c.Request.Context(), currentSession(c), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
