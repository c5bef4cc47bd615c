package api

import (
	"strconv"

	"mobilestore/internal/service"
	"mobilestore/internal/store"

	"github.com/gin-gonic/gin"
)

// createProduct adds a catalog entry (admin only)
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Product created successfully", product)
}

// getAllProducts lists the catalog with pagination, sorting and filtering
func (h *Handler) getAllProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	q := store.ProductQuery{
		Page:   page,
		Limit:  limit,
		Sort:   c.Query("sort"),
		Field:  c.Query("field"),
		Filter: c.Query("filter"),
	}

	result, err := h.products.GetAllProducts(c.Request.Context(), q)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get all products successfully", result)
}

// getDetailProduct fetches one product
func (h *Handler) getDetailProduct(c *gin.Context) {
	product, err := h.products.GetDetailProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get detail product successfully", product)
}

// updateProduct replaces the mutable catalog fields (admin only)
func (h *Handler) updateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Product updated successfully", product)
}

// deleteProduct removes one catalog entry (admin only)
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Product deleted successfully", nil)
}

// deleteManyProducts removes a batch of catalog entries (admin only)
func (h *Handler) deleteManyProducts(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	n, err := h.products.DeleteManyProducts(c.Request.Context(), req.IDs)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Products deleted successfully", gin.H{"deleted": n})
}

// getAllTypes lists the distinct product types
func (h *Handler) getAllTypes(c *gin.Context) {
	types, err := h.products.GetAllTypes(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get all types successfully", types)
}

// getProductsByType lists the products of one type
func (h *Handler) getProductsByType(c *gin.Context) {
	products, err := h.products.GetProductsByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get products by type successfully", products)
}
