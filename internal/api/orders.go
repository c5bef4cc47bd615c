package api

import (
	"mobilestore/internal/auth"
	"mobilestore/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	// The caller may omit the user field; it defaults to the token subject.
	if req.UserID == "" {
		if claims := auth.ClaimsFromContext(c); claims != nil {
			req.UserID = claims.UserID
		}
	}

	result, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, result.Message(), result)
}

// getAllOrders lists every order for the admin dashboard
func (h *Handler) getAllOrders(c *gin.Context) {
	page, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get all orders successfully", page)
}

// getOrdersByUser lists one user's orders
func (h *Handler) getOrdersByUser(c *gin.Context) {
	orders, err := h.orders.GetOrdersByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get orders successfully", orders)
}

// getDetailOrder fetches one order under the admin-or-owner rule
func (h *Handler) getDetailOrder(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	order, err := h.orders.GetDetailOrder(c.Request.Context(), c.Param("orderId"), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get detail order successfully", order)
}

// updateOrderStatus applies one of the five statuses
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	claims := auth.ClaimsFromContext(c)
	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req.Status, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Order status updated successfully", order)
}

// deleteOrder removes an order and restores its stock
func (h *Handler) deleteOrder(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	order, err := h.orders.DeleteOrder(c.Request.Context(), c.Param("orderId"), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Order deleted successfully", order)
}

// getPaymentConfig exposes the PayPal client id to the storefront
func (h *Handler) getPaymentConfig(c *gin.Context) {
	respondOK(c, "Get payment config successfully", gin.H{"clientId": h.paypalClient})
}

// updatePaymentStatus records a COD payment outcome
func (h *Handler) updatePaymentStatus(c *gin.Context) {
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), c.Param("orderId"), req.PaymentStatus)
	if err != nil {
		// On the already-paid conflict the current order rides along so the
		// client can refresh its view.
		respondErrData(c, err, order)
		return
	}
	respondOK(c, "Payment status updated successfully", order)
}
