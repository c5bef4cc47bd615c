package api

import (
	"net/http"
	"strconv"
	"time"

	"mobilestore/internal/apperr"
	"mobilestore/internal/auth"
	"mobilestore/internal/notify"
	"mobilestore/internal/service"
	"mobilestore/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const refreshCookieName = "refresh_token"

// Handler contains HTTP handlers
type Handler struct {
	orders        *service.OrderService
	products      *service.ProductService
	users         *service.UserService
	notifications *service.NotificationService
	tokens        *auth.TokenManager
	subscriptions *notify.SubscriptionRegistry
	push          *notify.PushDispatcher
	paypalClient  string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	products *service.ProductService,
	users *service.UserService,
	notifications *service.NotificationService,
	tokens *auth.TokenManager,
	subscriptions *notify.SubscriptionRegistry,
	push *notify.PushDispatcher,
	paypalClient string,
) *Handler {
	return &Handler{
		orders:        orders,
		products:      products,
		users:         users,
		notifications: notifications,
		tokens:        tokens,
		subscriptions: subscriptions,
		push:          push,
		paypalClient:  paypalClient,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/register", h.register)
		v1.POST("/login", h.login)
		v1.POST("/logout", h.logout)
		v1.POST("/refresh-token", h.refreshToken)

		v1.GET("/user/all", auth.RequireAdmin(h.tokens), h.getAllUsers)
		v1.GET("/user/:id", auth.RequireUser(h.tokens), h.getDetailUser)
		v1.PUT("/user/:id", auth.RequireUser(h.tokens), h.updateUser)
		v1.DELETE("/user/:id", auth.RequireAdmin(h.tokens), h.deleteUser)

		v1.GET("/product/all", h.getAllProducts)
		v1.GET("/product/types", h.getAllTypes)
		v1.GET("/product/type/:type", h.getProductsByType)
		v1.GET("/product/:id", h.getDetailProduct)
		v1.POST("/product", auth.RequireAdmin(h.tokens), h.createProduct)
		v1.PUT("/product/:id", auth.RequireAdmin(h.tokens), h.updateProduct)
		v1.DELETE("/product/:id", auth.RequireAdmin(h.tokens), h.deleteProduct)
		v1.POST("/product/delete-many", auth.RequireAdmin(h.tokens), h.deleteManyProducts)

		// Order routes use :orderId so the middleware owner check, which
		// keys on :id, only ever compares user ids. Ownership of an order
		// is enforced in the service layer.
		v1.POST("/order", auth.RequireUser(h.tokens), h.createOrder)
		v1.GET("/order/all", auth.RequireAdmin(h.tokens), h.getAllOrders)
		v1.GET("/order/user/:id", auth.RequireUser(h.tokens), h.getOrdersByUser)
		v1.GET("/order/:orderId", auth.RequireUser(h.tokens), h.getDetailOrder)
		v1.PUT("/order/:orderId/status", auth.RequireUser(h.tokens), h.updateOrderStatus)
		v1.DELETE("/order/:orderId", auth.RequireUser(h.tokens), h.deleteOrder)

		v1.GET("/payment/config", h.getPaymentConfig)
		v1.PUT("/payment/:orderId", auth.RequireUser(h.tokens), h.updatePaymentStatus)

		v1.GET("/notification/:id", auth.RequireUser(h.tokens), h.listNotifications)
		v1.PUT("/notification/read/:notificationId", auth.RequireUser(h.tokens), h.markNotificationRead)
		v1.POST("/notification", auth.RequireAdmin(h.tokens), h.broadcastNotification)
		v1.POST("/subscribe", h.subscribe)
	}
}

// respond writes the {EM, EC, DT} envelope. Service outcomes, including
// failures, always ride an HTTP 200; only malformed requests get a 4xx at
// the binding layer.
func respond(c *gin.Context, code apperr.Code, message string, data interface{}) {
	if data == nil {
		data = ""
	}
	c.JSON(http.StatusOK, gin.H{
		"EM": message,
		"EC": code,
		"DT": data,
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, apperr.CodeOK, message, data)
}

func respondErr(c *gin.Context, err error) {
	respondErrData(c, err, nil)
}

// respondErrData renders the error envelope with an optional DT payload, for
// outcomes like "already paid" that return the current record alongside the
// error.
func respondErrData(c *gin.Context, err error, data interface{}) {
	respond(c, apperr.CodeOf(err), apperr.MessageOf(err), data)
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"EM": "Invalid request body",
		"EC": apperr.CodeValidation,
		"DT": err.Error(),
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
