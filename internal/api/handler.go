package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crm-service/internal/service"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	store  *store.Store
	orders *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(st *store.Store, orders *service.OrderService) *Handler {
	return &Handler{
		store:  st,
		orders: orders,
	}
}

// SetupRoutes sets up HTTP routes. List vs item is distinguished solely
// by the presence of the numeric id segment; unmatched method/path pairs
// fall through to the JSON 404.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.NoRoute(notFound)

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/customers", h.listCustomers)
		api.POST("/customers", h.createCustomer)
		api.GET("/customers/:id", h.getCustomer)
		api.PUT("/customers/:id", h.updateCustomer)
		api.DELETE("/customers/:id", h.deleteCustomer)

		api.GET("/products", h.listProducts)
		api.POST("/products", h.createProduct)
		api.GET("/products/:id", h.getProduct)
		api.PUT("/products/:id", h.updateProduct)
		api.DELETE("/products/:id", h.deleteProduct)

		api.GET("/orders", h.listOrders)
		api.POST("/orders", h.createOrder)
		api.GET("/orders/:id", h.getOrder)
		api.PUT("/orders/:id", h.updateOrder)
		api.DELETE("/orders/:id", h.deleteOrder)

		api.GET("/cases", h.listCases)
		api.POST("/cases", h.createCase)
		api.GET("/cases/:id", h.getCase)
		api.PUT("/cases/:id", h.updateCase)
		api.DELETE("/cases/:id", h.deleteCase)

		api.GET("/search", h.search)
		api.GET("/dashboard", h.dashboard)
		api.GET("/activities", h.listActivities)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// Customers

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		writeError(c, "Failed to list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) createCustomer(c *gin.Context) {
	customer, err := h.store.CreateCustomer(c.Request.Context(), bindLoose(c))
	if err != nil {
		util.WriteFailuresTotal.WithLabelValues("customer").Inc()
		writeError(c, "Failed to create customer", err)
		return
	}
	util.EntitiesCreatedTotal.WithLabelValues("customer").Inc()
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := h.store.GetCustomer(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, "Failed to get customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := h.store.UpdateCustomer(c.Request.Context(), id, bindLoose(c))
	if err != nil {
		notFoundOr(c, "Failed to update customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCustomer(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete customer", err)
		return
	}
	util.EntitiesDeletedTotal.WithLabelValues("customer").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Products

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		writeError(c, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	product, err := h.store.CreateProduct(c.Request.Context(), bindLoose(c))
	if err != nil {
		util.WriteFailuresTotal.WithLabelValues("product").Inc()
		writeError(c, "Failed to create product", err)
		return
	}
	util.EntitiesCreatedTotal.WithLabelValues("product").Inc()
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := h.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, "Failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := h.store.UpdateProduct(c.Request.Context(), id, bindLoose(c))
	if err != nil {
		notFoundOr(c, "Failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete product", err)
		return
	}
	util.EntitiesDeletedTotal.WithLabelValues("product").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Orders

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) createOrder(c *gin.Context) {
	order, err := h.orders.CreateOrder(c.Request.Context(), bindLoose(c))
	if err != nil {
		writeError(c, "Failed to create order", err)
		return
	}
	util.EntitiesCreatedTotal.WithLabelValues("order").Inc()
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, "Failed to get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), id, bindLoose(c))
	if err != nil {
		notFoundOr(c, "Failed to update order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete order", err)
		return
	}
	util.EntitiesDeletedTotal.WithLabelValues("order").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Cases

func (h *Handler) listCases(c *gin.Context) {
	cases, err := h.store.ListCases(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list cases", err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

func (h *Handler) createCase(c *gin.Context) {
	kase, err := h.store.CreateCase(c.Request.Context(), bindLoose(c))
	if err != nil {
		util.WriteFailuresTotal.WithLabelValues("case").Inc()
		writeError(c, "Failed to create case", err)
		return
	}
	util.EntitiesCreatedTotal.WithLabelValues("case").Inc()
	c.JSON(http.StatusCreated, kase)
}

func (h *Handler) getCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	kase, err := h.store.GetCase(c.Request.Context(), id)
	if err != nil {
		notFoundOr(c, "Failed to get case", err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (h *Handler) updateCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	kase, err := h.store.UpdateCase(c.Request.Context(), id, bindLoose(c))
	if err != nil {
		notFoundOr(c, "Failed to update case", err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (h *Handler) deleteCase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCase(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete case", err)
		return
	}
	util.EntitiesDeletedTotal.WithLabelValues("case").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Search and dashboard

func (h *Handler) search(c *gin.Context) {
	util.SearchRequestsTotal.Inc()
	ctx, span := util.StartSpan(c.Request.Context(), "Handler.search")
	defer span.End()

	results, err := h.store.Search(ctx, strings.TrimSpace(c.Query("q")))
	if err != nil {
		writeError(c, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) dashboard(c *gin.Context) {
	metrics, err := h.store.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to compute dashboard", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) listActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activities, err := h.store.ListActivities(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "Failed to list activities", err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Helpers

// idParam parses the numeric identifier segment. A non-numeric segment
// does not match the route: it falls through to the same 404 as an
// unknown path.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		notFound(c)
		return 0, false
	}
	return int64(id), true
}

// bindLoose decodes the request body into a dynamic map. A malformed or
// absent body downgrades to an empty object rather than an error; the
// store's allow-lists decide what any of the keys mean.
func bindLoose(c *gin.Context) map[string]any {
	fields := map[string]any{}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		return fields
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return map[string]any{}
	}
	return fields
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// notFoundOr maps a missing row to the JSON 404 and anything else to a
// write/read failure.
func notFoundOr(c *gin.Context, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	writeError(c, msg, err)
}

func writeError(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// corsMiddleware attaches the permissive CORS headers the bundled web
// console relies on. Preflight requests short-circuit with 204 for any
// path, known or not.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
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
