package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale-service/internal/handler/dto/response"
	"flashsale-service/internal/handler/httperr"
	"flashsale-service/internal/handler/middleware"
	"flashsale-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders queries.OrderQueries
}

func NewOrderHandler(orders queries.OrderQueries) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get handles GET /api/orders/:id. Orders persist asynchronously, so a
// 404 shortly after admission means "not yet", not "never".
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid order id"}})
		return
	}

	view, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load order", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewOrderResponse(view))
}

// Status handles GET /api/vouchers/:id/order: the identified caller
// polls whether their admitted purchase has reached the durable store.
func (h *OrderHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
		return
	}

	voucherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || voucherID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid voucher id"}})
		return
	}

	persisted, err := h.orders.HasPurchased(c.Request.Context(), userID, voucherID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to check purchase status", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.PurchaseStatusResponse{Persisted: persisted})
}
