package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale-service/internal/handler/dto/response"
	"flashsale-service/internal/handler/httperr"
	"flashsale-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	shops queries.ShopQueries
}

func NewShopHandler(shops queries.ShopQueries) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// Get handles GET /api/shops/:id through the read-through cache.
func (h *ShopHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid shop id"}})
		return
	}

	view, stale, err := h.shops.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrShopNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shop not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Shop lookup temporarily unavailable", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewShopResponse(view, stale))
}

// Warm handles POST /api/shops/:id/warm, pre-seeding the logical-expiry
// cache entry ahead of traffic.
func (h *ShopHandler) Warm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid shop id"}})
		return
	}

	if err := h.shops.Warm(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, queries.ErrShopNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shop not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Shop warm-up failed", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
