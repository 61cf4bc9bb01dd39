package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale-service/internal/handler/dto/response"
	"flashsale-service/internal/handler/httperr"
	"flashsale-service/internal/handler/middleware"
	"flashsale-service/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SeckillHandler struct {
	seckill commands.SeckillCommands
}

func NewSeckillHandler(seckill commands.SeckillCommands) *SeckillHandler {
	return &SeckillHandler{seckill: seckill}
}

// Purchase handles POST /api/vouchers/:id/seckill. Rejections map to
// client statuses without retry hints; infrastructure failures map to
// 503 because they are retryable.
func (h *SeckillHandler) Purchase(c *gin.Context) {
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

	result, err := h.seckill.Purchase(c.Request.Context(), voucherID, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrStoreUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Admission temporarily unavailable", nil)
		case errors.Is(err, commands.ErrIntakeSaturated):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Order intake saturated", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	switch result.Status {
	case commands.PurchaseAdmitted:
		c.JSON(http.StatusOK, resdto.PurchaseResponse{OrderID: result.OrderID})
	case commands.PurchaseSoldOut:
		c.JSON(http.StatusConflict, resdto.RejectionResponse{Code: "sold_out", Message: "Voucher sold out"})
	case commands.PurchaseDuplicate:
		c.JSON(http.StatusConflict, resdto.RejectionResponse{Code: "duplicate", Message: "Voucher already purchased"})
	case commands.PurchaseWindowClosed:
		c.JSON(http.StatusForbidden, resdto.RejectionResponse{Code: "window_closed", Message: "Sale window is not open"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}
