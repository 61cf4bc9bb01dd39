package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "flashsale-service/internal/handler/dto/request"
	resdto "flashsale-service/internal/handler/dto/response"
	"flashsale-service/internal/handler/httperr"
	"flashsale-service/internal/usecase/commands"
	"flashsale-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	vouchers       commands.VoucherCommands
	voucherQueries queries.VoucherQueries
}

func NewVoucherHandler(vouchers commands.VoucherCommands, voucherQueries queries.VoucherQueries) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers, voucherQueries: voucherQueries}
}

// Publish handles POST /api/vouchers, creating the durable row and
// seeding the admission fast path in one step.
func (h *VoucherHandler) Publish(c *gin.Context) {
	var req reqdto.PublishSeckillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request format"}})
		return
	}

	id, err := h.vouchers.PublishSeckill(c.Request.Context(), commands.PublishSeckillParams{
		Title:       req.Title,
		Stock:       req.Stock,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidVoucher):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid voucher", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to publish voucher", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.PublishSeckillResponse{ID: id})
}

// Get handles GET /api/vouchers/:id.
func (h *VoucherHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid voucher id"}})
		return
	}

	view, err := h.voucherQueries.GetSeckillByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrVoucherNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Voucher not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load voucher", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewVoucherResponse(view))
}
