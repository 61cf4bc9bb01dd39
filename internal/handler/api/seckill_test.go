//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flashsale-service/internal/handler/api"
	"flashsale-service/internal/handler/middleware"
	"flashsale-service/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSeckill struct {
	result commands.PurchaseResult
	err    error

	gotVoucherID int64
	gotUserID    uuid.UUID
}

func (s *stubSeckill) Purchase(_ context.Context, voucherID int64, userID uuid.UUID) (commands.PurchaseResult, error) {
	s.gotVoucherID = voucherID
	s.gotUserID = userID
	return s.result, s.err
}

func newSeckillRouter(stub *stubSeckill) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := api.NewSeckillHandler(stub)
	r.POST("/api/vouchers/:id/seckill", middleware.RequireUser(), h.Purchase)
	return r
}

func doPurchase(r *gin.Engine, path, userHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if userHeader != "" {
		req.Header.Set("X-User-ID", userHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSeckillHandler_Purchase(t *testing.T) {
	userID := uuid.New()

	t.Run("admitted returns order id", func(t *testing.T) {
		stub := &stubSeckill{result: commands.PurchaseResult{Status: commands.PurchaseAdmitted, OrderID: 42}}
		w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", userID.String())

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]int64
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body["order_id"])
		assert.Equal(t, int64(7), stub.gotVoucherID)
		assert.Equal(t, userID, stub.gotUserID)
	})

	t.Run("rejections map to client statuses", func(t *testing.T) {
		tests := []struct {
			name       string
			status     commands.PurchaseStatus
			wantStatus int
			wantCode   string
		}{
			{name: "sold out", status: commands.PurchaseSoldOut, wantStatus: http.StatusConflict, wantCode: "sold_out"},
			{name: "duplicate", status: commands.PurchaseDuplicate, wantStatus: http.StatusConflict, wantCode: "duplicate"},
			{name: "window closed", status: commands.PurchaseWindowClosed, wantStatus: http.StatusForbidden, wantCode: "window_closed"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				stub := &stubSeckill{result: commands.PurchaseResult{Status: tt.status}}
				w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", userID.String())

				require.Equal(t, tt.wantStatus, w.Code)
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body["code"])
			})
		}
	})

	t.Run("missing identity header", func(t *testing.T) {
		stub := &stubSeckill{}
		w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Zero(t, stub.gotVoucherID)
	})

	t.Run("malformed identity header", func(t *testing.T) {
		stub := &stubSeckill{}
		w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", "not-a-uuid")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid voucher id", func(t *testing.T) {
		stub := &stubSeckill{}
		for _, path := range []string{"/api/vouchers/abc/seckill", "/api/vouchers/0/seckill", "/api/vouchers/-3/seckill"} {
			w := doPurchase(newSeckillRouter(stub), path, userID.String())
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
		assert.Zero(t, stub.gotVoucherID)
	})

	t.Run("store unavailable", func(t *testing.T) {
		stub := &stubSeckill{err: commands.ErrStoreUnavailable}
		w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", userID.String())

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("intake saturated", func(t *testing.T) {
		stub := &stubSeckill{err: commands.ErrIntakeSaturated}
		w := doPurchase(newSeckillRouter(stub), "/api/vouchers/7/seckill", userID.String())

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
