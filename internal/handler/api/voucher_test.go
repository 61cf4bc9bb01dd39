//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flashsale-service/internal/handler/api"
	"flashsale-service/internal/usecase/commands"
	"flashsale-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVoucherCommands struct {
	id  int64
	err error

	gotParams commands.PublishSeckillParams
}

func (s *stubVoucherCommands) PublishSeckill(_ context.Context, params commands.PublishSeckillParams) (int64, error) {
	s.gotParams = params
	return s.id, s.err
}

type stubVoucherQueries struct {
	view *queries.VoucherView
	err  error
}

func (s *stubVoucherQueries) GetSeckillByID(_ context.Context, _ int64) (*queries.VoucherView, error) {
	return s.view, s.err
}

func newVoucherRouter(cmds *stubVoucherCommands, qs *stubVoucherQueries) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := api.NewVoucherHandler(cmds, qs)
	r.POST("/api/vouchers", h.Publish)
	r.GET("/api/vouchers/:id", h.Get)
	return r
}

func TestVoucherHandler_Publish(t *testing.T) {
	body := `{
		"title": "100 off",
		"stock": 200,
		"window_start": "2025-06-01T10:00:00Z",
		"window_end": "2025-06-01T11:00:00Z"
	}`

	t.Run("created", func(t *testing.T) {
		cmds := &stubVoucherCommands{id: 7}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader(body))
		newVoucherRouter(cmds, &stubVoucherQueries{}).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]int64
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp["id"])
		assert.Equal(t, 200, cmds.gotParams.Stock)
	})

	t.Run("zero stock is a valid voucher", func(t *testing.T) {
		zeroStock := `{
			"title": "100 off",
			"stock": 0,
			"window_start": "2025-06-01T10:00:00Z",
			"window_end": "2025-06-01T11:00:00Z"
		}`
		cmds := &stubVoucherCommands{id: 8}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader(zeroStock))
		newVoucherRouter(cmds, &stubVoucherQueries{}).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 0, cmds.gotParams.Stock)
	})

	t.Run("negative stock rejected by binding", func(t *testing.T) {
		negative := `{
			"title": "100 off",
			"stock": -1,
			"window_start": "2025-06-01T10:00:00Z",
			"window_end": "2025-06-01T11:00:00Z"
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader(negative))
		newVoucherRouter(&stubVoucherCommands{}, &stubVoucherQueries{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid voucher maps to 422", func(t *testing.T) {
		cmds := &stubVoucherCommands{err: commands.ErrInvalidVoucher}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader(body))
		newVoucherRouter(cmds, &stubVoucherQueries{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader("{"))
		newVoucherRouter(&stubVoucherCommands{}, &stubVoucherQueries{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVoucherHandler_Get(t *testing.T) {
	t.Run("found reports active window", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		qs := &stubVoucherQueries{view: &queries.VoucherView{
			ID:          7,
			Title:       "100 off",
			Stock:       200,
			WindowStart: start,
			WindowEnd:   start.Add(time.Hour),
			Active:      true,
		}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/7", nil)
		newVoucherRouter(&stubVoucherCommands{}, qs).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["active"])
	})

	t.Run("not found", func(t *testing.T) {
		qs := &stubVoucherQueries{err: queries.ErrVoucherNotFound}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/404", nil)
		newVoucherRouter(&stubVoucherCommands{}, qs).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
