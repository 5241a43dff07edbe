//go:build e2e

package seckill_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"seckill-service/internal/domain/user"
	resdto "seckill-service/internal/handler/dto/response"
	"seckill-service/tests/common/authtest"
	"seckill-service/tests/common/builder"
	"seckill-service/tests/common/dbtest"
	"seckill-service/tests/common/httptest"
	"seckill-service/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SeckillE2ESuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestSeckillE2ESuite(t *testing.T) {
	suite.Run(t, new(SeckillE2ESuite))
}

func (s *SeckillE2ESuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *SeckillE2ESuite) adminToken() string {
	return s.jwt.GenerateToken(s.T(), 1, user.RoleAdmin)
}

func (s *SeckillE2ESuite) customerToken(userID int64) string {
	return s.jwt.GenerateToken(s.T(), userID, user.RoleCustomer)
}

func (s *SeckillE2ESuite) createVoucher(shopID int64, stock int, begin, end time.Time) int64 {
	req := builder.NewVoucherBuilder().With(func(b *builder.VoucherBuilder) {
		b.ShopID = shopID
		b.Stock = stock
		b.BeginAt = begin
		b.EndAt = end
	}).BuildCreateRequestDTO()

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/vouchers/seckill", req, s.adminToken())
	var body resdto.CreateVoucherResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
	require.Positive(s.T(), body.ID)
	return body.ID
}

func (s *SeckillE2ESuite) submit(voucherID, userID int64) (int, map[string]any) {
	url := fmt.Sprintf("/api/vouchers/%d/seckill", voucherID)
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, nil, s.customerToken(userID))
	var body map[string]any
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func reasonCode(body map[string]any) string {
	detail, _ := body["detail"].(map[string]any)
	code, _ := detail["code"].(string)
	return code
}

func (s *SeckillE2ESuite) TestSeckillFlow() {
	now := time.Now().UTC().Truncate(time.Second)

	s.Run("admits once per user, stops at stock and materializes orders", func() {
		shopID := dbtest.CreateTestShop(s.T(), s.DB, "Tea House")
		voucherID := s.createVoucher(shopID, 2, now.Add(-time.Minute), now.Add(time.Hour))

		code, body := s.submit(voucherID, 101)
		s.Require().Equal(http.StatusOK, code, body)
		firstOrder, ok := body["order_id"].(string)
		s.Require().True(ok)
		_, err := strconv.ParseInt(firstOrder, 10, 64)
		s.Require().NoError(err)

		code, body = s.submit(voucherID, 101)
		s.Equal(http.StatusConflict, code)
		s.Equal("duplicate", reasonCode(body))

		code, _ = s.submit(voucherID, 102)
		s.Equal(http.StatusOK, code)

		code, body = s.submit(voucherID, 103)
		s.Equal(http.StatusConflict, code)
		s.Equal("sold_out", reasonCode(body))

		s.Require().Eventually(func() bool {
			return dbtest.CountOrders(s.T(), s.DB, voucherID) == 2
		}, 15*time.Second, 100*time.Millisecond, "orders were not materialized")
		s.Equal(0, dbtest.VoucherStock(s.T(), s.DB, voucherID))

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/orders/"+firstOrder, nil, s.customerToken(101))
		var order resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &order)
		s.Equal(firstOrder, order.ID)
		s.Equal(voucherID, order.VoucherID)
		s.Equal("unpaid", order.Status)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/orders/"+firstOrder, nil, s.customerToken(102))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("rejects submissions before the sale opens", func() {
		shopID := dbtest.CreateTestShop(s.T(), s.DB, "Noodle Bar")
		voucherID := s.createVoucher(shopID, 5, now.Add(time.Hour), now.Add(2*time.Hour))

		code, body := s.submit(voucherID, 101)
		s.Equal(http.StatusUnprocessableEntity, code)
		s.Equal("not_open", reasonCode(body))
	})

	s.Run("unknown vouchers are not found", func() {
		code, _ := s.submit(424242, 101)
		s.Equal(http.StatusNotFound, code)
	})

	s.Run("only admins create vouchers", func() {
		shopID := dbtest.CreateTestShop(s.T(), s.DB, "Bakery")
		req := builder.NewVoucherBuilder().With(func(b *builder.VoucherBuilder) { b.ShopID = shopID }).BuildCreateRequestDTO()

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/vouchers/seckill", req, s.customerToken(7))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/vouchers/seckill", req, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("voucher reads go through the cache", func() {
		shopID := dbtest.CreateTestShop(s.T(), s.DB, "Cafe")
		voucherID := s.createVoucher(shopID, 3, now.Add(-time.Minute), now.Add(time.Hour))

		url := fmt.Sprintf("/api/vouchers/%d", voucherID)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url, nil, "")
		var v resdto.VoucherResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &v)
		s.Equal(3, v.Stock)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/vouchers/999999", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Voucher not found")
	})
}

func (s *SeckillE2ESuite) TestShopCache() {
	s.Run("update refreshes the logical cache entry", func() {
		shopID := dbtest.CreateTestShop(s.T(), s.DB, "Dim Sum")
		url := fmt.Sprintf("/api/shops/%d", shopID)

		// never warmed
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Shop not found")

		update := builder.NewShopBuilder().BuildUpdateRequestDTO()
		update.Name = "Dim Sum Palace"
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPut, url, update, s.adminToken())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url, nil, "")
		var shop resdto.ShopResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &shop)
		s.Equal("Dim Sum Palace", shop.Name)
	})

	s.Run("updating a missing shop is not found", func() {
		update := builder.NewShopBuilder().BuildUpdateRequestDTO()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, "/api/shops/987654", update, s.adminToken())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Shop not found")
	})
}
