//go:build unit

package order_test

import (
	"testing"
	"time"

	"seckill-service/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromIntent(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("keeps the intent's identity", func(t *testing.T) {
		o, err := order.FromIntent(order.Intent{OrderID: 10, UserID: 20, VoucherID: 30, CreatedAt: createdAt})
		require.NoError(t, err)

		assert.Equal(t, int64(10), o.ID())
		assert.Equal(t, int64(20), o.UserID())
		assert.Equal(t, int64(30), o.VoucherID())
		assert.Equal(t, order.StatusUnpaid, o.Status())
		assert.Equal(t, createdAt, o.CreatedAt())
	})

	for _, tc := range []struct {
		name   string
		intent order.Intent
	}{
		{name: "missing order id", intent: order.Intent{UserID: 1, VoucherID: 1}},
		{name: "missing user", intent: order.Intent{OrderID: 1, VoucherID: 1}},
		{name: "missing voucher", intent: order.Intent{OrderID: 1, UserID: 1}},
		{name: "negative ids", intent: order.Intent{OrderID: -1, UserID: -1, VoucherID: -1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := order.FromIntent(tc.intent)
			assert.ErrorIs(t, err, order.ErrInvalidIntent)
		})
	}
}
