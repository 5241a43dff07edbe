//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/infra"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/usecase/shared"
	sharedmock "seckill-service/tests/mock/shared"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type txMocks struct {
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	vouchers *sharedmock.MockVoucherRepository
	orders   *sharedmock.MockOrderRepository
	shops    *sharedmock.MockShopRepository
	reads    *sharedmock.MockCommandReads
}

// newTxMocks wires a unit of work whose Within runs fn against a mocked Tx.
func newTxMocks(ctrl *gomock.Controller) *txMocks {
	m := &txMocks{
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		vouchers: sharedmock.NewMockVoucherRepository(ctrl),
		orders:   sharedmock.NewMockOrderRepository(ctrl),
		shops:    sharedmock.NewMockShopRepository(ctrl),
		reads:    sharedmock.NewMockCommandReads(ctrl),
	}
	m.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		}).AnyTimes()
	m.uow.EXPECT().CommandReads().Return(m.reads).AnyTimes()
	m.tx.EXPECT().Vouchers().Return(m.vouchers).AnyTimes()
	m.tx.EXPECT().Orders().Return(m.orders).AnyTimes()
	m.tx.EXPECT().Shops().Return(m.shops).AnyTimes()
	m.tx.EXPECT().Reads().Return(m.reads).AnyTimes()
	m.tx.EXPECT().DB().Return(nil).AnyTimes()
	return m
}

func TestOrderUseCase_CreateVoucherOrder(t *testing.T) {
	ctx := context.Background()
	intent := order.Intent{OrderID: 9001, UserID: 7, VoucherID: 3, CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	testCases := []struct {
		name      string
		intent    order.Intent
		setup     func(m *txMocks)
		expectErr error
	}{
		{
			name:   "success: stock taken and order stored",
			intent: intent,
			setup: func(m *txMocks) {
				gomock.InOrder(
					m.orders.EXPECT().CountByUserAndVoucher(gomock.Any(), gomock.Any(), int64(7), int64(3)).Return(0, nil),
					m.vouchers.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), int64(3)).Return(true, nil),
					m.orders.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ any, o *order.Order) error {
							assert.Equal(t, int64(9001), o.ID())
							assert.Equal(t, order.StatusUnpaid, o.Status())
							assert.Equal(t, intent.CreatedAt, o.CreatedAt())
							return nil
						}),
				)
			},
		},
		{
			name:   "replay: existing order is reported as duplicate without touching stock",
			intent: intent,
			setup: func(m *txMocks) {
				m.orders.EXPECT().CountByUserAndVoucher(gomock.Any(), gomock.Any(), int64(7), int64(3)).Return(1, nil)
			},
			expectErr: errs.ErrDuplicateOrder,
		},
		{
			name:   "sold out: no row decremented",
			intent: intent,
			setup: func(m *txMocks) {
				m.orders.EXPECT().CountByUserAndVoucher(gomock.Any(), gomock.Any(), int64(7), int64(3)).Return(0, nil)
				m.vouchers.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), int64(3)).Return(false, nil)
			},
			expectErr: errs.ErrSoldOut,
		},
		{
			name:   "race: unique violation maps to duplicate",
			intent: intent,
			setup: func(m *txMocks) {
				dup := infra.WrapRepoErr("failed to create voucher order", &pgconn.PgError{Code: "23505"})
				m.orders.EXPECT().CountByUserAndVoucher(gomock.Any(), gomock.Any(), int64(7), int64(3)).Return(0, nil)
				m.vouchers.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), int64(3)).Return(true, nil)
				m.orders.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(dup)
			},
			expectErr: errs.ErrDuplicateOrder,
		},
		{
			name:      "invalid intent never opens a transaction",
			intent:    order.Intent{OrderID: 0, UserID: 7, VoucherID: 3},
			setup:     func(m *txMocks) {},
			expectErr: order.ErrInvalidIntent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newTxMocks(ctrl)
			tc.setup(m)

			err := commands.NewOrderUseCase(m.uow).CreateVoucherOrder(ctx, tc.intent)

			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.expectErr), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOrderUseCase_DatabaseFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTxMocks(ctrl)
	boom := infra.WrapRepoErr("failed to count orders", errors.New("connection reset"))
	m.orders.EXPECT().CountByUserAndVoucher(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, boom)

	err := commands.NewOrderUseCase(m.uow).CreateVoucherOrder(context.Background(), order.Intent{OrderID: 1, UserID: 1, VoucherID: 1})

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	assert.False(t, errs.Is(err, errs.ErrDuplicateOrder))
	assert.False(t, errs.Is(err, errs.ErrSoldOut))
}
