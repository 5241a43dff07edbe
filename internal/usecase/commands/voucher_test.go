//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	domvoucher "seckill-service/internal/domain/voucher"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/usecase/shared"
	"seckill-service/tests/common/redistest"
	commandsmock "seckill-service/tests/mock/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validCreateRequest() commands.CreateSeckillVoucherRequest {
	return commands.CreateSeckillVoucherRequest{
		ShopID:      1,
		Title:       "100 off 50",
		PayValue:    5000,
		ActualValue: 10000,
		Stock:       100,
		BeginAt:     now.Add(time.Hour),
		EndAt:       now.Add(25 * time.Hour),
	}
}

type voucherMocks struct {
	*txMocks
	gate  *commandsmock.MockAdmissionGate
	cache *commandsmock.MockEntityCache
}

func newVoucherUseCase(t *testing.T) (commands.VoucherCommands, *voucherMocks) {
	ctrl := gomock.NewController(t)
	m := &voucherMocks{
		txMocks: newTxMocks(ctrl),
		gate:    commandsmock.NewMockAdmissionGate(ctrl),
		cache:   commandsmock.NewMockEntityCache(ctrl),
	}
	uc := commands.NewVoucherUseCase(m.uow, m.gate, m.cache, clock.NewMockClock(now), redistest.DiscardLogger())
	return uc, m
}

func TestVoucherUseCase_CreateSeckillVoucher(t *testing.T) {
	ctx := context.Background()

	t.Run("success: stores the voucher and preloads the sale", func(t *testing.T) {
		uc, m := newVoucherUseCase(t)
		req := validCreateRequest()

		m.vouchers.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, v *domvoucher.SeckillVoucher) (int64, error) {
				assert.Equal(t, 100, v.Stock())
				assert.Equal(t, now, v.CreatedAt())
				return 42, nil
			})
		m.cache.EXPECT().Delete(gomock.Any(), "cache:voucher:42").Return(nil)
		m.gate.EXPECT().Preload(gomock.Any(), seckill.SaleState{
			VoucherID: 42,
			Stock:     100,
			BeginAt:   req.BeginAt,
			EndAt:     req.EndAt,
		}).Return(nil)

		id, err := uc.CreateSeckillVoucher(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("validation: bad input never reaches storage", func(t *testing.T) {
		cases := map[string]func(r *commands.CreateSeckillVoucherRequest){
			"zero stock":      func(r *commands.CreateSeckillVoucherRequest) { r.Stock = 0 },
			"inverted window": func(r *commands.CreateSeckillVoucherRequest) { r.BeginAt, r.EndAt = r.EndAt, r.BeginAt },
			"window has ended": func(r *commands.CreateSeckillVoucherRequest) {
				r.BeginAt, r.EndAt = now.Add(-2*time.Hour), now.Add(-time.Hour)
			},
			"blank title": func(r *commands.CreateSeckillVoucherRequest) { r.Title = "   " },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				uc, _ := newVoucherUseCase(t)
				req := validCreateRequest()
				mutate(&req)

				_, err := uc.CreateSeckillVoucher(ctx, req)
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrDomainValidation))
			})
		}
	})

	t.Run("unknown shop maps to ErrShopNotFound", func(t *testing.T) {
		uc, m := newVoucherUseCase(t)
		fk := infra.WrapRepoErr("failed to create seckill voucher", &pgconn.PgError{Code: "23503"})
		m.vouchers.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), fk)

		_, err := uc.CreateSeckillVoucher(ctx, validCreateRequest())
		assert.True(t, errs.Is(err, errs.ErrShopNotFound))
	})

	t.Run("preload failure still reports the stored id", func(t *testing.T) {
		uc, m := newVoucherUseCase(t)
		unavailable := errs.Mark(errors.New("dial tcp: refused"), errs.ErrUnavailable)
		m.vouchers.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(5), nil)
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(unavailable)
		m.gate.EXPECT().Preload(gomock.Any(), gomock.Any()).Return(unavailable)

		id, err := uc.CreateSeckillVoucher(ctx, validCreateRequest())
		assert.Equal(t, int64(5), id)
		assert.True(t, errs.Is(err, errs.ErrUnavailable))
	})
}

func TestVoucherUseCase_Preload(t *testing.T) {
	ctx := context.Background()

	t.Run("success: carries ordered users into the admitted set", func(t *testing.T) {
		uc, m := newVoucherUseCase(t)
		snap := &shared.VoucherSnapshot{ID: 3, ShopID: 1, Stock: 8, BeginAt: now, EndAt: now.Add(time.Hour)}
		m.reads.EXPECT().VoucherByID(gomock.Any(), int64(3)).Return(snap, nil)
		m.reads.EXPECT().OrderedUserIDs(gomock.Any(), int64(3)).Return([]int64{10, 11}, nil)
		m.gate.EXPECT().Preload(gomock.Any(), seckill.SaleState{
			VoucherID:     3,
			Stock:         8,
			BeginAt:       snap.BeginAt,
			EndAt:         snap.EndAt,
			AdmittedUsers: []int64{10, 11},
		}).Return(nil)

		require.NoError(t, uc.Preload(ctx, 3))
	})

	t.Run("unknown voucher", func(t *testing.T) {
		uc, m := newVoucherUseCase(t)
		m.reads.EXPECT().VoucherByID(gomock.Any(), int64(99)).
			Return(nil, infra.WrapRepoErr("voucher not found", pgx.ErrNoRows, infra.KindNotFound))

		err := uc.Preload(ctx, 99)
		assert.True(t, errs.Is(err, errs.ErrVoucherNotFound))
	})
}
