//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"seckill-service/internal/infra"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/queries"
	queriesmock "seckill-service/tests/mock/queries"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrderQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	view := &queries.OrderView{ID: 900, UserID: 7, VoucherID: 3, Status: "unpaid", CreatedAt: time.Now()}

	testCases := []struct {
		name      string
		userID    int64
		storeView *queries.OrderView
		storeErr  error
		expectErr error
	}{
		{name: "owner sees the order", userID: 7, storeView: view},
		{name: "someone else's order is hidden", userID: 8, storeView: view, expectErr: queries.ErrOrderNotFound},
		{
			name:      "not materialized yet",
			userID:    7,
			storeErr:  infra.WrapRepoErr("order not found", pgx.ErrNoRows, infra.KindNotFound),
			expectErr: queries.ErrOrderNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockOrderReadStore(ctrl)
			store.EXPECT().FindByID(gomock.Any(), int64(900)).Return(tc.storeView, tc.storeErr)

			got, err := queries.NewOrderQueries(store).GetByID(ctx, 900, tc.userID)

			if tc.expectErr != nil {
				assert.True(t, errs.Is(err, tc.expectErr))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}

	t.Run("database failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("failed to get order view by id", errors.New("conn closed")))

		_, err := queries.NewOrderQueries(store).GetByID(ctx, 900, 7)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
