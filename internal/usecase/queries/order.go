package queries

import (
	"context"

	"seckill-service/internal/infra"
)

//go:generate mockgen -source=order.go -destination=../../../tests/mock/queries/order_mock.go -package=queriesmock

type OrderReadStore interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
}

type OrderQueries interface {
	GetByID(ctx context.Context, id int64, userID int64) (*OrderView, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

// GetByID returns ErrOrderNotFound both while the intent is still queued and
// when the order belongs to someone else.
func (q *orderQueriesImpl) GetByID(ctx context.Context, id int64, userID int64) (*OrderView, error) {
	o, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}
