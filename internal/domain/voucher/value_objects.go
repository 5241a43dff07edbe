package voucher

import (
	"time"

	"seckill-service/internal/pkg/errs"
)

// SaleWindow is closed on both ends.
type SaleWindow struct {
	begin time.Time
	end   time.Time
}

func NewSaleWindow(begin, end time.Time) (SaleWindow, error) {
	if begin.IsZero() || end.IsZero() || !begin.Before(end) {
		return SaleWindow{}, errs.ErrInvalidWindow
	}
	return SaleWindow{begin: begin, end: end}, nil
}

func (w SaleWindow) Begin() time.Time { return w.begin }
func (w SaleWindow) End() time.Time   { return w.end }

func (w SaleWindow) Contains(t time.Time) bool {
	return !t.Before(w.begin) && !t.After(w.end)
}
