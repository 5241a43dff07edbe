package redisstore

import (
	"seckill-service/internal/pkg/errs"
)

// Unavailable marks a Redis failure as retryable for callers.
func Unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errs.Mark(errs.Wrap(err, msg), errs.ErrUnavailable)
}
