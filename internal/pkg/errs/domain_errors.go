package errs

import "errors"

// Domain-specific sentinel errors shared by usecase, infra and handler layers
var (
	// Admission errors
	ErrSoldOut         = errors.New("sold out")
	ErrDuplicateOrder  = errors.New("duplicate order")
	ErrSaleNotOpen     = errors.New("sale not open")
	ErrVoucherNotFound = errors.New("voucher not found")

	// Order errors
	ErrOrderNotFound = errors.New("order not found")

	// Shop errors
	ErrShopNotFound = errors.New("shop not found")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")

	// Lock errors
	ErrLockNotHeld = errors.New("lock not held")
	ErrLockBusy    = errors.New("lock busy")

	// Store failures callers may retry
	ErrUnavailable = errors.New("store unavailable")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")
	ErrInvalidWindow    = errors.New("invalid sale window")
	ErrInvalidStock     = errors.New("invalid stock")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
