// Package redisstore owns the Redis connection and the key layout shared by
// every component that talks to Redis.
package redisstore

import "strconv"

const (
	LockPrefix         = "lock:"
	IDCounterPrefix    = "icr:"
	SeckillStockPrefix = "seckill:stock:"
	SeckillOrderPrefix = "seckill:order:"
	SeckillSalePrefix  = "seckill:voucher:"
	ShopCachePrefix    = "cache:shop:"
	VoucherCachePrefix = "cache:voucher:"
	RebuildLockPrefix  = "rebuild:"
	OrderLockPrefix    = "order:"
)

func SeckillStockKey(voucherID int64) string {
	return SeckillStockPrefix + strconv.FormatInt(voucherID, 10)
}

// SeckillOrderKey is the set of users already admitted for a voucher.
func SeckillOrderKey(voucherID int64) string {
	return SeckillOrderPrefix + strconv.FormatInt(voucherID, 10)
}

// SeckillSaleKey is a hash with the sale window bounds in unix millis.
func SeckillSaleKey(voucherID int64) string {
	return SeckillSalePrefix + strconv.FormatInt(voucherID, 10)
}

func ShopCacheKey(shopID int64) string {
	return ShopCachePrefix + strconv.FormatInt(shopID, 10)
}

func VoucherCacheKey(voucherID int64) string {
	return VoucherCachePrefix + strconv.FormatInt(voucherID, 10)
}

func OrderLockResource(userID int64) string {
	return OrderLockPrefix + strconv.FormatInt(userID, 10)
}

// Hash fields of SeckillSaleKey
const (
	SaleFieldBegin = "begin"
	SaleFieldEnd   = "end"
)
