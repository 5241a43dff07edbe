package seckill

import "github.com/redis/go-redis/v9"

// KEYS[1] stock, KEYS[2] admitted users set, KEYS[3] sale window hash, KEYS[4] order stream
// ARGV[1] user id, ARGV[2] voucher id, ARGV[3] order id, ARGV[4] now in unix millis
var admissionScript = redis.NewScript(`
local stock = redis.call('get', KEYS[1])
if not stock then
	return 4
end

local window = redis.call('hmget', KEYS[3], 'begin', 'end')
local now = tonumber(ARGV[4])
if window[1] and now < tonumber(window[1]) then
	return 3
end
if window[2] and now > tonumber(window[2]) then
	return 3
end

if tonumber(stock) <= 0 then
	return 1
end

if redis.call('sismember', KEYS[2], ARGV[1]) == 1 then
	return 2
end

redis.call('incrby', KEYS[1], -1)
redis.call('sadd', KEYS[2], ARGV[1])
redis.call('xadd', KEYS[4], '*', 'userId', ARGV[1], 'voucherId', ARGV[2], 'id', ARGV[3], 'createdAt', ARGV[4])
return 0
`)

// Result is the admission script's verdict.
type Result int64

const (
	ResultOK Result = iota
	ResultSoldOut
	ResultDuplicate
	ResultNotOpen
	ResultNotLoaded
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultSoldOut:
		return "sold_out"
	case ResultDuplicate:
		return "duplicate"
	case ResultNotOpen:
		return "not_open"
	case ResultNotLoaded:
		return "not_loaded"
	default:
		return "unknown"
	}
}
