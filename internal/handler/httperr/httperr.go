package httperr

import (
	"net/http"

	"seckill-service/internal/infra"
	"seckill-service/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = "1"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Detail carries a stable reason code for clients.
type Detail struct {
	Code string `json:"code"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	target error
	status int
	msg    string
	code   string
}

var mappings = []mapping{
	{errs.ErrUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable", "unavailable"},
	{errs.ErrSoldOut, http.StatusConflict, "Voucher sold out", "sold_out"},
	{errs.ErrDuplicateOrder, http.StatusConflict, "Voucher already ordered", "duplicate"},
	{errs.ErrSaleNotOpen, http.StatusUnprocessableEntity, "Sale is not open", "not_open"},
	{errs.ErrVoucherNotFound, http.StatusNotFound, "Voucher not found", "voucher_not_found"},
	{errs.ErrOrderNotFound, http.StatusNotFound, "Order not found", "order_not_found"},
	{errs.ErrShopNotFound, http.StatusNotFound, "Shop not found", "shop_not_found"},
	{errs.ErrInvalidWindow, http.StatusBadRequest, "Invalid sale window", "invalid_window"},
	{errs.ErrInvalidStock, http.StatusBadRequest, "Invalid stock", "invalid_stock"},
	{errs.ErrDomainValidation, http.StatusBadRequest, "Invalid request", "validation"},
}

// Status resolves the HTTP status, message and reason code for err.
func Status(err error) (int, string, string) {
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			return m.status, m.msg, m.code
		}
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return http.StatusNotFound, "Not found", "not_found"
	}
	return http.StatusInternalServerError, "Internal server error", "internal"
}

// Abort translates a usecase error into the response body and status.
func Abort(c *gin.Context, err error) {
	status, msg, code := Status(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfterSeconds)
	}
	AbortWithError(c, status, err, msg, Detail{Code: code})
}
