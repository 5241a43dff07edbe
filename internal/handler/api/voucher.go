package api

import (
	"net/http"

	reqdto "seckill-service/internal/handler/dto/request"
	resdto "seckill-service/internal/handler/dto/response"
	"seckill-service/internal/handler/httperr"
	"seckill-service/internal/handler/middleware"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	cmds    commands.VoucherCommands
	seckill commands.SeckillCommands
	q       queries.VoucherQueries
}

func NewVoucherHandler(cmds commands.VoucherCommands, seckill commands.SeckillCommands, q queries.VoucherQueries) *VoucherHandler {
	return &VoucherHandler{cmds: cmds, seckill: seckill, q: q}
}

// @Summary Create seckill voucher
// @Description Store a flash-sale voucher and preload its stock into Redis
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSeckillVoucherRequest true "Create seckill voucher request"
// @Success 201 {object} resdto.CreateVoucherResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /vouchers/seckill [post]
func (h *VoucherHandler) CreateSeckill(c *gin.Context) {
	var req reqdto.CreateSeckillVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	id, err := h.cmds.CreateSeckillVoucher(c.Request.Context(), req.ToCommand())
	if err != nil {
		// the voucher is stored even when the stock preload failed
		if id > 0 && errs.Is(err, errs.ErrUnavailable) {
			c.Header("Retry-After", httperr.RetryAfterSeconds)
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Voucher stored but stock preload failed", resdto.CreateVoucherResponse{ID: id})
			return
		}
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CreateVoucherResponse{ID: id})
}

// @Summary Get voucher
// @Description Get a seckill voucher by ID
// @Tags vouchers
// @Produce json
// @Param id path int true "Voucher ID"
// @Success 200 {object} resdto.VoucherResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /vouchers/{id} [get]
func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromVoucherView(view))
}

// @Summary Submit seckill order
// @Description Admit the caller into a flash sale. The order is materialized asynchronously.
// @Tags vouchers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Voucher ID"
// @Success 200 {object} resdto.SeckillResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /vouchers/{id}/seckill [post]
func (h *VoucherHandler) Seckill(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	voucherID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orderID, err := h.seckill.Submit(c.Request.Context(), voucherID, p.UserID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewSeckillResponse(orderID))
}
