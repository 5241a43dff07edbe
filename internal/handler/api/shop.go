package api

import (
	"net/http"

	reqdto "seckill-service/internal/handler/dto/request"
	resdto "seckill-service/internal/handler/dto/response"
	"seckill-service/internal/handler/httperr"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	cmds commands.ShopCommands
	q    queries.ShopQueries
}

func NewShopHandler(cmds commands.ShopCommands, q queries.ShopQueries) *ShopHandler {
	return &ShopHandler{cmds: cmds, q: q}
}

// @Summary Get shop
// @Description Get a shop through the logical-expiry cache
// @Tags shops
// @Produce json
// @Param id path int true "Shop ID"
// @Success 200 {object} resdto.ShopResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /shops/{id} [get]
func (h *ShopHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromShop(s))
}

// @Summary Update shop
// @Description Update a shop and refresh its cache entry
// @Tags shops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shop ID"
// @Param request body reqdto.UpdateShopRequest true "Update shop request"
// @Success 200 {object} resdto.ShopResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /shops/{id} [put]
func (h *ShopHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	s := req.ToDomain(id)
	if err := h.cmds.Update(c.Request.Context(), s); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromShop(s))
}
