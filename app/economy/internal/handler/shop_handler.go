package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

// PurchaseRequest 购买请求
type PurchaseRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// ListShop 商品列表
// @Router /api/v1/shop [get]
func (h *EconomyHandler) ListShop(c *gin.Context) {
	web.Success(c, h.shop.Items())
}

// Purchase 购买外观
// @Router /api/v1/players/{player_id}/shop/purchase [post]
func (h *EconomyHandler) Purchase(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if !web.BindJSON(c, &req) {
		return
	}
	res, err := h.shop.Purchase(c.Request.Context(), playerID, req.ItemID)
	if err != nil {
		h.fail(c, "purchase", err)
		return
	}
	web.Success(c, res)
}

// Inventory 外观背包
// @Router /api/v1/players/{player_id}/cosmetics [get]
func (h *EconomyHandler) Inventory(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	items, err := h.shop.Inventory(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "inventory", err)
		return
	}
	web.Success(c, items)
}

// Equip 装备外观
// @Router /api/v1/players/{player_id}/cosmetics/{item_id}/equip [post]
func (h *EconomyHandler) Equip(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	if err := h.shop.Equip(c.Request.Context(), playerID, c.Param("item_id")); err != nil {
		h.fail(c, "equip", err)
		return
	}
	h.Inventory(c)
}
