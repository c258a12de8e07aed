package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
	weberrors "github.com/lk2023060901/xdooria-economy/pkg/web/errors"
)

// defaultSimulationPulls 模拟默认抽数
const defaultSimulationPulls = 10000

// PullRequest 抽卡请求
type PullRequest struct {
	Count int `json:"count" binding:"required,oneof=1 10"`
}

// BannerView 卡池展示信息
type BannerView struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Tiers         []model.Rarity       `json:"tiers"`
	BaseRates     map[model.Rarity]int `json:"base_rates"`
	PityThreshold int                  `json:"pity_threshold"`
	SoftPity      *model.SoftPity      `json:"soft_pity,omitempty"`
	RateUpItemIDs []string             `json:"rate_up_item_ids,omitempty"`
	Cost          model.PullCost       `json:"cost"`
	Pool          []model.Item         `json:"pool"`
}

// ListBanners 卡池列表
// @Router /api/v1/banners [get]
func (h *EconomyHandler) ListBanners(c *gin.Context) {
	banners := h.gacha.Banners()
	out := make([]BannerView, 0, len(banners))
	for _, b := range banners {
		out = append(out, BannerView{
			ID:            b.ID,
			Name:          b.Name,
			Tiers:         b.Tiers(),
			BaseRates:     b.BaseRates,
			PityThreshold: b.PityThreshold,
			SoftPity:      b.SoftPity,
			RateUpItemIDs: b.RateUpItemIDs,
			Cost:          b.Cost,
			Pool:          b.Pool,
		})
	}
	web.Success(c, out)
}

// Simulate 卡池模拟
// @Router /api/v1/banners/{banner_id}/simulate [get]
func (h *EconomyHandler) Simulate(c *gin.Context) {
	pulls, ok := web.QueryInt(c, "pulls", defaultSimulationPulls)
	if !ok {
		return
	}
	var seed uint64
	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			web.Fail(c, weberrors.CodeInvalidParams, "invalid seed")
			return
		}
		seed = v
	}
	if pulls > gacha.MaxSimulationPulls {
		web.Fail(c, weberrors.CodeInvalidParams, "pulls exceeds "+strconv.Itoa(gacha.MaxSimulationPulls))
		return
	}

	report, err := h.gacha.Simulate(c.Param("banner_id"), pulls, seed)
	if err != nil {
		h.fail(c, "simulate", err)
		return
	}
	web.Success(c, report)
}

// GachaStatus 抽卡状态
// @Router /api/v1/players/{player_id}/gacha [get]
func (h *EconomyHandler) GachaStatus(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	limit, ok := web.QueryInt(c, "limit", 0)
	if !ok {
		return
	}
	if limit > gacha.MaxHistory {
		limit = gacha.MaxHistory
	}
	status, err := h.gacha.Status(c.Request.Context(), playerID, limit)
	if err != nil {
		h.fail(c, "gacha_status", err)
		return
	}
	web.Success(c, status)
}

// DropRates 下一抽的概率
// @Router /api/v1/players/{player_id}/gacha/{banner_id}/rates [get]
func (h *EconomyHandler) DropRates(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	rates, err := h.gacha.DropRates(c.Request.Context(), playerID, c.Param("banner_id"))
	if err != nil {
		h.fail(c, "drop_rates", err)
		return
	}
	web.Success(c, rates)
}

// Pull 单抽或十连
// @Router /api/v1/players/{player_id}/gacha/{banner_id}/pull [post]
func (h *EconomyHandler) Pull(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req PullRequest
	if !web.BindJSON(c, &req) {
		return
	}
	out, err := h.gacha.Pull(c.Request.Context(), playerID, c.Param("banner_id"), req.Count)
	if err != nil {
		h.fail(c, "pull", err)
		return
	}
	web.Success(c, out)
}
