package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/service"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

// EconomyHandler 经济系统 HTTP 接口
type EconomyHandler struct {
	wallet *service.WalletService
	gacha  *service.GachaService
	shop   *service.ShopService
	logger logger.Logger
}

// NewEconomyHandler 创建处理器
func NewEconomyHandler(
	wallet *service.WalletService,
	gacha *service.GachaService,
	shop *service.ShopService,
	l logger.Logger,
) *EconomyHandler {
	return &EconomyHandler{
		wallet: wallet,
		gacha:  gacha,
		shop:   shop,
		logger: l.Named("handler.economy"),
	}
}

// Register 注册路由
func (h *EconomyHandler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/banners", h.ListBanners)
		api.GET("/banners/:banner_id/simulate", h.Simulate)
		api.GET("/shop", h.ListShop)

		player := api.Group("/players/:player_id")
		player.GET("/wallet", h.GetWallet)
		player.GET("/wallet/transactions", h.ListTransactions)
		player.POST("/wallet/credit", h.Credit)
		player.POST("/wallet/debit", h.Debit)
		player.POST("/wallet/exchange", h.Exchange)
		player.POST("/wallet/reset", h.ResetWallet)
		player.PUT("/wallet/balances/:currency", h.SetBalance)

		player.GET("/gacha", h.GachaStatus)
		player.GET("/gacha/:banner_id/rates", h.DropRates)
		player.POST("/gacha/:banner_id/pull", h.Pull)

		player.GET("/cosmetics", h.Inventory)
		player.POST("/cosmetics/:item_id/equip", h.Equip)
		player.POST("/shop/purchase", h.Purchase)
	}
}

// RegisterOps 注册健康检查与指标接口，metricsPath 为空时使用 /metrics
func RegisterOps(r *gin.Engine, metricsPath string, metrics http.Handler) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics == nil {
		return
	}
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r.GET(metricsPath, gin.WrapH(metrics))
}

// playerID 解析路径中的玩家 ID 并写入请求 context
func (h *EconomyHandler) playerID(c *gin.Context) (int64, bool) {
	id, ok := web.ParamInt64(c, "player_id")
	if !ok {
		return 0, false
	}
	c.Request = c.Request.WithContext(logger.ContextWithPlayerID(c.Request.Context(), id))
	return id, true
}
