package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

// defaultTransactionLimit 流水查询默认条数
const defaultTransactionLimit = 20

// AmountRequest 入账/出账请求
type AmountRequest struct {
	Currency    model.Currency `json:"currency" binding:"required"`
	Amount      int64          `json:"amount" binding:"required,gt=0"`
	Description string         `json:"description" binding:"max=128"`
}

// ExchangeRequest 兑换请求
type ExchangeRequest struct {
	From   model.Currency `json:"from" binding:"required"`
	To     model.Currency `json:"to" binding:"required"`
	Amount int64          `json:"amount" binding:"required,gt=0"`
}

// ExchangeResponse 兑换结果
type ExchangeResponse struct {
	Received int64 `json:"received"`
}

// SetBalanceRequest 设置余额请求
type SetBalanceRequest struct {
	Amount int64 `json:"amount" binding:"gte=0"`
}

// GetWallet 查询余额
// @Router /api/v1/players/{player_id}/wallet [get]
func (h *EconomyHandler) GetWallet(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	balances, err := h.wallet.Balances(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "wallet", err)
		return
	}
	web.Success(c, balances)
}

// ListTransactions 最近流水
// @Router /api/v1/players/{player_id}/wallet/transactions [get]
func (h *EconomyHandler) ListTransactions(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	limit, ok := web.QueryInt(c, "limit", defaultTransactionLimit)
	if !ok {
		return
	}
	if limit > ledger.MaxTransactions {
		limit = ledger.MaxTransactions
	}
	txs, err := h.wallet.History(c.Request.Context(), playerID, limit)
	if err != nil {
		h.fail(c, "transactions", err)
		return
	}
	web.Success(c, txs)
}

// Credit 入账
// @Router /api/v1/players/{player_id}/wallet/credit [post]
func (h *EconomyHandler) Credit(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req AmountRequest
	if !web.BindJSON(c, &req) {
		return
	}
	tx, err := h.wallet.Credit(c.Request.Context(), playerID, req.Currency, req.Amount, req.Description)
	if err != nil {
		h.fail(c, "credit", err)
		return
	}
	web.Success(c, tx)
}

// Debit 出账
// @Router /api/v1/players/{player_id}/wallet/debit [post]
func (h *EconomyHandler) Debit(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req AmountRequest
	if !web.BindJSON(c, &req) {
		return
	}
	tx, err := h.wallet.Debit(c.Request.Context(), playerID, req.Currency, req.Amount, req.Description)
	if err != nil {
		h.fail(c, "debit", err)
		return
	}
	web.Success(c, tx)
}

// Exchange 兑换货币
// @Router /api/v1/players/{player_id}/wallet/exchange [post]
func (h *EconomyHandler) Exchange(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req ExchangeRequest
	if !web.BindJSON(c, &req) {
		return
	}
	received, err := h.wallet.Exchange(c.Request.Context(), playerID, req.From, req.To, req.Amount)
	if err != nil {
		h.fail(c, "exchange", err)
		return
	}
	web.Success(c, ExchangeResponse{Received: received})
}

// ResetWallet 重置钱包
// @Router /api/v1/players/{player_id}/wallet/reset [post]
func (h *EconomyHandler) ResetWallet(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	if err := h.wallet.Reset(c.Request.Context(), playerID); err != nil {
		h.fail(c, "reset", err)
		return
	}
	h.GetWallet(c)
}

// SetBalance 覆盖余额
// @Router /api/v1/players/{player_id}/wallet/balances/{currency} [put]
func (h *EconomyHandler) SetBalance(c *gin.Context) {
	playerID, ok := h.playerID(c)
	if !ok {
		return
	}
	var req SetBalanceRequest
	if !web.BindJSON(c, &req) {
		return
	}
	if err := h.wallet.SetBalance(c.Request.Context(), playerID, model.Currency(c.Param("currency")), req.Amount); err != nil {
		h.fail(c, "set_balance", err)
		return
	}
	h.GetWallet(c)
}
