package handler

import (
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
	weberrors "github.com/lk2023060901/xdooria-economy/pkg/web/errors"
)

// 经济系统业务错误码
const (
	CodeInsufficientFunds = 40201
	CodeExchangeRejected  = 40202
)

// codeOf 将领域错误映射为业务错误码
func codeOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ledger.ErrDegenerateRate), errors.Is(err, ledger.ErrSameCurrency):
		return CodeExchangeRejected
	case errors.Is(err, gameconfig.ErrUnknownBanner),
		errors.Is(err, gameconfig.ErrUnknownShopItem),
		errors.Is(err, ledger.ErrUnknownCurrency),
		errors.Is(err, model.ErrCosmeticNotOwned):
		return weberrors.CodeNotFound
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrBalanceOverflow),
		errors.Is(err, gacha.ErrInvalidPullCount),
		errors.Is(err, gacha.ErrInvalidSimulation):
		return weberrors.CodeInvalidParams
	default:
		return weberrors.CodeInternalError
	}
}

// fail 写入错误响应，内部错误不暴露细节
func (h *EconomyHandler) fail(c *gin.Context, op string, err error) {
	code := codeOf(err)
	if code == weberrors.CodeInternalError {
		h.logger.ErrorContext(c.Request.Context(), "request failed", "op", op, "error", err)
		web.Fail(c, code, "internal error")
		return
	}
	web.Fail(c, code, err.Error())
}
