package gameconfig

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidGameData 配置数据不合法，拒绝加载
	ErrInvalidGameData = errors.New("invalid game data")
	// ErrUnknownBanner 卡池不存在
	ErrUnknownBanner = errors.New("unknown banner")
	// ErrUnknownShopItem 商品不存在
	ErrUnknownShopItem = errors.New("unknown shop item")
)
