package gameconfig

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
)

// Catalog 校验后的只读游戏数据
type Catalog struct {
	currencies []model.Currency
	starting   map[model.Currency]int64
	rates      *ledger.RateTable

	banners     map[string]*model.Banner
	bannerOrder []string

	shop      map[string]model.ShopItem
	shopOrder []string
}

// Banner 查询卡池，返回值只读
func (c *Catalog) Banner(id string) (*model.Banner, error) {
	b, ok := c.banners[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBanner, "banner %s", id)
	}
	return b, nil
}

// Banners 按配置顺序返回全部卡池
func (c *Catalog) Banners() []*model.Banner {
	out := make([]*model.Banner, 0, len(c.bannerOrder))
	for _, id := range c.bannerOrder {
		out = append(out, c.banners[id])
	}
	return out
}

// ShopItem 查询商品
func (c *Catalog) ShopItem(id string) (model.ShopItem, error) {
	it, ok := c.shop[id]
	if !ok {
		return model.ShopItem{}, errors.Wrapf(ErrUnknownShopItem, "item %s", id)
	}
	return it, nil
}

// ShopItems 按配置顺序返回商品
func (c *Catalog) ShopItems() []model.ShopItem {
	out := make([]model.ShopItem, 0, len(c.shopOrder))
	for _, id := range c.shopOrder {
		out = append(out, c.shop[id])
	}
	return out
}

// Currencies 货币列表
func (c *Catalog) Currencies() []model.Currency {
	return append([]model.Currency(nil), c.currencies...)
}

// StartingBalances 初始余额
func (c *Catalog) StartingBalances() map[model.Currency]int64 {
	out := make(map[model.Currency]int64, len(c.starting))
	for k, v := range c.starting {
		out[k] = v
	}
	return out
}

// Rates 汇率表
func (c *Catalog) Rates() *ledger.RateTable {
	return c.rates
}

// NewLedger 按配置创建初始账本
func (c *Catalog) NewLedger(opts ...ledger.Option) *ledger.Ledger {
	return ledger.New(c.currencies, c.starting, c.rates, opts...)
}
