package gameconfig

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"gopkg.in/yaml.v3"
)

// Load 读取并校验 YAML 游戏数据
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read game data %s", path)
	}
	return Parse(data)
}

// Parse 解析并校验 YAML 游戏数据，未知字段视为错误
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(ErrInvalidGameData, "decode: %v", err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return build(&doc)
}

func build(doc *Document) (*Catalog, error) {
	c := &Catalog{
		starting: make(map[model.Currency]int64, len(doc.Currencies)),
		rates:    ledger.NewRateTable(),
		banners:  make(map[string]*model.Banner, len(doc.Banners)),
		shop:     make(map[string]model.ShopItem, len(doc.Shop)),
	}
	for _, cur := range doc.Currencies {
		c.currencies = append(c.currencies, cur.Name)
		c.starting[cur.Name] = cur.StartingBalance
	}
	for _, r := range doc.ExchangeRates {
		if err := c.rates.SetString(r.From, r.To, r.Rate); err != nil {
			return nil, errors.Wrap(ErrInvalidGameData, err.Error())
		}
	}
	for i := range doc.Banners {
		b := doc.Banners[i]
		c.banners[b.ID] = &b
		c.bannerOrder = append(c.bannerOrder, b.ID)
	}
	for _, it := range doc.Shop {
		c.shop[it.ItemID] = it
		c.shopOrder = append(c.shopOrder, it.ItemID)
	}
	return c, nil
}
