package model

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrCosmeticNotOwned 未拥有该外观
var ErrCosmeticNotOwned = errors.New("cosmetic not owned")

// OwnedCosmetic 已拥有的外观
type OwnedCosmetic struct {
	ItemID     string    `json:"item_id"`
	Category   string    `json:"category"`
	Count      int       `json:"count"`
	Equipped   bool      `json:"equipped"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// ShopItem 商店商品
type ShopItem struct {
	ItemID   string   `json:"item_id" yaml:"item_id"`
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"category"`
	Currency Currency `json:"currency" yaml:"currency"`
	Price    int64    `json:"price" yaml:"price"`
}

// CosmeticInventory 外观背包，每个分类最多装备一件
type CosmeticInventory struct {
	items map[string]*OwnedCosmetic
}

// NewCosmeticInventory 创建空背包
func NewCosmeticInventory() *CosmeticInventory {
	return &CosmeticInventory{items: make(map[string]*OwnedCosmetic)}
}

// Add 增加一件外观，返回是否首次获得
func (inv *CosmeticInventory) Add(itemID, category string, now time.Time) bool {
	if it, ok := inv.items[itemID]; ok {
		it.Count++
		return false
	}
	inv.items[itemID] = &OwnedCosmetic{
		ItemID:     itemID,
		Category:   category,
		Count:      1,
		AcquiredAt: now,
	}
	return true
}

// Equip 装备外观，同分类的其他外观自动卸下
func (inv *CosmeticInventory) Equip(itemID string) error {
	target, ok := inv.items[itemID]
	if !ok {
		return errors.Wrapf(ErrCosmeticNotOwned, "item %s", itemID)
	}
	for _, it := range inv.items {
		if it.Category == target.Category {
			it.Equipped = false
		}
	}
	target.Equipped = true
	return nil
}

// Owned 返回外观数量
func (inv *CosmeticInventory) Owned(itemID string) int {
	if it, ok := inv.items[itemID]; ok {
		return it.Count
	}
	return 0
}

// Items 按获得时间排序返回副本
func (inv *CosmeticInventory) Items() []OwnedCosmetic {
	out := make([]OwnedCosmetic, 0, len(inv.items))
	for _, it := range inv.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].AcquiredAt.Before(out[j].AcquiredAt)
	})
	return out
}

// Snapshot 导出快照
func (inv *CosmeticInventory) Snapshot() CosmeticState {
	return CosmeticState{Items: inv.Items()}
}

// Restore 从快照恢复，同分类多件装备时只保留第一件
func (inv *CosmeticInventory) Restore(state CosmeticState) {
	inv.items = make(map[string]*OwnedCosmetic, len(state.Items))
	equipped := make(map[string]bool)
	for _, it := range state.Items {
		if it.Count <= 0 {
			continue
		}
		c := it
		if c.Equipped {
			if equipped[c.Category] {
				c.Equipped = false
			}
			equipped[c.Category] = true
		}
		inv.items[c.ItemID] = &c
	}
}
