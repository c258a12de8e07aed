package gacha

import "github.com/lk2023060901/xdooria-economy/app/economy/internal/model"

// RollRarity 按声明顺序做加权随机；总权重为 0 时返回最低档
func RollRarity(tiers []model.Rarity, rates map[model.Rarity]float64, rng RandomSource) model.Rarity {
	if len(tiers) == 0 {
		return ""
	}

	var total float64
	for _, r := range tiers {
		if w := rates[r]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return tiers[0]
	}

	remain := rng.Float64() * total
	last := tiers[0]
	for _, r := range tiers {
		w := rates[r]
		if w <= 0 {
			continue
		}
		last = r
		remain -= w
		if remain <= 0 {
			return r
		}
	}
	// 浮点误差
	return last
}

// ForcedRarity 保底必出最高两档之一
func ForcedRarity(tiers []model.Rarity, rng RandomSource) model.Rarity {
	switch n := len(tiers); n {
	case 0:
		return ""
	case 1:
		return tiers[0]
	default:
		if rng.Float64() < ForcedTopTierProb {
			return tiers[n-1]
		}
		return tiers[n-2]
	}
}

// SelectItem 在指定稀有度中选出物品
//
// 该稀有度没有物品时从整个卡池均匀随机；存在 UP 物品时有 50% 概率只在 UP 物品中选择。
func SelectItem(pool []model.Item, rarity model.Rarity, rateUpIDs []string, rng RandomSource) (model.Item, error) {
	if len(pool) == 0 {
		return model.Item{}, ErrEmptyPool
	}

	candidates := make([]model.Item, 0, len(pool))
	for _, it := range pool {
		if it.Rarity == rarity {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return pool[pickIndex(rng, len(pool))], nil
	}

	if len(rateUpIDs) > 0 {
		up := make(map[string]struct{}, len(rateUpIDs))
		for _, id := range rateUpIDs {
			up[id] = struct{}{}
		}
		var featured []model.Item
		for _, it := range candidates {
			if _, ok := up[it.ID]; ok {
				featured = append(featured, it)
			}
		}
		if len(featured) > 0 && rng.Float64() < 0.5 {
			candidates = featured
		}
	}

	return candidates[pickIndex(rng, len(candidates))], nil
}
