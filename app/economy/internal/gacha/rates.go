package gacha

import "github.com/lk2023060901/xdooria-economy/app/economy/internal/model"

// ForcedTopTierProb 保底触发时出最高档的概率，其余为次高档
const ForcedTopTierProb = 0.10

// ComputeDropRates 计算当前保底计数下各稀有度的权重
//
// 未配置软保底时直接返回基础权重。配置后，保底计数超过 StartAt 时
// 按 t = (pity-StartAt)/(threshold-StartAt) 的缓动曲线压低最高两档以外的权重，
// 到达保底阈值时低档权重归零，高档概率随计数单调不减。
func ComputeDropRates(b *model.Banner, pityCount int) map[model.Rarity]float64 {
	tiers := b.Tiers()
	rates := make(map[model.Rarity]float64, len(tiers))
	for _, r := range tiers {
		w := b.BaseRates[r]
		if w < 0 {
			w = 0
		}
		rates[r] = float64(w)
	}

	scale := 1 - softPityProgress(b, pityCount)
	if scale >= 1 {
		return rates
	}
	for i := 0; i < len(tiers)-2; i++ {
		rates[tiers[i]] *= scale
	}
	return rates
}

// softPityProgress 返回缓动后的进度 [0,1]
func softPityProgress(b *model.Banner, pityCount int) float64 {
	sp := b.SoftPity
	if sp == nil || pityCount <= sp.StartAt {
		return 0
	}
	span := b.PityThreshold - sp.StartAt
	if span <= 0 {
		return 1
	}
	t := float64(pityCount-sp.StartAt) / float64(span)
	if t > 1 {
		t = 1
	}
	return ease(sp.Easing, t)
}

func ease(e model.Easing, t float64) float64 {
	switch e {
	case model.EaseOutQuad:
		return 1 - (1-t)*(1-t)
	case model.EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}
