package gacha

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
)

// MaxSimulationPulls 单次模拟的抽数上限
const MaxSimulationPulls = 100000

// GapStats 两次高稀有度出货之间的抽数分布
type GapStats struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	P50     float64 `json:"p50"`
	P90     float64 `json:"p90"`
	Max     int     `json:"max"`
}

// SimulationReport 模拟结果
type SimulationReport struct {
	BannerID     string               `json:"banner_id"`
	Pulls        int                  `json:"pulls"`
	RarityCounts map[model.Rarity]int `json:"rarity_counts"`
	ForcedPity   int                  `json:"forced_pity"`
	RateUpHits   int                  `json:"rate_up_hits"`
	HighRarity   GapStats             `json:"high_rarity_gap"`
}

// Simulate 用全新的抽卡状态对卡池连续单抽 pulls 次，用于检查概率曲线
func Simulate(b *model.Banner, pulls int, rng RandomSource) (SimulationReport, error) {
	if pulls <= 0 || pulls > MaxSimulationPulls {
		return SimulationReport{}, errors.Wrapf(ErrInvalidSimulation, "pulls %d not in [1,%d]", pulls, MaxSimulationPulls)
	}
	if b == nil || len(b.Pool) == 0 {
		return SimulationReport{}, ErrEmptyPool
	}

	m := NewManager(rng)
	report := SimulationReport{
		BannerID:     b.ID,
		Pulls:        pulls,
		RarityCounts: make(map[model.Rarity]int),
	}

	var gaps []int
	since := 0
	for i := 0; i < pulls; i++ {
		results, err := m.ExecutePull(b, 1)
		if err != nil {
			return SimulationReport{}, err
		}
		r := results[0]
		since++
		report.RarityCounts[r.Item.Rarity]++
		if r.IsPity {
			report.ForcedPity++
		}
		if r.IsRateUp {
			report.RateUpHits++
		}
		if b.IsHighRarity(r.Item.Rarity) {
			gaps = append(gaps, since)
			since = 0
		}
	}

	report.HighRarity = calcGapStats(gaps)
	return report, nil
}

func calcGapStats(xs []int) GapStats {
	n := len(xs)
	if n == 0 {
		return GapStats{}
	}

	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)

	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(sorted[0])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		if i+1 >= n {
			return float64(sorted[n-1])
		}
		f := pos - float64(i)
		return float64(sorted[i])*(1-f) + float64(sorted[i+1])*f
	}

	return GapStats{
		Samples: n,
		Mean:    sum / float64(n),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		Max:     sorted[n-1],
	}
}
