package model

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerTiers(t *testing.T) {
	b := &Banner{
		BaseRates: map[Rarity]int{RarityLegendary: 50, RarityCommon: 700, RarityRare: 250},
		Pool:      []Item{{ID: "a", Rarity: RarityEpic}},
	}
	assert.Equal(t, []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}, b.Tiers())
	assert.True(t, b.IsHighRarity(RarityLegendary))
	assert.True(t, b.IsHighRarity(RarityEpic))
	assert.False(t, b.IsHighRarity(RarityRare))
}

func TestBannerCostFor(t *testing.T) {
	tests := []struct {
		name  string
		cost  PullCost
		count int
		want  int64
	}{
		{"single", PullCost{Single: 160}, 1, 160},
		{"ten without discount", PullCost{Single: 160}, 10, 1600},
		{"ten with discount", PullCost{Single: 160, Ten: 1440}, 10, 1440},
		{"ten price ignored for single", PullCost{Single: 160, Ten: 1440}, 1, 160},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Banner{Cost: tt.cost}
			assert.Equal(t, tt.want, b.CostFor(tt.count))
		})
	}
}

func TestRarityRank(t *testing.T) {
	assert.Less(t, RarityCommon.Rank(), RarityUncommon.Rank())
	assert.Less(t, RarityEpic.Rank(), RarityLegendary.Rank())
	assert.False(t, Rarity("mythic").Valid())
}

func TestPullSessionClone(t *testing.T) {
	s := PullSession{Results: []GachaResult{{PullNumber: 1}}}
	c := s.Clone()
	c.Results[0].PullNumber = 9
	assert.Equal(t, 1, s.Results[0].PullNumber)
}

func TestCosmeticInventory(t *testing.T) {
	now := time.Unix(100, 0)
	inv := NewCosmeticInventory()

	assert.True(t, inv.Add("hat_red", "hat", now))
	assert.False(t, inv.Add("hat_red", "hat", now))
	assert.True(t, inv.Add("hat_blue", "hat", now.Add(time.Second)))
	assert.True(t, inv.Add("shirt", "top", now.Add(2*time.Second)))
	assert.Equal(t, 2, inv.Owned("hat_red"))

	require.NoError(t, inv.Equip("hat_red"))
	require.NoError(t, inv.Equip("shirt"))
	require.NoError(t, inv.Equip("hat_blue"))

	equipped := map[string]bool{}
	for _, it := range inv.Items() {
		equipped[it.ItemID] = it.Equipped
	}
	assert.Equal(t, map[string]bool{"hat_red": false, "hat_blue": true, "shirt": true}, equipped)

	err := inv.Equip("missing")
	assert.True(t, errors.Is(err, ErrCosmeticNotOwned))
}

func TestCosmeticRestore(t *testing.T) {
	inv := NewCosmeticInventory()
	inv.Restore(CosmeticState{Items: []OwnedCosmetic{
		{ItemID: "a", Category: "hat", Count: 1, Equipped: true, AcquiredAt: time.Unix(1, 0)},
		{ItemID: "b", Category: "hat", Count: 1, Equipped: true, AcquiredAt: time.Unix(2, 0)},
		{ItemID: "c", Category: "hat", Count: 0},
	}})

	items := inv.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].Equipped)
	assert.False(t, items[1].Equipped)
}
