package model

// 持久化命名空间
const (
	NamespaceWallet    = "economy.wallet"
	NamespaceGacha     = "economy.gacha"
	NamespaceCosmetics = "economy.cosmetics"
)

// WalletState 账本快照
type WalletState struct {
	Balances     map[Currency]int64 `json:"balances"`
	Transactions []Transaction      `json:"transactions"`
}

// GachaState 抽卡快照
type GachaState struct {
	PityTrackers map[string]PityTracker `json:"pity_trackers"`
	PullHistory  []PullSession          `json:"pull_history"`
	Inventory    map[string]int         `json:"inventory"`
}

// CosmeticState 外观背包快照
type CosmeticState struct {
	Items []OwnedCosmetic `json:"items"`
}
