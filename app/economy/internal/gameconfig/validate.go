package gameconfig

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/shopspring/decimal"
)

var knownCurrencies = map[model.Currency]struct{}{
	model.CurrencyGems:     {},
	model.CurrencyCoins:    {},
	model.CurrencyTickets:  {},
	model.CurrencyTokens:   {},
	model.CurrencyCrystals: {},
}

var knownEasings = map[model.Easing]struct{}{
	model.EaseLinear:     {},
	model.EaseOutQuad:    {},
	model.EaseInOutCubic: {},
}

func newValidator() *config.Validator {
	v := config.NewValidator()
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, ok := knownCurrencies[model.Currency(fl.Field().String())]
		return ok
	})
	return v
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidGameData, format, args...)
}

func validateDocument(doc *Document) error {
	if err := newValidator().Validate(doc); err != nil {
		return errors.Wrap(ErrInvalidGameData, err.Error())
	}

	declared := make(map[model.Currency]struct{}, len(doc.Currencies))
	for _, c := range doc.Currencies {
		if _, dup := declared[c.Name]; dup {
			return invalid("duplicate currency %s", c.Name)
		}
		declared[c.Name] = struct{}{}
	}

	for _, r := range doc.ExchangeRates {
		if _, ok := declared[r.From]; !ok {
			return invalid("exchange rate from undeclared currency %s", r.From)
		}
		if _, ok := declared[r.To]; !ok {
			return invalid("exchange rate to undeclared currency %s", r.To)
		}
		d, err := decimal.NewFromString(r.Rate)
		if err != nil || d.IsNegative() {
			return invalid("exchange rate %s->%s: bad rate %q", r.From, r.To, r.Rate)
		}
	}

	bannerIDs := make(map[string]struct{}, len(doc.Banners))
	for i := range doc.Banners {
		b := &doc.Banners[i]
		if b.ID == "" {
			return invalid("banner #%d has empty id", i)
		}
		if _, dup := bannerIDs[b.ID]; dup {
			return invalid("duplicate banner %s", b.ID)
		}
		bannerIDs[b.ID] = struct{}{}
		if err := validateBanner(b, declared); err != nil {
			return err
		}
	}

	shopIDs := make(map[string]struct{}, len(doc.Shop))
	for _, it := range doc.Shop {
		if it.ItemID == "" {
			return invalid("shop item with empty id")
		}
		if _, dup := shopIDs[it.ItemID]; dup {
			return invalid("duplicate shop item %s", it.ItemID)
		}
		shopIDs[it.ItemID] = struct{}{}
		if _, ok := declared[it.Currency]; !ok {
			return invalid("shop item %s: undeclared currency %s", it.ItemID, it.Currency)
		}
		if it.Price <= 0 {
			return invalid("shop item %s: price must be positive", it.ItemID)
		}
	}
	return nil
}

func validateBanner(b *model.Banner, currencies map[model.Currency]struct{}) error {
	if len(b.Pool) == 0 {
		return invalid("banner %s: empty item pool", b.ID)
	}
	if b.PityThreshold < 1 {
		return invalid("banner %s: pity threshold must be >= 1", b.ID)
	}

	total := 0
	for r, w := range b.BaseRates {
		if !r.Valid() {
			return invalid("banner %s: unknown rarity %s", b.ID, r)
		}
		if w < 0 {
			return invalid("banner %s: negative weight for %s", b.ID, r)
		}
		total += w
	}
	if total <= 0 {
		return invalid("banner %s: rate table total must be positive", b.ID)
	}

	byRarity := make(map[model.Rarity]int)
	itemIDs := make(map[string]struct{}, len(b.Pool))
	for _, it := range b.Pool {
		if it.ID == "" {
			return invalid("banner %s: item with empty id", b.ID)
		}
		if !it.Rarity.Valid() {
			return invalid("banner %s: item %s has unknown rarity %s", b.ID, it.ID, it.Rarity)
		}
		if _, dup := itemIDs[it.ID]; dup {
			return invalid("banner %s: duplicate item %s", b.ID, it.ID)
		}
		itemIDs[it.ID] = struct{}{}
		byRarity[it.Rarity]++
	}

	// 有权重的稀有度以及保底目标档位都必须有物品
	for r, w := range b.BaseRates {
		if w > 0 && byRarity[r] == 0 {
			return invalid("banner %s: no items for weighted rarity %s", b.ID, r)
		}
	}
	tiers := b.Tiers()
	for i := len(tiers) - 1; i >= 0 && i >= len(tiers)-2; i-- {
		if byRarity[tiers[i]] == 0 {
			return invalid("banner %s: no items for pity tier %s", b.ID, tiers[i])
		}
	}

	if sp := b.SoftPity; sp != nil {
		if sp.StartAt < 0 || sp.StartAt >= b.PityThreshold {
			return invalid("banner %s: soft pity start %d must be in [0,%d)", b.ID, sp.StartAt, b.PityThreshold)
		}
		if sp.Easing == "" {
			sp.Easing = model.EaseLinear
		}
		if _, ok := knownEasings[sp.Easing]; !ok {
			return invalid("banner %s: unknown easing %s", b.ID, sp.Easing)
		}
	}

	for _, id := range b.RateUpItemIDs {
		if _, ok := itemIDs[id]; !ok {
			return invalid("banner %s: rate-up item %s not in pool", b.ID, id)
		}
	}

	if _, ok := currencies[b.Cost.Currency]; !ok {
		return invalid("banner %s: undeclared cost currency %s", b.ID, b.Cost.Currency)
	}
	if b.Cost.Single <= 0 {
		return invalid("banner %s: single pull cost must be positive", b.ID)
	}
	if b.Cost.Ten < 0 {
		return invalid("banner %s: ten pull cost must not be negative", b.ID)
	}
	return nil
}
