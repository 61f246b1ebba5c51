package credit

import "github.com/smartplatform/gateway/internal/model"

// CostTable maps every recognized feature kind to its price in credits.
type CostTable map[model.FeatureKind]int64

// DefaultCostTable returns the standard price list: the free tier costs
// nothing and everything else costs DefaultFeatureCost.
func DefaultCostTable() CostTable {
	table := make(CostTable, len(model.AllFeatureKinds))
	for _, kind := range model.AllFeatureKinds {
		table[kind] = DefaultFeatureCost
	}
	table[model.FeatureSmartQuestion] = 0
	table[model.FeatureJSONPromptGenerator] = 0
	return table
}

// NewCostTable applies overrides on top of the default table. Overrides for
// unknown kinds or negative prices are ignored.
func NewCostTable(overrides map[model.FeatureKind]int64) CostTable {
	table := DefaultCostTable()
	for kind, cost := range overrides {
		if !kind.IsValid() || cost < 0 {
			continue
		}
		table[kind] = cost
	}
	return table
}

// Cost returns the price of kind and whether the kind is recognized.
func (t CostTable) Cost(kind model.FeatureKind) (int64, bool) {
	cost, ok := t[kind]
	return cost, ok
}

// List returns the table in display order.
func (t CostTable) List() []model.FeatureCost {
	out := make([]model.FeatureCost, 0, len(t))
	for _, kind := range model.AllFeatureKinds {
		cost, ok := t[kind]
		if !ok {
			continue
		}
		out = append(out, model.FeatureCost{Kind: kind, Cost: cost, Free: cost == 0})
	}
	return out
}
