package analytics

import (
	"sort"
	"strings"

	"finboard/internal/core"
)

// DefaultCategoryLimit is how many categories are kept before the rest is
// folded into core.OtherCategory.
const DefaultCategoryLimit = 5

type CategoryTotal struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

// CategoryDistribution sums amounts per category, largest first. Equal sums
// keep first-seen order. When more than limit groups exist the tail is
// collapsed into a single "Other" bucket, merged with an existing "Other"
// group if one survived the cut.
func CategoryDistribution(txs []core.Transaction, limit int) []CategoryTotal {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}

	var groups []CategoryTotal
	index := make(map[string]int)
	for _, tx := range txs {
		name := strings.TrimSpace(tx.Category)
		if name == "" {
			name = core.OtherCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryTotal{Category: name, Amount: core.Zero})
		}
		groups[i].Amount = groups[i].Amount.Plus(tx.Amount)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount.Decimal)
	})

	if len(groups) <= limit {
		if groups == nil {
			return []CategoryTotal{}
		}
		return groups
	}

	kept := groups[:limit:limit]
	rest := core.Zero
	for _, g := range groups[limit:] {
		rest = rest.Plus(g.Amount)
	}
	for i := range kept {
		if kept[i].Category == core.OtherCategory {
			kept[i].Amount = kept[i].Amount.Plus(rest)
			return kept
		}
	}
	return append(kept, CategoryTotal{Category: core.OtherCategory, Amount: rest})
}

// CategoryDistributionFor restricts the rollup to one transaction type.
func CategoryDistributionFor(txs []core.Transaction, typ core.TransactionType, limit int) []CategoryTotal {
	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == typ {
			filtered = append(filtered, tx)
		}
	}
	return CategoryDistribution(filtered, limit)
}
