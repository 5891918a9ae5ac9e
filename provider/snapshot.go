package provider

import (
	"sort"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
)

// BuildSnapshot categorizes items, keeps the perCategory highest-volume markets of each
// category and records each category's maximum volume
// Items that already carry a valid category keep it; non-positive perCategory uses the default cap
func BuildSnapshot(items []market.Market, perCategory int) market.Snapshot {
	if perCategory <= 0 {
		perCategory = parameter.MaxMarketsPerCategory
	}

	snap := market.Snapshot{
		Markets:   make(map[market.Category][]market.Market),
		MaxVolume: make(map[market.Category]float64),
	}

	seen := make(map[string]bool, len(items))
	for _, m := range items {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		if !m.Category.Valid() {
			m.Category = Categorize(m.Title, m.Description)
		}
		if m.Volume < 0 {
			m.Volume = 0
		}
		if m.Traders < 0 {
			m.Traders = 0
		}
		m.Odds = max(0, min(100, m.Odds))
		snap.Markets[m.Category] = append(snap.Markets[m.Category], m)
	}

	for c, list := range snap.Markets {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Volume > list[j].Volume })
		if len(list) > perCategory {
			list = list[:perCategory]
		}
		snap.Markets[c] = list
		// Sorted descending, the head is the maximum
		snap.MaxVolume[c] = list[0].Volume
	}
	return snap
}
