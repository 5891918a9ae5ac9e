// Package market defines the payload records visualized as bubbles
package market

import (
	"sort"
)

// Category is one of the fixed topical buckets a market is assigned to
type Category string

const (
	CategoryPolitics Category = "politics"
	CategoryCrypto   Category = "crypto"
	CategoryTech     Category = "tech"
	CategoryEconomy  Category = "economy"
	CategorySports   Category = "sports"
	CategoryEvents   Category = "events"
	CategoryEarnings Category = "earnings"

	// CategoryNone is only used for coloring, the categorizer never assigns it
	CategoryNone Category = ""
)

// Categories lists the closed set in display order
var Categories = []Category{
	CategoryPolitics,
	CategoryCrypto,
	CategoryTech,
	CategoryEconomy,
	CategorySports,
	CategoryEvents,
	CategoryEarnings,
}

// Valid reports whether c belongs to the closed category set
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Trend is the binary direction of the recent price move
type Trend uint8

const (
	TrendUp Trend = iota
	TrendDown
)

func (t Trend) String() string {
	if t == TrendDown {
		return "down"
	}
	return "up"
}

// MarshalYAML encodes the trend as its name
func (t Trend) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML accepts "up" or "down"
func (t *Trend) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "down" {
		*t = TrendDown
	} else {
		*t = TrendUp
	}
	return nil
}

// Market is one item supplied by the data provider, carried through the engine untouched
type Market struct {
	ID          string   `yaml:"id"`
	Category    Category `yaml:"category"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Odds        int      `yaml:"odds"`    // 0-100 percentage
	Volume      float64  `yaml:"volume"`  // non-negative
	Traders     int      `yaml:"traders"` // non-negative
	Trend       Trend    `yaml:"trend"`
	Change      float64  `yaml:"change"` // non-negative percentage
	Link        string   `yaml:"link"`
}

// Snapshot is one complete categorized delivery from the data provider
type Snapshot struct {
	Markets   map[Category][]Market `yaml:"markets"`
	MaxVolume map[Category]float64  `yaml:"max_volume"`
}

// Len returns the total item count across categories
func (s Snapshot) Len() int {
	n := 0
	for _, items := range s.Markets {
		n += len(items)
	}
	return n
}

// Flatten returns all items in arrival order: known categories first in display order,
// then any other keys sorted, items keeping their per-category order
func (s Snapshot) Flatten() []Market {
	out := make([]Market, 0, s.Len())
	seen := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		seen[c] = true
		out = append(out, s.Markets[c]...)
	}

	var extra []Category
	for c := range s.Markets {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		out = append(out, s.Markets[c]...)
	}
	return out
}
