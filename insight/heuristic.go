package insight

import (
	"context"
	"fmt"

	"github.com/lixenwraith/market-bubbles/market"
)

// Heuristic builds insight text locally from odds, volume and trend bands
type Heuristic struct{}

func (Heuristic) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Describe(req), nil
}

// Describe returns the deterministic two-sentence summary for req
func Describe(req Request) string {
	var stance string
	switch {
	case req.Odds >= 80:
		stance = fmt.Sprintf("Traders see YES as very likely at %d%%", req.Odds)
	case req.Odds >= 60:
		stance = fmt.Sprintf("The market leans YES at %d%%", req.Odds)
	case req.Odds > 40:
		stance = fmt.Sprintf("This is close to a coin flip at %d%%", req.Odds)
	case req.Odds > 20:
		stance = fmt.Sprintf("The market leans NO with YES at %d%%", req.Odds)
	default:
		stance = fmt.Sprintf("Traders consider YES a long shot at %d%%", req.Odds)
	}

	var depth string
	switch {
	case req.Volume >= 1_000_000:
		depth = "with deep liquidity"
	case req.Volume >= 100_000:
		depth = "on active trading"
	default:
		depth = "on thin volume, so prices can swing"
	}

	dir := "up"
	if req.Trend == market.TrendDown {
		dir = "down"
	}
	var move string
	switch {
	case req.Change >= 10:
		move = fmt.Sprintf("A sharp %.1f%% move %s today suggests fresh news is being priced in.", req.Change, dir)
	case req.Change >= 2:
		move = fmt.Sprintf("Odds moved %s %.1f%% today.", dir, req.Change)
	default:
		move = "Odds have been stable today."
	}

	return fmt.Sprintf("%s %s. %s", stance, depth, move)
}
