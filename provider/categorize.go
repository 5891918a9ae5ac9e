package provider

import (
	"strings"
	"unicode"

	"github.com/lixenwraith/market-bubbles/market"
)

// categoryKeywords drives auto-detection, multi-word entries match as phrases
var categoryKeywords = map[market.Category][]string{
	market.CategoryPolitics: {
		"president", "congress", "senate", "house", "vote", "trump", "biden",
		"government", "governor", "mayor", "legislation", "bill", "republican",
		"democrat", "gop", "white house", "election", "ballot", "primary",
		"nominee", "electoral", "candidate", "midterm", "prime minister", "parliament",
	},
	market.CategoryCrypto: {
		"bitcoin", "btc", "ethereum", "eth", "crypto", "token", "blockchain",
		"defi", "nft", "altcoin", "stablecoin", "usdc", "usdt", "solana",
		"dogecoin", "binance", "coinbase", "xrp", "memecoin",
	},
	market.CategoryTech: {
		"ai", "artificial intelligence", "openai", "chatgpt", "google", "apple",
		"microsoft", "meta", "amazon", "tesla", "nvidia", "semiconductor",
		"chip", "software", "startup", "spacex", "iphone", "gpt", "anthropic",
	},
	market.CategoryEconomy: {
		"fed", "federal reserve", "interest rate", "rates", "inflation", "gdp",
		"recession", "unemployment", "jobs report", "cpi", "treasury", "tariff",
		"fiscal", "monetary", "debt ceiling", "deficit", "stock", "nasdaq", "s&p",
	},
	market.CategorySports: {
		"nfl", "nba", "mlb", "nhl", "soccer", "football", "basketball",
		"baseball", "hockey", "super bowl", "world series", "championship",
		"playoffs", "finals", "mvp", "premier league", "champions league",
		"world cup", "olympics", "tennis", "ufc", "f1",
	},
	market.CategoryEarnings: {
		"earnings", "revenue", "profit", "quarterly", "eps", "guidance",
		"beat estimates", "q1", "q2", "q3", "q4",
	},
}

// categoryPriority breaks score ties, more specific buckets first
var categoryPriority = []market.Category{
	market.CategoryEarnings,
	market.CategoryCrypto,
	market.CategoryEconomy,
	market.CategoryTech,
	market.CategorySports,
	market.CategoryPolitics,
}

// Categorize assigns a market to the closed category set by keyword score
// Title hits weigh double, markets with no hits fall back to events
func Categorize(title, description string) market.Category {
	titleText := normalize(title)
	descText := normalize(description)

	best, bestScore := market.CategoryEvents, 0
	for _, c := range categoryPriority {
		score := 0
		for _, kw := range categoryKeywords[c] {
			if containsKeyword(titleText, kw) {
				score += 2
			}
			if containsKeyword(descText, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// normalize lowercases and collapses non-word runs to single spaces, padded on both ends
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsKeyword matches whole words only, keywords are already lowercase
func containsKeyword(text, kw string) bool {
	return strings.Contains(text, " "+kw+" ")
}
