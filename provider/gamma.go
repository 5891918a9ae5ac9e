package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/market-bubbles/market"
)

const (
	DefaultGammaURL = "https://gamma-api.polymarket.com"
	eventLinkBase   = "https://polymarket.com/event/"
)

// gammaMarket is the subset of the Gamma /markets record we read
// Several numeric fields arrive as strings depending on endpoint version
type gammaMarket struct {
	ID                string      `json:"id"`
	Question          string      `json:"question"`
	Description       string      `json:"description"`
	Slug              string      `json:"slug"`
	OutcomePrices     string      `json:"outcomePrices"` // JSON-encoded array, e.g. "[\"0.62\", \"0.38\"]"
	Volume            json.Number `json:"volume"`
	VolumeNum         float64     `json:"volumeNum"`
	OneDayPriceChange float64     `json:"oneDayPriceChange"`
	Events            []struct {
		Slug string `json:"slug"`
	} `json:"events"`
}

// GammaClient reads active markets from the Polymarket Gamma REST API
type GammaClient struct {
	baseURL string
	limit   int
	client  *http.Client
	log     zerolog.Logger
}

// GammaOption configures GammaClient
type GammaOption func(*GammaClient)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) GammaOption { return func(g *GammaClient) { g.client = c } }

// WithLimit sets the number of markets requested per fetch
func WithLimit(n int) GammaOption { return func(g *GammaClient) { g.limit = n } }

// WithGammaLogger sets the client logger
func WithGammaLogger(l zerolog.Logger) GammaOption { return func(g *GammaClient) { g.log = l } }

// NewGammaClient creates a client against baseURL, DefaultGammaURL when empty
func NewGammaClient(baseURL string, timeout time.Duration, opts ...GammaOption) *GammaClient {
	if baseURL == "" {
		baseURL = DefaultGammaURL
	}
	g := &GammaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   200,
		client:  &http.Client{Timeout: timeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch requests active open markets ordered by volume
func (g *GammaClient) Fetch(ctx context.Context) ([]market.Market, error) {
	q := url.Values{}
	q.Set("active", "true")
	q.Set("closed", "false")
	q.Set("limit", strconv.Itoa(g.limit))
	q.Set("order", "volume")
	q.Set("ascending", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/markets?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []gammaMarket
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	out := make([]market.Market, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		m, ok := r.toMarket()
		if !ok {
			skipped++
			continue
		}
		out = append(out, m)
	}

	g.log.Debug().
		Int("markets", len(out)).
		Int("skipped", skipped).
		Dur("duration", time.Since(start)).
		Msg("gamma fetch complete")
	return out, nil
}

// toMarket maps the wire record, ok is false for records without an id or title
func (r gammaMarket) toMarket() (market.Market, bool) {
	if r.ID == "" || strings.TrimSpace(r.Question) == "" {
		return market.Market{}, false
	}

	trend := market.TrendUp
	if r.OneDayPriceChange < 0 {
		trend = market.TrendDown
	}

	slug := r.Slug
	if len(r.Events) > 0 && r.Events[0].Slug != "" {
		slug = r.Events[0].Slug
	}
	link := ""
	if slug != "" {
		link = eventLinkBase + slug
	}

	return market.Market{
		ID:          r.ID,
		Title:       strings.TrimSpace(r.Question),
		Description: r.Description,
		Odds:        oddsFromPrices(r.OutcomePrices),
		Volume:      r.volume(),
		Trend:       trend,
		Change:      math.Abs(r.OneDayPriceChange) * 100,
		Link:        link,
	}, true
}

func (r gammaMarket) volume() float64 {
	if r.VolumeNum > 0 {
		return r.VolumeNum
	}
	v, err := strconv.ParseFloat(string(r.Volume), 64)
	if err != nil || v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// oddsFromPrices returns the first outcome price as a 0-100 percentage
// Accepts the JSON array form and a bare comma list
func oddsFromPrices(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var prices []string
	if err := json.Unmarshal([]byte(s), &prices); err != nil {
		prices = strings.Split(strings.Trim(s, "[]"), ",")
	}
	if len(prices) == 0 {
		return 0
	}

	p, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(prices[0]), `"`), 64)
	if err != nil || math.IsNaN(p) {
		return 0
	}
	odds := int(math.Round(p * 100))
	return max(0, min(100, odds))
}
