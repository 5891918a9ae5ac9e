package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/market-bubbles/market"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		title, desc string
		want        market.Category
	}{
		{"Will Bitcoin reach $150k in 2025?", "", market.CategoryCrypto},
		{"Will Trump win the 2028 election?", "", market.CategoryPolitics},
		{"Fed cuts interest rate in March?", "", market.CategoryEconomy},
		{"Lakers win the NBA Finals?", "", market.CategorySports},
		{"Will Apple beat Q3 earnings?", "", market.CategoryEarnings},
		{"Will OpenAI release GPT-5 this year?", "", market.CategoryTech},
		{"Will the S&P 500 close above 6000?", "", market.CategoryEconomy},
		{"Big game on Sunday", "An NFL matchup", market.CategorySports},
		{"Will it rain in Paris on Christmas?", "", market.CategoryEvents},
		{"", "", market.CategoryEvents},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.desc))
		})
	}
}

func TestBuildSnapshotCapsAndSorts(t *testing.T) {
	var items []market.Market
	for i := 1; i <= 12; i++ {
		items = append(items, market.Market{
			ID:     fmt.Sprintf("btc-%d", i),
			Title:  fmt.Sprintf("Bitcoin market %d", i),
			Volume: float64(i * 100),
		})
	}
	items = append(items,
		market.Market{ID: "btc-3", Title: "Bitcoin duplicate", Volume: 1e9},
		market.Market{ID: "tagged", Title: "Bitcoin but tagged", Category: market.CategoryTech, Volume: 5},
		market.Market{ID: "neg", Title: "Mystery", Volume: -10, Odds: 150, Traders: -1},
	)

	snap := BuildSnapshot(items, 10)

	crypto := snap.Markets[market.CategoryCrypto]
	require.Len(t, crypto, 10)
	assert.Equal(t, "btc-12", crypto[0].ID)
	assert.Equal(t, "btc-3", crypto[9].ID)
	assert.Equal(t, 1200.0, snap.MaxVolume[market.CategoryCrypto])

	require.Len(t, snap.Markets[market.CategoryTech], 1)
	assert.Equal(t, 5.0, snap.MaxVolume[market.CategoryTech])

	events := snap.Markets[market.CategoryEvents]
	require.Len(t, events, 1)
	assert.Equal(t, 0.0, events[0].Volume)
	assert.Equal(t, 100, events[0].Odds)
	assert.Equal(t, 0, events[0].Traders)
	assert.Equal(t, 0.0, snap.MaxVolume[market.CategoryEvents])

	assert.Equal(t, 12, snap.Len())
}

func TestBuildSnapshotDefaultCap(t *testing.T) {
	var items []market.Market
	for i := 0; i < 15; i++ {
		items = append(items, market.Market{ID: fmt.Sprint(i), Title: "NFL game", Volume: float64(i)})
	}
	snap := BuildSnapshot(items, 0)
	assert.Len(t, snap.Markets[market.CategorySports], 10)
	assert.Empty(t, BuildSnapshot(nil, 10).Markets)
}

const gammaFixture = `[
  {"id":"1","question":"Will Bitcoin hit 100k?","slug":"btc-100k","outcomePrices":"[\"0.625\", \"0.375\"]",
   "volume":"12345.6","oneDayPriceChange":-0.034,"events":[{"slug":"bitcoin-2025"}]},
  {"id":"2","question":"Fed cut?","outcomePrices":"0.2,0.8","volumeNum":500,"oneDayPriceChange":0.01},
  {"id":"","question":"no id"},
  {"id":"4","question":"   "}
]`

func TestGammaClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("active"))
		assert.Equal(t, "false", q.Get("closed"))
		assert.Equal(t, "volume", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gammaFixture))
	}))
	defer srv.Close()

	g := NewGammaClient(srv.URL+"/", time.Second, WithLimit(5))
	got, err := g.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	btc := got[0]
	assert.Equal(t, "1", btc.ID)
	assert.Equal(t, "Will Bitcoin hit 100k?", btc.Title)
	assert.Equal(t, 63, btc.Odds)
	assert.InDelta(t, 12345.6, btc.Volume, 1e-9)
	assert.Equal(t, market.TrendDown, btc.Trend)
	assert.InDelta(t, 3.4, btc.Change, 1e-9)
	assert.Equal(t, "https://polymarket.com/event/bitcoin-2025", btc.Link)
	assert.Equal(t, market.CategoryNone, btc.Category)

	fed := got[1]
	assert.Equal(t, 20, fed.Odds)
	assert.Equal(t, 500.0, fed.Volume)
	assert.Equal(t, market.TrendUp, fed.Trend)
	assert.Empty(t, fed.Link)
}

func TestGammaClientErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewGammaClient(srv.URL, time.Second).Fetch(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStatus)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		_, err := NewGammaClient(srv.URL, time.Second).Fetch(context.Background())
		assert.ErrorContains(t, err, "decode json")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewGammaClient("http://127.0.0.1:1", time.Second).Fetch(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOddsFromPrices(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`["0.5", "0.5"]`, 50},
		{`["0.999", "0.001"]`, 100},
		{"0.07,0.93", 7},
		{"[0.33]", 33},
		{"", 0},
		{"garbage", 0},
		{`["1.7"]`, 100},
		{`["-0.2"]`, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, oddsFromPrices(tt.in), tt.in)
	}
}

const fileFixture = `markets:
  - id: a
    title: Will Solana flip Ethereum?
    odds: 12
    volume: 3200
    traders: 87
    trend: down
    change: 1.5
    link: https://polymarket.com/event/sol-eth
  - id: b
    category: sports
    title: Who wins the Super Bowl?
    odds: 45
    volume: 90000
`

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "markets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileFixture), 0o644))

	got, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, market.TrendDown, got[0].Trend)
	assert.Equal(t, 87, got[0].Traders)
	assert.Equal(t, market.CategorySports, got[1].Category)
	assert.Equal(t, market.TrendUp, got[1].Trend)

	snap := BuildSnapshot(got, 10)
	assert.Len(t, snap.Markets[market.CategoryCrypto], 1)
	assert.Len(t, snap.Markets[market.CategorySports], 1)

	_, err = NewFileSource(filepath.Join(dir, "missing.yaml")).Fetch(context.Background())
	assert.Error(t, err)

	_, err = ParseMarkets([]byte("markets:\n  - title: no id\n"))
	assert.ErrorContains(t, err, "has no id")
}

func TestMarshalSnapshot(t *testing.T) {
	snap := BuildSnapshot([]market.Market{
		{ID: "x", Title: "Bitcoin above 90k", Volume: 10},
		{ID: "y", Title: "NBA champion", Volume: 20},
	}, 10)

	out, err := MarshalSnapshot(snap)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "category: crypto")
	assert.Contains(t, s, "category: sports")
	assert.Contains(t, s, "max_volume: 20")
	assert.Less(t, strings.Index(s, "crypto"), strings.Index(s, "sports"), "display order")
}

type refreshRecord struct {
	mu    sync.Mutex
	calls int
	errs  int
}

func (r *refreshRecord) ObserveRefresh(_ time.Duration, _ int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if err != nil {
		r.errs++
	}
}

func TestRefresherRefresh(t *testing.T) {
	obs := &refreshRecord{}
	src := SourceFunc(func(ctx context.Context) ([]market.Market, error) {
		return []market.Market{{ID: "1", Title: "Ethereum ETF approved?", Volume: 7}}, nil
	})
	r := NewRefresher(RefresherConfig{}, src, func(market.Snapshot) {}, WithRefreshObserver(obs))

	snap, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 7.0, snap.MaxVolume[market.CategoryCrypto])

	failing := NewRefresher(RefresherConfig{}, SourceFunc(func(context.Context) ([]market.Market, error) {
		return nil, errors.New("offline")
	}), func(market.Snapshot) {}, WithRefreshObserver(obs))
	_, err = failing.Refresh(context.Background())
	assert.ErrorContains(t, err, "fetch markets: offline")

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 2, obs.calls)
	assert.Equal(t, 1, obs.errs)
}

func TestRefresherRunDelivers(t *testing.T) {
	var mu sync.Mutex
	fail := true
	src := SourceFunc(func(ctx context.Context) ([]market.Market, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			fail = false
			return nil, errors.New("first attempt fails")
		}
		return []market.Market{{ID: "1", Title: "NHL final", Volume: 1}}, nil
	})

	snaps := make(chan market.Snapshot, 8)
	errs := make(chan error, 8)
	r := NewRefresher(RefresherConfig{Interval: 5 * time.Millisecond}, src,
		func(s market.Snapshot) {
			select {
			case snaps <- s:
			default:
			}
		},
		OnError(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "first attempt fails")
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
	select {
	case s := <-snaps:
		assert.Len(t, s.Markets[market.CategorySports], 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRefresherTrigger(t *testing.T) {
	src := SourceFunc(func(context.Context) ([]market.Market, error) {
		return []market.Market{{ID: "t", Title: "Will the Fed cut rates?", Volume: 10}}, nil
	})
	trigger := make(chan struct{}, 1)
	snaps := make(chan market.Snapshot, 4)

	// An hour-long interval means only the trigger can cause a fetch
	r := NewRefresher(RefresherConfig{Interval: time.Hour}, src, func(s market.Snapshot) {
		select {
		case snaps <- s:
		default:
		}
	}, WithTrigger(trigger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	trigger <- struct{}{}
	select {
	case s := <-snaps:
		assert.Equal(t, 1, s.Len())
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not cause a fetch")
	}

	close(trigger)
	cancel()
	require.NoError(t, <-done)
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "markets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("markets: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := WatchFile(ctx, path, zerolog.Nop())
	require.NoError(t, err)

	// Other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	select {
	case <-changes:
		t.Fatal("unrelated file triggered a change")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("markets:\n  - id: a\n"), 0o644))
	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("write was not observed")
	}

	cancel()
	for range changes {
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	_, err := WatchFile(context.Background(), filepath.Join(t.TempDir(), "absent", "m.yaml"), zerolog.Nop())
	assert.Error(t, err)
}
