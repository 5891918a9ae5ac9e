package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/market-bubbles/audio"
	"github.com/lixenwraith/market-bubbles/config"
	"github.com/lixenwraith/market-bubbles/core"
	"github.com/lixenwraith/market-bubbles/engine"
	"github.com/lixenwraith/market-bubbles/input"
	"github.com/lixenwraith/market-bubbles/insight"
	"github.com/lixenwraith/market-bubbles/logging"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/metrics"
	"github.com/lixenwraith/market-bubbles/provider"
	"github.com/lixenwraith/market-bubbles/render"
	"github.com/lixenwraith/market-bubbles/terminal"
	"github.com/lixenwraith/market-bubbles/vmath"
)

// app groups the components input handling acts on
type app struct {
	loop     *engine.Loop
	scene    *render.Scene
	insights *insight.Dispatcher
	player   *audio.Player
	log      zerolog.Logger
}

// runApp wires the terminal, frame loop, data refresher and insight dispatcher and blocks until quit
func runApp(parent context.Context, cfg *config.Config, seed uint64) error {
	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	term, err := terminal.New()
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer term.Fini()

	// Panics here or in any guarded goroutine finalize the screen before the emergency reset
	core.OnCrash(func(r any, stack []byte) {
		term.Fini()
		log.Error().Interface("panic", r).Str("stack", string(stack)).Msg("crashed")
	})
	defer core.Recover()

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Str("version", Version).Str("provider", cfg.Provider.Kind).Uint64("seed", seed).Msg("starting")

	recorder := metrics.New()

	player := audio.NewPlayer()
	if cfg.Audio.Enabled {
		if err := player.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		}
	}
	defer player.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	scene := render.NewScene(term, render.NewRenderer(cfg.Surface.Metrics()))
	scene.SetSource(sourceName(cfg))

	dispatcher := newDispatcher(cfg, scene, recorder, log)
	defer dispatcher.Close()

	loop := engine.NewLoop(term, scene,
		engine.WithInterval(cfg.Surface.FrameInterval()),
		engine.WithRand(vmath.NewFastRand(seed)),
		engine.WithMetrics(cfg.Surface.Metrics()),
		engine.WithObserver(recorder),
		engine.WithLogger(logging.Component(log, "engine")),
		engine.OnSelect(func(sel engine.Selection) {
			scene.ShowDetail(sel.Market, sel.At)
			dispatcher.Request(ctx, sel.Market)
			player.Click(sel.Market.Category)
		}),
	)

	refreshOpts := []provider.RefresherOption{
		provider.OnError(func(err error) { scene.SetRefresh(time.Now(), err) }),
		provider.WithRefreshObserver(recorder),
		provider.WithRefreshLogger(logging.Component(log, "provider")),
	}
	if cfg.Provider.Kind == config.ProviderFile && cfg.Provider.Watch {
		changes, err := provider.WatchFile(ctx, cfg.Provider.File, logging.Component(log, "watch"))
		if err != nil {
			log.Warn().Err(err).Msg("market file watch unavailable, polling only")
		} else {
			refreshOpts = append(refreshOpts, provider.WithTrigger(changes))
		}
	}

	refresher := provider.NewRefresher(cfg.Provider.Refresher(),
		cfg.Provider.Source(provider.WithGammaLogger(logging.Component(log, "gamma"))),
		func(snap market.Snapshot) {
			loop.Replace(snap)
			scene.SetRefresh(time.Now(), nil)
			player.Refresh()
		},
		refreshOpts...,
	)

	// A failed first fetch starts with an empty field, the next tick retries
	snap, refreshErr := refresher.Refresh(ctx)
	if refreshErr != nil {
		log.Warn().Err(refreshErr).Msg("initial market fetch failed")
	}
	scene.SetRefresh(time.Now(), refreshErr)

	if err := loop.Start(ctx, snap); err != nil {
		return fmt.Errorf("start frame loop: %w", err)
	}
	defer loop.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(core.Guard(func() error { return refresher.Run(gctx) }))
	if cfg.Metrics.Addr != "" {
		g.Go(core.Guard(func() error {
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics server listening")
			if err := recorder.Serve(gctx, cfg.Metrics.Addr); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		}))
	}
	g.Go(core.Guard(func() error {
		// Wakes PollEvent so the input goroutine can observe shutdown
		<-gctx.Done()
		term.Interrupt(nil)
		return nil
	}))
	g.Go(core.Guard(func() error {
		defer cancel()
		return handleEvents(gctx, term, &app{loop: loop, scene: scene, insights: dispatcher, player: player, log: log})
	}))

	return g.Wait()
}

// handleEvents pumps terminal input until quit or cancellation
func handleEvents(ctx context.Context, term terminal.Terminal, a *app) error {
	keys := input.DefaultKeyTable()
	for {
		ev := term.PollEvent()
		if ctx.Err() != nil || ev.Type == terminal.EventClosed {
			return nil
		}

		intent := keys.Resolve(ev)
		switch intent.Type {
		case input.IntentQuit:
			return nil
		case input.IntentEscape:
			a.scene.ClearDetail()
			a.insights.Cancel()
		case input.IntentToggleMute:
			muted := a.player.ToggleMute()
			a.log.Info().Bool("muted", muted).Msg("sound toggled")
		case input.IntentResize:
			a.loop.Resize()
		case input.IntentSelect:
			a.loop.Click(intent.Col, intent.Row)
		}
	}
}

func newDispatcher(cfg *config.Config, scene *render.Scene, obs insight.Observer, log zerolog.Logger) *insight.Dispatcher {
	publish := func(r insight.Result) { scene.SetInsight(r.MarketID, r.Text, r.Err) }
	opts := []insight.DispatcherOption{
		insight.WithTimeout(cfg.Insight.Timeout),
		insight.WithObserver(obs),
		insight.WithLogger(logging.Component(log, "insight")),
	}

	if !cfg.Insight.Remote() {
		return insight.NewDispatcher(insight.Heuristic{}, publish, opts...)
	}
	opts = append(opts, insight.WithFallback(insight.Heuristic{}))
	return insight.NewDispatcher(insight.NewHTTPService(cfg.Insight.HTTP()), publish, opts...)
}

func sourceName(cfg *config.Config) string {
	if cfg.Provider.Kind == config.ProviderFile {
		return "file " + cfg.Provider.File
	}
	return "polymarket"
}
