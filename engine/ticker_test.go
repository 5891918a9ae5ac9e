package engine

import (
	"sync"
	"testing"
	"time"
)

func TestMockTimeProviderAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockTimeProvider(start)

	if !clock.Now().Equal(start) {
		t.Fatalf("expected %v, got %v", start, clock.Now())
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				clock.Advance(time.Millisecond)
				_ = clock.Now()
			}
		}()
	}
	wg.Wait()

	if want := start.Add(100 * time.Millisecond); !clock.Now().Equal(want) {
		t.Errorf("expected %v after concurrent advances, got %v", want, clock.Now())
	}
}

func TestMonotonicTimeProviderMovesForward(t *testing.T) {
	clock := NewMonotonicTimeProvider()
	a := clock.Now()
	time.Sleep(time.Millisecond)
	if b := clock.Now(); !b.After(a) {
		t.Errorf("expected %v after %v", b, a)
	}
}

func TestManualTicker(t *testing.T) {
	m := NewManualTicker()
	ticker := m.Factory()(time.Hour)

	at := time.Unix(42, 0)
	got := make(chan time.Time, 1)
	go func() { got <- <-ticker.C() }()

	if !m.Tick(at) {
		t.Fatal("tick rejected on a live ticker")
	}
	if v := <-got; !v.Equal(at) {
		t.Errorf("expected %v, got %v", at, v)
	}

	ticker.Stop()
	ticker.Stop()
	if m.Tick(at) {
		t.Error("tick accepted after stop")
	}
}

func TestTimeTicker(t *testing.T) {
	ticker := NewTimeTicker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("time ticker never fired")
	}
}
