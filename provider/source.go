// Package provider fetches prediction markets and turns them into categorized snapshots
package provider

import (
	"context"
	"errors"

	"github.com/lixenwraith/market-bubbles/market"
)

// ErrStatus is wrapped by fetch errors caused by a non-2xx HTTP response
var ErrStatus = errors.New("unexpected status")

// Source returns raw uncategorized markets
// Implementations may leave Category empty, BuildSnapshot assigns it
type Source interface {
	Fetch(ctx context.Context) ([]market.Market, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]market.Market, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]market.Market, error) {
	return f(ctx)
}
