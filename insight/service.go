// Package insight produces short commentary for a selected market
package insight

import (
	"context"
	"errors"

	"github.com/lixenwraith/market-bubbles/market"
)

var (
	// ErrStatus is wrapped by HTTP errors from the completion endpoint
	ErrStatus = errors.New("unexpected status")
	// ErrEmpty is returned when the endpoint answered without content
	ErrEmpty = errors.New("empty completion")
)

// Request carries the market fields an insight is generated from
type Request struct {
	Title       string
	Description string
	Odds        int
	Volume      float64
	Trend       market.Trend
	Change      float64
}

// RequestFor builds a request from a market record
func RequestFor(m market.Market) Request {
	return Request{
		Title:       m.Title,
		Description: m.Description,
		Odds:        m.Odds,
		Volume:      m.Volume,
		Trend:       m.Trend,
		Change:      m.Change,
	}
}

// Service generates insight text, implementations must honor ctx cancellation
type Service interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ServiceFunc adapts a function to Service
type ServiceFunc func(ctx context.Context, req Request) (string, error)

func (f ServiceFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
