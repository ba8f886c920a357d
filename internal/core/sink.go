package core

import (
	"context"

	"github.com/yanun0323/logs"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/risk"
)

// Intent is an admitted quote handed to the execution side.
type Intent struct {
	TraceID     uint64
	Coin        string
	TimestampMs uint64
	Proposal    quote.Proposal
	Decision    risk.Decision
}

// IntentSink receives admitted intents. Submit runs on the router goroutine
// and must not block for long.
type IntentSink interface {
	Submit(ctx context.Context, intent Intent) error
}

// SinkFunc adapts a function to IntentSink.
type SinkFunc func(ctx context.Context, intent Intent) error

func (f SinkFunc) Submit(ctx context.Context, intent Intent) error {
	return f(ctx, intent)
}

// LogSink prints every intent.
type LogSink struct{}

func (LogSink) Submit(_ context.Context, intent Intent) error {
	logs.Infof("[intent] #%d %s %s", intent.TraceID, intent.Coin, intent.Proposal)
	return nil
}

// MultiSink fans an intent out to every sink, returning the first error.
type MultiSink []IntentSink

func (m MultiSink) Submit(ctx context.Context, intent Intent) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Submit(ctx, intent); err != nil && first == nil {
			first = err
		}
	}
	return first
}
