// Package alert delivers data-quality violations to operator-facing sinks.
package alert

import (
	"context"
	"log/slog"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// Sink is a violation destination.
type Sink interface {
	Send(ctx context.Context, v types.Violation) error
	Name() string
}

// Dispatcher fans violations out to every configured sink. A sink failure is
// logged and never fails the run.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher from the alert config. The console sink
// is always present; a webhook sink is added when a URL is configured.
func NewDispatcher(cfg types.AlertConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	d.sinks = append(d.sinks, NewConsoleSink())
	if cfg.WebhookURL != "" {
		d.sinks = append(d.sinks, NewWebhookSink(cfg.WebhookURL))
	}
	return d
}

// Dispatch sends every violation to every sink.
func (d *Dispatcher) Dispatch(ctx context.Context, violations []types.Violation) {
	for _, v := range violations {
		for _, sink := range d.sinks {
			if err := sink.Send(ctx, v); err != nil {
				d.logger.Error("sending alert", "sink", sink.Name(), "check", v.Check, "error", err)
			}
		}
	}
}
