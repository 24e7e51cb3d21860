// Package notifier sends newly raised alerts to one or more destinations.
package notifier

import (
	"context"
	"log/slog"

	"github.com/clambin/facility-monitor/internal/simulator"
	"github.com/clambin/go-common/set"
)

type Notifier interface {
	Notify(alert simulator.Alert)
}

type Notifiers []Notifier

func (n Notifiers) Notify(alert simulator.Alert) {
	for _, notifier := range n {
		notifier.Notify(alert)
	}
}

type Publisher interface {
	Subscribe() chan simulator.Update
	Unsubscribe(chan simulator.Update)
}

// AlertNotifier watches published snapshots and notifies each alert once, when
// it first appears. The alert list itself is stateless per tick, so "new"
// means: not present in the previous snapshot.
type AlertNotifier struct {
	Publisher Publisher
	Notifiers Notifiers
	Logger    *slog.Logger
}

func (a *AlertNotifier) Run(ctx context.Context) error {
	a.Logger.Debug("started")
	defer a.Logger.Debug("stopped")

	ch := a.Publisher.Subscribe()
	defer a.Publisher.Unsubscribe(ch)

	seen := set.New[string]()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			current := set.New[string]()
			for _, alert := range update.Alerts {
				current.Add(alert.Message)
				if !seen.Contains(alert.Message) {
					a.Notifiers.Notify(alert)
				}
			}
			seen = current
		}
	}
}
