package notifier

import (
	"log/slog"

	"github.com/clambin/facility-monitor/internal/simulator"
)

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ Notifier = SLogNotifier{}

func (s SLogNotifier) Notify(alert simulator.Alert) {
	s.Logger.Warn(alert.Message, slog.String("severity", alert.Severity.String()))
}
