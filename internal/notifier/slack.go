package notifier

import (
	"github.com/clambin/facility-monitor/internal/simulator"
	"github.com/slack-go/slack"
)

// SlackSender mimics github.com/clambin/go-common/slackbot
type SlackSender interface {
	Send(channel string, attachments []slack.Attachment) error
}

type SlackNotifier struct {
	Bot SlackSender
}

var _ Notifier = SlackNotifier{}

func (s SlackNotifier) Notify(alert simulator.Alert) {
	_ = s.Bot.Send("", []slack.Attachment{{
		Color: severityColor(alert.Severity),
		Title: alert.Icon + " " + alert.Message,
	}})
}

func severityColor(severity simulator.Severity) string {
	switch severity {
	case simulator.SeverityDanger:
		return "danger"
	case simulator.SeverityWarning:
		return "warning"
	default:
		return "good"
	}
}
