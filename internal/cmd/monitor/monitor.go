// Package monitor assembles and runs the facility-monitor daemon.
package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/clambin/facility-monitor/internal/api"
	"github.com/clambin/facility-monitor/internal/collector"
	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/clambin/facility-monitor/internal/health"
	"github.com/clambin/facility-monitor/internal/notifier"
	"github.com/clambin/facility-monitor/internal/rules"
	"github.com/clambin/facility-monitor/internal/simulator"
	"github.com/clambin/go-common/slackbot"
	"github.com/clambin/go-common/taskmanager"
	"github.com/clambin/go-common/taskmanager/httpserver"
	promserver "github.com/clambin/go-common/taskmanager/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = cobra.Command{
	Use:   "monitor",
	Short: "runs the facility simulation and its monitoring endpoints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := New(viper.GetViper(), cmd.Root().Version, prometheus.DefaultRegisterer, slog.Default())
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return m.Run(ctx)
	},
}

func New(cfg *viper.Viper, version string, registry prometheus.Registerer, logger *slog.Logger) (*taskmanager.Manager, error) {
	// Do we have a facility layout next to the config file?
	layout, err := maybeLoadFacility(filepath.Join(filepath.Dir(cfg.ConfigFileUsed()), "facility.yaml"), logger)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		defaultLayout := facility.DefaultConfig()
		defaultLayout.Rates = facility.Rates{
			Energy: cfg.GetFloat64("rates.energy"),
			Water:  cfg.GetFloat64("rates.water"),
		}
		layout = &defaultLayout
		logger.Info("no facility.yaml found. using the built-in layout")
	}

	settings, err := makeSettings(cfg)
	if err != nil {
		return nil, err
	}
	return taskmanager.New(makeTasks(cfg, *layout, settings, version, registry, logger)...), nil
}

func maybeLoadFacility(path string, logger *slog.Logger) (*facility.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	layout, err := facility.Load(f, logger)
	if err != nil {
		return nil, fmt.Errorf("facility.yaml: %w", err)
	}
	return &layout, nil
}

func makeSettings(cfg *viper.Viper) (rules.Settings, error) {
	lightsOff, err := rules.ParseTimestamp(cfg.GetString("automation.lightsOff"))
	if err != nil {
		return rules.Settings{}, fmt.Errorf("automation.lightsOff: %w", err)
	}
	settings := rules.Settings{
		LightsOff:        lightsOff,
		OccupancyControl: cfg.GetBool("automation.occupancyControl"),
	}
	if err = settings.Apply(rules.SettingsPatch{
		ACTemperature: ptr(cfg.GetInt("automation.acTemperature")),
		Tolerance:     ptr(cfg.GetInt("automation.tolerance")),
	}); err != nil {
		return rules.Settings{}, fmt.Errorf("automation: %w", err)
	}
	return settings, nil
}

func ptr[T any](value T) *T { return &value }

func makeTasks(cfg *viper.Viper, layout facility.Config, settings rules.Settings, version string, registry prometheus.Registerer, l *slog.Logger) []taskmanager.Task {
	var tasks []taskmanager.Task

	// Simulator
	s := simulator.New(layout, settings, cfg.GetDuration("monitor.interval"), l.With("component", "simulator"))
	tasks = append(tasks, s)

	// Collector
	coll := &collector.Collector{Publisher: s, Logger: l.With("component", "collector")}
	registry.MustRegister(coll)
	tasks = append(tasks, coll)

	// Prometheus Server
	tasks = append(tasks, promserver.New(promserver.WithAddr(cfg.GetString("exporter.addr"))))

	// Health Endpoint
	h := health.New(s, l.With("component", "health"))
	tasks = append(tasks, h)
	r := http.NewServeMux()
	r.Handle("/health", h)
	tasks = append(tasks, httpserver.New(cfg.GetString("health.addr"), r))

	// Dashboard API
	a := api.New(s, l.With("component", "api"))
	tasks = append(tasks, a, httpserver.New(cfg.GetString("api.addr"), a.Router()))

	// Alert notifications
	notifiers := notifier.Notifiers{notifier.SLogNotifier{Logger: l.With("component", "alerts")}}
	if token := cfg.GetString("slack.token"); token != "" {
		b := slackbot.New(
			token,
			slackbot.WithName("facility-monitor "+version),
			slackbot.WithLogger(l.With(slog.String("component", "slackbot"))),
		)
		tasks = append(tasks, b)
		notifiers = append(notifiers, notifier.SlackNotifier{Bot: b})
	}
	tasks = append(tasks, &notifier.AlertNotifier{Publisher: s, Notifiers: notifiers, Logger: l.With("component", "notifier")})

	return tasks
}
