// Package cmd contains the facility-monitor command line interface.
package cmd

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/clambin/facility-monitor/internal/cmd/monitor"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "facility-monitor",
		Short: "Energy & water monitor for a campus facility",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var opts slog.HandlerOptions
			if viper.GetBool("debug") {
				opts.Level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &opts)))
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	RootCmd.PersistentFlags().Bool("debug", false, "Log debug messages")
	_ = viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))

	RootCmd.AddCommand(&monitor.Cmd)
}

var args = charmer.Arguments{
	"debug":                       charmer.Argument{Default: false, Help: "Log debug messages"},
	"monitor.interval":            charmer.Argument{Default: 5 * time.Second, Help: "Simulation tick interval"},
	"exporter.addr":               charmer.Argument{Default: ":9090", Help: "Address of Prometheus exporter"},
	"health.addr":                 charmer.Argument{Default: ":8080", Help: "Address of /health endpoint"},
	"api.addr":                    charmer.Argument{Default: ":8081", Help: "Address of the dashboard API"},
	"slack.token":                 charmer.Argument{Default: "", Help: "Slack token (empty: no Slack notifications)"},
	"automation.lightsOff":        charmer.Argument{Default: "22:00", Help: "Time of day lights are switched off (HH:MM)"},
	"automation.occupancyControl": charmer.Argument{Default: true, Help: "Switch devices on & off by room occupancy"},
	"automation.acTemperature":    charmer.Argument{Default: 24, Help: "Target AC temperature (°C)"},
	"automation.tolerance":        charmer.Argument{Default: 0, Help: "AC temperature tolerance band (°C)"},
	"rates.energy":                charmer.Argument{Default: 7.0, Help: "Energy rate (per kWh)"},
	"rates.water":                 charmer.Argument{Default: 0.015, Help: "Water rate (per litre)"},
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/facility-monitor/")
		viper.AddConfigPath("$HOME/.facility-monitor")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := charmer.SetDefaults(viper.GetViper(), args); err != nil {
		panic("failed to set viper defaults: " + err.Error())
	}

	viper.SetEnvPrefix("FACILITY_MONITOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}
