package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"beacon-radar.klederson.com/internal/app"
	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/logger"
)

var (
	flagDemo        bool
	flagAdapter     string
	flagRange       float64
	flagCalibration string
	flagLogFile     string
	flagLogLevel    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "beacon-radar",
		Short: "Beacon Radar - Terminal iBeacon scanner with proximity radar",
		Long: `Beacon Radar listens for iBeacon advertisements, decodes their
UUID/major/minor identity and ranks them by estimated distance on a
circular ASCII radar.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with simulated beacons (no Bluetooth required)")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "hci0", "Bluetooth adapter label shown in the menu bar")
	rootCmd.Flags().Float64Var(&flagRange, "range", config.MaxRange, "Maximum radar range in meters")
	rootCmd.Flags().StringVar(&flagCalibration, "calibration", "", "TOML file with per-beacon measured power")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newDecodeCmd())
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	w, closeLog, err := logger.OpenFile(flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.Init(flagLogLevel, w)

	cal := config.DefaultCalibration()
	if flagCalibration != "" {
		if cal, err = config.LoadCalibration(flagCalibration); err != nil {
			return err
		}
		log.Info().Str("path", flagCalibration).Int("beacons", len(cal.Beacons)).Msg("calibration loaded")
	}

	model := app.New(app.Options{
		Demo:        flagDemo,
		Adapter:     flagAdapter,
		MaxRange:    flagRange,
		Calibration: cal,
		Log:         log,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	// Start scanners with reference to the tea program
	if err := model.StartScanners(p); err != nil {
		log.Error().Err(err).Msg("scanner start failed")
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
		fmt.Fprintln(os.Stderr, "Try one of:")
		fmt.Fprintln(os.Stderr, "  sudo ./beacon-radar")
		fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./beacon-radar")
		fmt.Fprintln(os.Stderr, "  ./beacon-radar --demo    (demo mode, no hardware needed)")
		return err
	}

	_, err = p.Run()
	return err
}
