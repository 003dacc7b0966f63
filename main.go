package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/ferrofluid/internal/config"
	"github.com/iburimskiy/ferrofluid/internal/export"
	"github.com/iburimskiy/ferrofluid/internal/game"
	"github.com/iburimskiy/ferrofluid/internal/report"
	"github.com/iburimskiy/ferrofluid/internal/tui"
)

var (
	configFile    string
	sensitivity   float64
	rotationSpeed float64
	showOutline   bool
	verbose       bool

	// export
	outDir      string
	exportFPS   int
	width       int
	height      int
	frames      int
	supersample int

	// bands
	bandsFPS    int
	chartWidth  int
	chartHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ferrofluid [file]",
		Short:        "audio-reactive ferrofluid visualizer",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runWindow,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", config.DefaultFile, "settings file (YAML)")
	pf.Float64Var(&sensitivity, "sensitivity", config.DefaultSensitivity, "shape sensitivity (0.1-2)")
	pf.Float64Var(&rotationSpeed, "rotation-speed", config.DefaultRotationSpeed, "rotation speed in rad/s (0-1)")
	pf.BoolVar(&showOutline, "outline", config.DefaultShowOutline, "draw the reference circle")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	tuiCmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "render in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "render a track to numbered PNG frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outDir, "out", "o", "frames", "output directory")
	exportCmd.Flags().IntVar(&exportFPS, "fps", export.DefaultFPS, "frames per second")
	exportCmd.Flags().IntVar(&width, "width", config.WindowWidth, "frame width")
	exportCmd.Flags().IntVar(&height, "height", config.WindowHeight, "frame height")
	exportCmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 = whole track)")
	exportCmd.Flags().IntVar(&supersample, "supersample", export.DefaultSupersample, "render scale before downsampling")

	bandsCmd := &cobra.Command{
		Use:   "bands <file>",
		Short: "chart bass, mid and treble energy over time",
		Args:  cobra.ExactArgs(1),
		RunE:  runBands,
	}
	bandsCmd.Flags().IntVar(&bandsFPS, "fps", 30, "analysis frames per second")
	bandsCmd.Flags().IntVar(&chartWidth, "width", 80, "chart width")
	bandsCmd.Flags().IntVar(&chartHeight, "height", 12, "chart height")

	rootCmd.AddCommand(tuiCmd, exportCmd, bandsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "ferrofluid: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// loadConfig reads the settings file, if any, and applies flags given on the
// command line on top of it.
func loadConfig(cmd *cobra.Command, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Printf("no settings at %s, using defaults", configFile)
		cfg = config.DefaultConfig()
	case err != nil:
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = sensitivity
	}
	if flags.Changed("rotation-speed") {
		cfg.RotationSpeed = rotationSpeed
	}
	if flags.Changed("outline") {
		cfg.ShowOutline = showOutline
	}
	// Round trip through Settings to clamp flag values.
	cfg.Apply(cfg.Settings())
	return cfg, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	g := game.New(game.Options{Config: cfg, ConfigPath: configFile, Logger: logger})
	if len(args) == 1 {
		if err := g.Load(args[0]); err != nil {
			return err
		}
	}
	return game.Run(g)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	m := tui.New(tui.Options{Config: cfg, ConfigPath: configFile, Logger: logger})
	if len(args) == 1 {
		if err := m.Load(args[0]); err != nil {
			return err
		}
	}
	return tui.Run(m)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := export.File(ctx, args[0], export.Options{
		Dir:         outDir,
		FPS:         exportFPS,
		Width:       width,
		Height:      height,
		Points:      cfg.Points,
		Supersample: supersample,
		Frames:      frames,
		Settings:    cfg.Settings(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", res.Frames, res.Dir)
	return nil
}

func runBands(cmd *cobra.Command, args []string) error {
	b, err := report.File(args[0], bandsFPS)
	if err != nil {
		return err
	}
	return report.Render(os.Stdout, b, chartWidth, chartHeight)
}
