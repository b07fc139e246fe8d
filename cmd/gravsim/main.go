package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	collision  string
	gravConst  float64
	speedUp    float64
	report     int

	log = logrus.New()
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "gravitational n-body and bounce simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "log level (debug, info, warning, error)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&report, "report", 0, "print positions every n steps (0 disables)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data as json or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, svg)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period, phase portrait and lyapunov analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeBody, "body", "", "body to analyze (default first)")
	analyzeCmd.Flags().StringVar(&analyzeOther, "other", "", "second body for separation (default second)")
	analyzeCmd.Flags().IntVar(&lyapunovSteps, "lyapunov", 0, "estimate the lyapunov exponent over n steps (0 skips)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation in the terminal (preset menu without a model)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "space", "colour theme")

	guiCmd := &cobra.Command{
		Use:   "gui [model]",
		Short: "run simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	scenarioFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a family of simulations varying one initial velocity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepBody, "body", "", "body whose velocity varies (default first)")
	sweepCmd.Flags().IntVar(&sweepAxis, "axis", 1, "velocity component to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 5, "number of runs")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 4, "parallel runs")

	scriptCmd := &cobra.Command{
		Use:   "script <file>",
		Short: "run every step of a yaml script and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	mcCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run perturbed copies of a scenario and report how many stay bound",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	scenarioFlags(mcCmd)
	mcCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&mcPerturbation, "perturb", 1, "maximum start position offset")
	mcCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")
	mcCmd.Flags().IntVar(&mcWorkers, "workers", 4, "parallel trials")

	optCmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "grid search scenario parameters for the best metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	scenarioFlags(optCmd)
	optCmd.Flags().StringArrayVar(&optParams, "param", nil, "parameter range name=from:to:n (repeatable)")
	optCmd.Flags().StringVar(&optMetric, "metric", "energy_drift", "metric to optimize")
	optCmd.Flags().BoolVar(&optMaximize, "maximize", false, "maximize instead of minimize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, liveCmd, guiCmd, presetsCmd, sweepCmd, scriptCmd, mcCmd, optCmd)
	return rootCmd
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&collision, "collision", config.DefaultCollision, "collision mode (none, freeze, sticky)")
	cmd.Flags().Float64Var(&gravConst, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&speedUp, "speed", config.DefaultSpeedUp, "simulation speed-up")
}

func setupLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	return nil
}

// loadScenario resolves the configuration for a command: the preset (or
// the model's default preset), then the config file, then any flag set on
// the command line.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	model := config.ModelGravity2D
	if len(args) > 0 {
		model = args[0]
	}
	if _, ok := config.Presets[model]; !ok {
		return nil, "", fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownModel, model, config.ListModels())
	}

	name := preset
	if name == "" {
		name = config.DefaultPresets[model]
	}
	cfg := config.GetPreset(model, name)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(model))
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && loaded.Model != model {
			return nil, "", fmt.Errorf("config %s is for model %s, not %s", configFile, loaded.Model, model)
		}
		cfg = loaded
		if preset == "" {
			name = ""
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("collision") {
		cfg.Collision = collision
	}
	if flags.Changed("g") {
		cfg.G = gravConst
	}
	if flags.Changed("speed") {
		cfg.SpeedUp = speedUp
	}
	if flags.Changed("report") {
		cfg.ReportEvery = report
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	log.WithFields(logrus.Fields{
		"model":  cfg.Model,
		"preset": name,
		"bodies": len(cfg.Bodies),
	}).Debug("scenario loaded")
	return cfg, name, nil
}

func header(s string) string { return headerStyle.Render(s) }
