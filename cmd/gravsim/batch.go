package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

var (
	mcTrials       int
	mcPerturbation float64
	mcSeed         int64
	mcWorkers      int

	optParams   []string
	optMetric   string
	optMaximize bool
)

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if script.Name != "" {
		fmt.Fprintln(out, header(script.Name))
	}
	total := len(script.Steps)
	opts := experiment.Options{Logger: log.WithField("script", script.Name)}
	_, err = automation.RunScript(ctx, script, experiment.NewRegistry(), opts,
		func(i int, step automation.Step, cfg *config.Config, result *sim.Result) error {
			name := step.SaveAs
			if name == "" {
				name = step.Preset
			}
			runID, err := st.Save(storage.NewRunInfo(cfg, name), result)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "step %d/%d: %s -> %s (%d steps, %d events)\n",
				i+1, total, cfg.Model, runID, result.StepsTaken, len(result.Events))
			return nil
		})
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, _, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarlo{
		Base:         base,
		Perturbation: mcPerturbation,
		Trials:       mcTrials,
		Workers:      mcWorkers,
		Seed:         mcSeed,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	trials, err := mc.Run(ctx, experiment.NewRegistry(), experiment.Options{Logger: log.WithField("model", base.Model)})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTABLE\tEVENTS\tENERGY DRIFT\tMIN SEP")
	for _, tr := range trials {
		events := 0
		drift, sep := "-", "-"
		if tr.Result != nil {
			events = len(tr.Result.Events)
			drift = metric(tr.Result, "energy_drift")
			sep = metric(tr.Result, "min_separation")
		}
		fmt.Fprintf(w, "%d\t%t\t%d\t%s\t%s\n", tr.ID, tr.Stable, events, drift, sep)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nstable: %.1f%% of %d trials\n", 100*automation.StableFraction(trials), len(trials))
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	base, _, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if len(optParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	params := make([]optim.Param, len(optParams))
	for i, spec := range optParams {
		if params[i], err = optim.ParseParam(spec); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	best, err := optim.NewGridSearch(params, optMaximize).Search(ctx, base, experiment.NewRegistry(), optMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, header("best "+optMetric))
	for _, p := range params {
		fmt.Fprintf(out, "  %s = %.6g\n", p.Name, best.Values[p.Name])
	}
	fmt.Fprintf(out, "  %s: %.6g (%d runs)\n", optMetric, best.Score, best.Runs)
	return nil
}
