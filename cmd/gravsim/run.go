package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

var (
	sweepBody    string
	sweepAxis    int
	sweepFrom    float64
	sweepTo      float64
	sweepRuns    int
	sweepWorkers int
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	opts := experiment.Options{Logger: log.WithField("model", cfg.Model), Report: out}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), opts); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "running %s simulation...\n", cfg.Model)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	st := storage.New(dataDir)
	runID, err := st.Save(storage.NewRunInfo(cfg, name), result)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "events: %d\n", len(result.Events))
	printMetrics(out, result.Metrics)
	return runErr
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\n"+header("metrics"))
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, metrics[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, name, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	body := sweepBody
	if body == "" {
		body = base.BodyName(0)
	}
	cfgs, err := experiment.Variations(base, body, sweepAxis, sweepFrom, sweepTo, sweepRuns)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := sim.Sweep(ctx, len(cfgs), sweepWorkers, func(i int) (sim.Runner, error) {
		logger := log.WithFields(logrus.Fields{"model": base.Model, "run": i})
		return reg.Build(cfgs[i], experiment.Options{Logger: logger})
	})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tVALUE\tEVENTS\tENERGY DRIFT\tMIN SEP\tSTABILITY")
	for i, result := range results {
		runID, err := st.Save(storage.NewRunInfo(cfgs[i], name), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.4g\t%d\t%s\t%s\t%s\n",
			runID,
			cfgs[i].Bodies[bodyIndex(cfgs[i], body)].Velocity[sweepAxis],
			len(result.Events),
			metric(result, "energy_drift"),
			metric(result, "min_separation"),
			metric(result, "stability"),
		)
	}
	return w.Flush()
}

func bodyIndex(cfg *config.Config, name string) int {
	for i := range cfg.Bodies {
		if cfg.BodyName(i) == name {
			return i
		}
	}
	return -1
}

func metric(r *sim.Result, name string) string {
	v, ok := r.Metrics[name]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}
