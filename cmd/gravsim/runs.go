package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

const (
	maxPlots    = 6
	perturbSize = 1e-6
)

var (
	exportFormat string
	exportOut    string

	analyzeBody   string
	analyzeOther  string
	lyapunovSteps int
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPRESET\tTIME\tSTEPS\tDT\tINTEG\tCOLL")
	for _, run := range runs {
		preset := run.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\t%s\t%s\n",
			run.ID,
			run.Model,
			preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Collision,
		)
	}
	return w.Flush()
}

// loadRun loads the run named by args, or the newest run.
func loadRun(args []string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	runID := ""
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = latest.ID
	}
	return st.LoadResult(runID)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("run %s: no data to plot", meta.ID)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, header("run "+meta.ID))
	fmt.Fprintf(out, "model: %s\n", meta.Model)
	fmt.Fprintf(out, "samples: %d\n\n", len(result.States))

	bodies := analysis.Bodies(result)
	if len(bodies) >= 2 {
		sep, err := analysis.Separation(result, bodies[0], bodies[1])
		if err == nil {
			plot(out, sep, fmt.Sprintf("separation %s-%s", bodies[0], bodies[1]))
		}
	}

	plotted := 0
	for _, body := range bodies {
		pos, err := analysis.Position(result, body)
		if err != nil {
			continue
		}
		for axis, series := range pos {
			if plotted == maxPlots {
				return nil
			}
			plot(out, series, fmt.Sprintf("%s.%c vs time", body, "xyz"[axis]))
			plotted++
		}
	}
	return nil
}

func plot(w io.Writer, data []float64, caption string) {
	if len(data) == 0 {
		return
	}
	fmt.Fprintln(w, asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Fprintln(w)
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		if exportOut == "" {
			return storage.WriteJSON(out, meta, result)
		}
		err = storage.ExportJSON(exportOut, meta, result)
	case "svg":
		colors := make(map[string]string, len(meta.Bodies))
		for _, b := range meta.Bodies {
			if b.Color != "" {
				colors[b.Name] = b.Color
			}
		}
		svg := export.TrajectorySVG(analysis.Trajectories(result), colors, 1600, 900)
		if svg == "" {
			return fmt.Errorf("run %s: no trajectories to export", meta.ID)
		}
		if exportOut == "" {
			return export.WriteSVG(out, "", svg)
		}
		err = export.WriteSVG(nil, exportOut, svg)
	default:
		return fmt.Errorf("unknown export format: %s (available: json, svg)", exportFormat)
	}
	if err != nil {
		return err
	}
	log.WithField("path", exportOut).Info("run exported")
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args)
	if err != nil {
		return err
	}
	bodies := analysis.Bodies(result)
	if len(bodies) == 0 {
		return fmt.Errorf("run %s: no bodies recorded", meta.ID)
	}
	out := cmd.OutOrStdout()

	body := analyzeBody
	if body == "" {
		body = bodies[0]
	}
	other := analyzeOther
	if other == "" && len(bodies) > 1 {
		for _, b := range bodies {
			if b != body {
				other = b
				break
			}
		}
	}

	fmt.Fprintln(out, header("analysis "+meta.ID))
	fmt.Fprintf(out, "model: %s\n\n", meta.Model)

	series, caption, err := analysisSeries(result, body, other)
	if err != nil {
		return err
	}
	plot(out, series, caption)

	if len(result.Times) > 1 {
		sampleDt := result.Times[1] - result.Times[0]
		period, err := analysis.DominantPeriod(series, sampleDt)
		if err != nil {
			fmt.Fprintf(out, "dominant period: %v\n", err)
		} else {
			fmt.Fprintf(out, "dominant period (%s): %.3f s\n", caption, period)
		}
	}

	portrait, err := analysis.PhasePortrait(result, body+".x", body+".vx")
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, header(fmt.Sprintf("phase portrait %s.x / %s.vx", body, body)))
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, 60, 20))

	if lyapunovSteps > 0 {
		lambda, err := lyapunov(meta, result, body)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nlyapunov exponent (%d steps): %.4f\n", lyapunovSteps, lambda)
	}
	return nil
}

// analysisSeries picks the separation of body and other, or the height of
// body when there is no other.
func analysisSeries(result *sim.Result, body, other string) ([]float64, string, error) {
	if other != "" {
		sep, err := analysis.Separation(result, body, other)
		if err != nil {
			return nil, "", err
		}
		return sep, fmt.Sprintf("separation %s-%s", body, other), nil
	}
	pos, err := analysis.Position(result, body)
	if err != nil {
		return nil, "", err
	}
	return pos[1], body + ".y", nil
}

// lyapunov rebuilds the stored run twice, shifts body along x in the second
// copy and measures how fast the two diverge.
func lyapunov(meta *storage.RunMetadata, result *sim.Result, body string) (float64, error) {
	cfg, err := storage.Scenario(meta, result)
	if err != nil {
		return 0, err
	}
	perturbed := cfg.Clone()
	idx := bodyIndex(perturbed, body)
	if idx < 0 {
		return 0, fmt.Errorf("no body %q in run %s", body, meta.ID)
	}
	perturbed.Bodies[idx].Position[0] += perturbSize

	reg := experiment.NewRegistry()
	a, err := reg.Build(cfg, experiment.Options{})
	if err != nil {
		return 0, err
	}
	b, err := reg.Build(perturbed, experiment.Options{})
	if err != nil {
		return 0, err
	}
	return analysis.LyapunovExponent(a, b, cfg.DynamoConfig().StepDt(), lyapunovSteps)
}
