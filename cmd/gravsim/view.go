package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

var theme string

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		return viz.RunPicker(presetChoices(), buildChoice, viz.WithTheme(theme))
	}

	runner, title, err := scenarioRunner(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(runner, title, viz.WithTheme(theme))
}

func runGUI(cmd *cobra.Command, args []string) error {
	runner, title, err := scenarioRunner(cmd, args)
	if err != nil {
		return err
	}
	log.WithField("title", title).Info("opening window")
	return gui.Run(cmd.Context(), runner, title)
}

// scenarioRunner builds a runner for the interactive views. Console
// reporting stays off: it would write over the screen.
func scenarioRunner(cmd *cobra.Command, args []string) (sim.Runner, string, error) {
	cfg, name, err := loadScenario(cmd, args)
	if err != nil {
		return nil, "", err
	}
	cfg.ReportEvery = 0
	runner, err := experiment.NewRegistry().Build(cfg, experiment.Options{})
	if err != nil {
		return nil, "", err
	}
	title := cfg.Model
	if name != "" {
		title += "/" + name
	}
	return runner, title, nil
}

func presetChoices() []viz.Choice {
	var choices []viz.Choice
	for _, model := range config.ListModels() {
		for _, name := range config.ListPresets(model) {
			cfg := config.GetPreset(model, name)
			choices = append(choices, viz.Choice{
				Name: model + "/" + name,
				Info: fmt.Sprintf("%d bodies, %s", len(cfg.Bodies), cfg.Integrator),
			})
		}
	}
	return choices
}

// buildChoice builds the runner for a "model/preset" menu entry.
func buildChoice(choice string) (sim.Runner, error) {
	model, name, ok := strings.Cut(choice, "/")
	if !ok {
		return nil, fmt.Errorf("invalid choice: %s", choice)
	}
	if _, known := config.Presets[model]; !known {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, model)
	}
	cfg := config.GetPreset(model, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", choice)
	}
	return experiment.NewRegistry().Build(cfg, experiment.Options{})
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := config.ListModels()
	if len(args) > 0 {
		if _, ok := config.Presets[args[0]]; !ok {
			return fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownModel, args[0], models)
		}
		models = args[:1]
	}

	out := cmd.OutOrStdout()
	for _, model := range models {
		fmt.Fprintln(out, header(model))
		for _, name := range config.ListPresets(model) {
			marker := " "
			if config.DefaultPresets[model] == name {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, name)
		}
	}
	return nil
}
