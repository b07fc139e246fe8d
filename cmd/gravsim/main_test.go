package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunListExport(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	out, err := execute(t, "--data", dir, "run", "gravity2d", "--time", "1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("run id: "))
	g.Expect(out).To(ContainSubstring("energy_drift"))

	out, err = execute(t, "--data", dir, "list")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("gravity2d"))
	g.Expect(out).To(ContainSubstring("two-body"))

	out, err = execute(t, "--data", dir, "export")
	g.Expect(err).NotTo(HaveOccurred())
	var data storage.ExportData
	g.Expect(json.Unmarshal([]byte(out), &data)).To(Succeed())
	g.Expect(data.Model).To(Equal("gravity2d"))
	g.Expect(data.Bodies).To(HaveLen(2))

	svgPath := filepath.Join(dir, "run.svg")
	_, err = execute(t, "--data", dir, "export", "--format", "svg", "-o", svgPath)
	g.Expect(err).NotTo(HaveOccurred())
	svg, err := os.ReadFile(svgPath)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(svg)).To(ContainSubstring("<svg"))

	_, err = execute(t, "--data", dir, "export", "--format", "png")
	g.Expect(err).To(MatchError(ContainSubstring("unknown export format")))
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "--data", t.TempDir(), "list")
	NewWithT(t).Expect(err).NotTo(HaveOccurred())
	NewWithT(t).Expect(out).To(ContainSubstring("no runs found"))
}

func TestScenarioPrecedence(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "scene.yaml")
	yaml := "model: gravity2d\nintegrator: leapfrog\ndt: 0.02\nduration: 1\n"
	g.Expect(os.WriteFile(path, []byte(yaml), 0644)).To(Succeed())

	_, err := execute(t, "--data", dir, "run", "--config", path, "--dt", "0.05")
	g.Expect(err).NotTo(HaveOccurred())

	meta, err := storage.New(dir).Latest()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.Integrator).To(Equal("leapfrog"), "file overrides preset")
	g.Expect(meta.Dt).To(Equal(0.05), "flag overrides file")
	g.Expect(meta.Duration).To(Equal(1.0))
	g.Expect(meta.Preset).To(BeEmpty())
	g.Expect(meta.Bodies).To(HaveLen(2), "file without bodies keeps preset bodies")
}

func TestRunReportsCollision(t *testing.T) {
	g := NewWithT(t)

	out, err := execute(t, "--data", t.TempDir(), "run", "--preset", "head-on")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("collision detected: left and right"))
	g.Expect(out).To(ContainSubstring("events: 1"))
	g.Expect(out).NotTo(ContainSubstring("position="), "no position lines without report_every")
}

func TestRunBounceConfigFile(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "bounce.yaml")
	g.Expect(os.WriteFile(path, []byte("model: bounce\nduration: 15\n"), 0644)).To(Succeed())

	out, err := execute(t, "--data", dir, "run", "--config", path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("bounce: ball off floor"))

	meta, err := storage.New(dir).Latest()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.Model).To(Equal("bounce"))
}

func TestUnknownModel(t *testing.T) {
	_, err := execute(t, "--data", t.TempDir(), "run", "pendulum")
	if !errors.Is(err, dynamo.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	_, err := execute(t, "--data", dir, "run", "gravity2d", "--time", "2")
	g.Expect(err).NotTo(HaveOccurred())

	out, err := execute(t, "--data", dir, "analyze", "--lyapunov", "10")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("phase portrait"))
	g.Expect(out).To(ContainSubstring("lyapunov exponent (10 steps)"))
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets", "bounce")
	g := NewWithT(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("drop"))
	g.Expect(out).To(ContainSubstring("throw"))
	g.Expect(out).NotTo(ContainSubstring("two-body"))
}

func TestScriptAndMonteCarlo(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "tour.yaml")
	script := "name: tour\nsteps:\n  - model: gravity2d\n    duration: 1\n    save_as: quick\n  - model: bounce\n    duration: 1\n"
	g.Expect(os.WriteFile(path, []byte(script), 0644)).To(Succeed())

	out, err := execute(t, "--data", dir, "script", path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("step 1/2: gravity2d"))
	g.Expect(out).To(ContainSubstring("step 2/2: bounce"))

	runs, err := storage.New(dir).List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(2))

	out, err = execute(t, "--data", dir, "montecarlo", "--time", "1", "--trials", "3", "--seed", "5")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("stable: 100.0% of 3 trials"))
}

func TestOptimize(t *testing.T) {
	g := NewWithT(t)

	out, err := execute(t, "optimize", "--time", "1", "--param", "planet1.vy=0:20:3", "--metric", "max_speed")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("planet1.vy = 0"))
	g.Expect(out).To(ContainSubstring("(3 runs)"))

	_, err = execute(t, "optimize")
	g.Expect(err).To(MatchError(ContainSubstring("--param")))
}
