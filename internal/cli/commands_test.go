package cli

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mhuebner/videowall/pkg/scene"
)

func TestRunPlanWritesSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	opts := planOpts{width: 1280, height: 720, min: 2, max: 6, seed: 42, output: path}

	if err := runPlan(context.Background(), &cobra.Command{}, &opts); err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	s, err := scene.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if s.Width != 1280 || s.Height != 720 {
		t.Errorf("canvas %dx%d, want 1280x720", s.Width, s.Height)
	}
	if s.Seed != 42 {
		t.Errorf("seed %d, want 42", s.Seed)
	}
}

func TestRunPlanStdout(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	opts := planOpts{width: 640, height: 480, min: 1, max: 3, seed: 7}
	if err := runPlan(context.Background(), cmd, &opts); err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	if _, err := scene.Unmarshal(buf.Bytes()); err != nil {
		t.Errorf("stdout is not a valid scene: %v", err)
	}
}

func TestRunPlanDeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	layoutOf := func(path string) *scene.Scene {
		opts := planOpts{width: 1280, height: 720, min: 3, max: 3, seed: 9, output: path}
		if err := runPlan(context.Background(), &cobra.Command{}, &opts); err != nil {
			t.Fatalf("runPlan: %v", err)
		}
		s, err := scene.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		return s
	}

	a := layoutOf(filepath.Join(dir, "a.json"))
	b := layoutOf(filepath.Join(dir, "b.json"))

	if len(a.Containers) != len(b.Containers) {
		t.Fatalf("container counts differ: %d vs %d", len(a.Containers), len(b.Containers))
	}
	for i := range a.Containers {
		if a.Containers[i] != b.Containers[i] {
			t.Errorf("container %d differs across runs with the same seed", i)
		}
	}
}

func TestRunRenderProducesPNG(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.json")

	pOpts := planOpts{width: 320, height: 240, min: 2, max: 4, seed: 3, output: scenePath}
	if err := runPlan(context.Background(), &cobra.Command{}, &pOpts); err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	output := filepath.Join(dir, "wall.png")
	opts := renderOpts{output: output, workers: 2}
	if err := runRender(context.Background(), scenePath, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestRunRenderDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.json")

	pOpts := planOpts{width: 320, height: 240, min: 1, max: 2, seed: 5, output: scenePath}
	if err := runPlan(context.Background(), &cobra.Command{}, &pOpts); err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	opts := renderOpts{workers: 1}
	if err := runRender(context.Background(), scenePath, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "scene.png")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRunRenderMissingScene(t *testing.T) {
	opts := renderOpts{}
	if err := runRender(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &opts); err == nil {
		t.Error("expected error for missing scene file")
	}
}

func TestAnsiFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range frame.Pix {
		frame.Pix[i] = uint8(i)
	}

	out := ansiFrame(frame, 10, 5)
	lines := bytes.Count([]byte(out), []byte("\n"))
	if lines != 5 {
		t.Errorf("rendered %d lines, want 5", lines)
	}
	if !bytes.Contains([]byte(out), []byte("▀")) {
		t.Error("output contains no half-block characters")
	}

	if got := ansiFrame(frame, 0, 0); got != "" {
		t.Errorf("degenerate terminal size produced output: %q", got)
	}
}
