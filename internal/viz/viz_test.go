package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/sim"
)

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if !c.IsSet(0, 0) {
		t.Error("expected pixel set")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected braille dot 1, got %U", c.Grid[0][0])
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.DrawLine(0, 7, 7, 7)
	for x := 0; x < 8; x++ {
		if !c.IsSet(x, 7) {
			t.Errorf("line pixel %d not set", x)
		}
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear should reset pixels")
	}
	if got := strings.Count(c.String(), "\n"); got != 1 {
		t.Errorf("expected 2 rows, got %d newlines", got)
	}
}

func TestCameraProjectsCenterToMiddle(t *testing.T) {
	cam := NewCamera()
	cam.Center = mgl32.Vec3{1, 2, 3}

	x, y, _, ok := cam.Project(mgl32.Vec3{1, 2, 3}, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("expected (80,48) visible, got (%d,%d) %v", x, y, ok)
	}

	// Screen y grows downward.
	_, below, _, _ := cam.Project(mgl32.Vec3{1, 1, 3}, 160, 96)
	if below <= 48 {
		t.Errorf("point below center should project lower, got y=%d", below)
	}
}

func TestCameraFit(t *testing.T) {
	f := sim.Frame{Chains: []sim.ChainFrame{{
		Positions:   []mgl32.Vec3{{0, 0, 0}, {0, -2, 0}, {0, -4, 0}},
		RestLengths: []float32{2, 2},
	}}}
	cam := NewCamera()
	cam.Fit(f)

	sw, sh := 160, 96
	for _, p := range f.Chains[0].Positions {
		if _, _, _, ok := cam.Project(p, sw, sh); !ok {
			t.Errorf("fitted camera should show %v", p)
		}
	}
}

func TestChainWireframe(t *testing.T) {
	f := sim.Frame{Chains: []sim.ChainFrame{
		{Positions: []mgl32.Vec3{{0, 0, 0}, {0, -1, 0}, {0, -2, 0}}},
		{Positions: []mgl32.Vec3{{2, 0, 0}, {2, -1, 0}}},
	}}
	w := ChainWireframe(f, 0.1)
	// Two marker edges per root plus the links.
	if len(w.Edges) != 2*2+3 {
		t.Errorf("expected 7 edges, got %d", len(w.Edges))
	}
}

func TestModelStepsAndQuits(t *testing.T) {
	cfg := config.GetPreset("pendulum")
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if m.manual == nil {
		t.Fatal("driverless config should get the manual driver")
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(Model)
	if len(m.history) != 2 {
		t.Errorf("expected 2 frames after one tick, got %d", len(m.history))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.manual.Offset().X() <= 0 {
		t.Error("right arrow should move the roots along +X")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	m = next.(Model)
	if m.solver.Iterations != 2 {
		t.Errorf("expected 2 iterations after cycling, got %d", m.solver.Iterations)
	}

	if view := m.View(); !strings.Contains(view, "PAUSED") {
		t.Error("view should show paused status")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty text should render empty")
	}
	if GradientText("a", "#000000", "#ffffff") == "" {
		t.Error("single rune should render")
	}
}
