package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/control"
	"github.com/san-kum/chainsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	gifPath         = "chainsim.gif"
)

var iterationSteps = []int{1, 2, 4, 8, 16, 32}

type TickMsg time.Time

// Model is the live view of a running chain world.
type Model struct {
	cfg      *config.Config
	solver   *sim.Solver
	driver   control.Driver
	manual   *control.Manual
	t        float64
	canvas   *Canvas
	camera   *Camera
	running  bool
	frame    int
	history  []sim.Frame
	stretch  []float64
	playHead int
	err      error

	recording bool
	frames    []*image.Paletted
	showHelp  bool
}

// NewModel builds the configured world. A config without a driver gets the
// manual driver so the arrow keys can move the roots.
func NewModel(cfg *config.Config) (Model, error) {
	c := *cfg
	if c.Driver.Kind == "" || c.Driver.Kind == "none" {
		c.Driver.Kind = "manual"
	}

	m := Model{
		cfg:      &c,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(),
		running:  true,
		history:  make([]sim.Frame, 0, historyCapacity),
		stretch:  make([]float64, 0, historyCapacity),
		playHead: -1,
	}
	if err := m.build(); err != nil {
		return Model{}, err
	}
	m.camera.Fit(m.current())
	return m, nil
}

func (m *Model) build() error {
	solver, driver, err := m.cfg.Build()
	if err != nil {
		return err
	}
	solver.DriveRoots()
	m.solver, m.driver = solver, driver
	m.manual, _ = driver.(*control.Manual)
	m.t = 0
	m.err = nil
	m.history = m.history[:0]
	m.stretch = m.stretch[:0]
	m.playHead = -1
	m.record(solver.Frame(0))
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.build(); err != nil {
				m.err = err
			}
		case "left":
			m.nudge(mgl32.Vec3{-1, 0, 0})
		case "right":
			m.nudge(mgl32.Vec3{1, 0, 0})
		case "up":
			m.nudge(mgl32.Vec3{0, 1, 0})
		case "down":
			m.nudge(mgl32.Vec3{0, -1, 0})
		case ",":
			m.nudge(mgl32.Vec3{0, 0, -1})
		case ".":
			m.nudge(mgl32.Vec3{0, 0, 1})
		case "i":
			m.cycleIterations()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "f":
			m.camera.Fit(m.current())
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// nudge moves every root by half a link along dir.
func (m *Model) nudge(dir mgl32.Vec3) {
	if m.manual == nil {
		return
	}
	m.manual.Nudge(dir.Mul(float32(m.cfg.Spacing) / 2))
}

func (m *Model) cycleIterations() {
	next := iterationSteps[0]
	for i, n := range iterationSteps {
		if n == m.solver.Iterations {
			next = iterationSteps[(i+1)%len(iterationSteps)]
			break
		}
	}
	m.solver.Iterations = next
}

// step advances the world by one fixed timestep.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	m.driver.Update(m.solver.Points(), m.t)
	if err := m.solver.Tick(float32(m.cfg.Dt)); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.t += m.cfg.Dt
	m.record(m.solver.Frame(m.t))
}

func (m *Model) record(f sim.Frame) {
	m.history = append(m.history, f)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.stretch = append(m.stretch, f.Stretch())
	if len(m.stretch) > historyCapacity {
		m.stretch = m.stretch[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// current is the frame on screen: the replayed one, or the latest.
func (m Model) current() sim.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	if len(m.history) == 0 {
		return sim.Frame{}
	}
	return m.history[len(m.history)-1]
}

func (m *Model) draw() {
	m.canvas.Clear()
	f := m.current()
	Render3D(m.canvas, ChainWireframe(f, float32(m.cfg.Spacing)/4), m.camera)

	sw, sh := m.canvas.Width*2, m.canvas.Height*4
	for _, ch := range f.Chains {
		for _, p := range ch.Positions[1:] {
			if x, y, _, ok := m.camera.Project(p, sw, sh); ok {
				m.canvas.Dot(x, y)
			}
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Chain).Render(m.canvas.String())

	f := m.current()
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.cfg.Name), theme.Title, theme.TitleEnd) + "\n\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.stretch) > 1 {
		chart := asciigraph.Plot(m.stretch, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("max stretch"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(SparklineChart(m.stretch, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Chains", fmt.Sprintf("%d x %d nodes", len(f.Chains), m.cfg.Nodes))
	row("Iterations", fmt.Sprintf("%d", m.solver.Iterations))
	row("Friction", fmt.Sprintf("%.3f", m.cfg.Friction))
	row("Stretch", fmt.Sprintf("%.2f%%", f.Stretch()*100))
	if len(f.Chains) > 0 {
		leaf := f.Chains[0].Leaf()
		row("Leaf", fmt.Sprintf("(%.2f, %.2f, %.2f)", leaf.X(), leaf.Y(), leaf.Z()))
	}
	if m.manual != nil {
		o := m.manual.Offset()
		row("Offset", fmt.Sprintf("(%.2f, %.2f, %.2f)", o.X(), o.Y(), o.Z()))
	} else {
		row("Driver", m.cfg.Driver.Kind)
	}
	if m.err != nil {
		s.WriteString("\n" + StatusRecording.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help\n←→↑↓ , .:Move I:Iterations"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	var status string
	switch {
	case m.playHead != -1:
		back := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (%.1fs)", back))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	default:
		status = StatusRunning.Render(AnimatedSpinner(m.frame) + " RUNNING")
	}
	if m.recording {
		status += "  " + StatusRecording.Render("● REC")
	}
	return status
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rebuild and restart      ║
║  Q        - Quit                     ║
║  Arrows   - Move roots in X/Y        ║
║  , .      - Move roots in Z          ║
║  I        - Cycle relaxation passes  ║
║  [ ]      - Rewind / forward         ║
║  x X y Y  - Rotate camera            ║
║  + -      - Zoom, F to refit         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < m.canvas.Height*4; y++ {
		for x := 0; x < m.canvas.Width*2; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}
