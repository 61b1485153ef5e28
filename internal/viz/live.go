package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffsim/internal/control"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/sim"
)

const (
	width            = 60
	height           = 20
	historyCapacity  = 600
	maxStepsPerFrame = 64
	manualIncrement  = 0.05
	paramNudge       = 0.05
)

type TickMsg time.Time

// Model is the live view. Each TickMsg advances the simulator by
// stepsPerFrame calls to Step, so the wall clock paces the simulation
// without changing its results.
type Model struct {
	sim    *sim.Simulator
	manual *control.Manual
	title  string

	canvas        *Canvas
	frameInterval time.Duration
	stepsPerFrame int
	maxSteps      int
	running       bool
	showHelp      bool
	err           error

	last      dynamo.Sample
	leftHist  []float64
	rightHist []float64
	params    map[string]float64
	paramKeys []string
	selected  int
}

type Option func(*Model)

// WithManual routes the arrow keys to a manual control law.
func WithManual(m *control.Manual) Option {
	return func(mod *Model) { mod.manual = m }
}

// WithMaxSteps pauses the view once the simulator has taken n steps.
func WithMaxSteps(n int) Option {
	return func(m *Model) { m.maxSteps = n }
}

func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) { m.frameInterval = d }
}

func WithStepsPerFrame(n int) Option {
	return func(m *Model) { m.stepsPerFrame = max(1, min(n, maxStepsPerFrame)) }
}

func NewModel(s *sim.Simulator, title string, opts ...Option) Model {
	m := Model{
		sim:           s,
		title:         title,
		canvas:        NewCanvas(width, height),
		frameInterval: time.Second / 30,
		stepsPerFrame: 3,
		running:       true,
		leftHist:      make([]float64, 0, historyCapacity),
		rightHist:     make([]float64, 0, historyCapacity),
		params:        make(map[string]float64),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if c, ok := s.Law().(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			m.params[k] = v
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
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
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "tab":
			m.cycleParam()
		case "k":
			m.adjustParam(1.05)
		case "j":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		case "up", "down", "left", "right", "s":
			m.drive(msg.String())
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) drive(key string) {
	if m.manual == nil {
		return
	}
	d := manualIncrement
	switch key {
	case "up":
		m.manual.Nudge(d, d)
	case "down":
		m.manual.Nudge(-d, -d)
	case "left":
		m.manual.Nudge(-d, d)
	case "right":
		m.manual.Nudge(d, -d)
	case "s":
		m.manual.Stop()
	}
}

// advance takes up to n simulator steps, stopping at maxSteps or on error.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if m.maxSteps > 0 && m.sim.Steps() >= m.maxSteps {
			m.running = false
			return
		}
		sample, err := m.sim.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.record(sample)
	}
}

func (m *Model) record(s dynamo.Sample) {
	m.last = s
	m.leftHist = appendCapped(m.leftHist, s.LeftSpeed)
	m.rightHist = appendCapped(m.rightHist, s.RightSpeed)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	cur := m.params[key]
	newVal := cur * factor
	if cur == 0 {
		// scaling cannot leave zero
		newVal = math.Copysign(paramNudge, factor-1)
	}
	if c, ok := m.sim.Law().(dynamo.Configurable); ok {
		if err := c.SetParam(key, newVal); err != nil {
			m.err = err
			return
		}
	}
	m.params[key] = newVal
}

// draw renders the XY path and a short heading marker at the robot.
func (m *Model) draw() {
	m.canvas.Clear()

	traj := m.sim.Trajectory()
	st := m.sim.Robot().State()
	xs := append(traj.Column(func(s dynamo.Sample) float64 { return s.X }), st.X)
	ys := append(traj.Column(func(s dynamo.Sample) float64 { return s.Y }), st.Y)

	b := FitBounds(xs, ys, 0.05)
	m.canvas.Plot(xs, ys, b)

	r := (b.MaxX - b.MinX) * 0.04
	hx, hy := m.canvas.ToPixel(st.X+r*math.Cos(st.Heading), st.Y+r*math.Sin(st.Heading), b)
	px, py := m.canvas.ToPixel(st.X, st.Y, b)
	m.canvas.DrawLine(px, py, hx, hy)
}

func (m Model) View() string {
	st := newStyles(CurrentTheme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := st.running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.paused.Render("STOPPED: " + m.err.Error())
	case !m.running:
		status = st.paused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  x%d\n", status, m.stepsPerFrame))

	if len(m.leftHist) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.leftHist, m.rightHist},
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
			asciigraph.Caption("wheel speed (ticks/s)"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	pose := m.sim.Robot().State()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("X, Y", fmt.Sprintf("%.1f, %.1f mm", pose.X*1000, pose.Y*1000))
	row("Heading", fmt.Sprintf("%.2f°", pose.Heading*180/math.Pi))
	row("Distance", fmt.Sprintf("%.1f mm", pose.CurvDistance*1000))
	s.WriteString(st.label.Render("Left cmd") + st.left.Render(CommandBar(m.last.LeftCmd, 20)) + fmt.Sprintf(" %+.2f\n", m.last.LeftCmd))
	s.WriteString(st.label.Render("Right cmd") + st.right.Render(CommandBar(m.last.RightCmd, 20)) + fmt.Sprintf(" %+.2f\n", m.last.RightCmd))

	if len(m.paramKeys) > 0 {
		s.WriteString("\nPARAMETERS\n")
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-10s %.3f", k, m.params[k])
			if i == m.selected {
				s.WriteString(st.activeParam.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + st.label.Render(line) + "\n")
			}
		}
	}

	help := "SP:Pause N:Step +/-:Speed T:Theme Q:Quit"
	if len(m.paramKeys) > 0 {
		help += "\nTab:Param J/K:Tune"
	}
	if m.manual != nil {
		help += "\n←↑↓→:Drive S:Stop"
	}
	s.WriteString(st.help.Render(help))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step when paused  ║
║  + / -    - Steps per frame          ║
║  Tab      - Cycle parameters         ║
║  K / J    - Parameter +5% / -5%      ║
║  Arrows   - Drive (manual control)   ║
║  S        - Stop (manual control)    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Simulator exposes the driven simulator, e.g. to save the run on exit.
func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) Err() error { return m.err }
