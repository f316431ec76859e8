package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/drivesim/internal/config"
	"github.com/san-kum/drivesim/internal/control"
	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/experiment"
	"github.com/san-kum/drivesim/internal/observe"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200
)

type TickMsg time.Time

// Model is the interactive driving view. Every tick advances the episode by
// one frame using the action held by the manual controller.
type Model struct {
	cfg      *config.Config
	env      *experiment.Env
	manual   *control.Manual
	seed     int64
	obs      observe.HeadingRelative
	total    float64
	running  bool
	done     bool
	err      error
	canvas   *Canvas
	viewport Viewport
	theme    Theme
	trail    []r2.Vec
	speeds   []float64
	logger   zerolog.Logger
}

type DriveOption func(*Model)

func WithTheme(t Theme) DriveOption {
	return func(m *Model) { m.theme = t }
}

func WithDriveLogger(l zerolog.Logger) DriveOption {
	return func(m *Model) { m.logger = l }
}

func NewModel(cfg *config.Config, seed int64, opts ...DriveOption) (Model, error) {
	m := Model{
		cfg:      cfg,
		manual:   control.NewManual(),
		seed:     seed,
		running:  true,
		canvas:   NewCanvas(width, height),
		viewport: DefaultViewport(),
		theme:    ThemeCyberpunk,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	env, err := experiment.NewEnv(cfg, experiment.WithEnvLogger(m.logger))
	if err != nil {
		return Model{}, err
	}
	m.env = env
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Drive runs the interactive view until the user quits.
func Drive(cfg *config.Config, seed int64, opts ...DriveOption) error {
	m, err := NewModel(cfg, seed, opts...)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) / m.cfg.FPS)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w", "up":
			m.manual.Throttle(m.manual.Pedal() + 1)
		case "s", "down":
			m.manual.Throttle(m.manual.Pedal() - 1)
		case "a", "left":
			m.manual.Steer(-control.ManualSteerStep)
		case "d", "right":
			m.manual.Steer(control.ManualSteerStep)
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "n":
			m.seed++
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "t":
			m.theme = m.theme.next()
		}
	case TickMsg:
		if m.running && !m.done {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	obs, err := m.env.Reset(m.seed)
	if err != nil {
		return err
	}
	m.manual.Reset()
	m.obs = obs
	m.total = 0
	m.done = false
	m.trail = m.trail[:0]
	m.speeds = m.speeds[:0]
	return nil
}

func (m *Model) step() error {
	s := m.env.State()
	a := m.manual.Compute(s, m.elapsed())
	tr, err := m.env.Step(a)
	if err != nil {
		return err
	}
	m.obs = tr.Observation
	m.total += tr.Reward
	m.done = tr.Terminated || tr.Truncated

	v := m.env.State().Vehicle
	m.trail = appendCapped(m.trail, v.Position(), trailCapacity)
	m.speeds = appendCapped(m.speeds, v.Speed, historyCapacity)

	if m.done {
		m.logger.Info().
			Int64("seed", m.seed).
			Float64("reward", m.total).
			Int("frames", m.env.Frames()).
			Msg("episode finished")
	}
	return nil
}

func appendCapped[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

func (m Model) elapsed() float64 {
	return float64(m.env.Frames()) / m.cfg.FPS
}

// Done reports whether the episode has ended.
func (m Model) Done() bool { return m.done }

// TotalReward is the reward collected since the last reset.
func (m Model) TotalReward() float64 { return m.total }

func (m Model) View() string {
	st := m.theme.styles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	state := m.env.State()
	v := state.Vehicle

	status := "DRIVING"
	switch {
	case m.done:
		status = "EPISODE OVER (r/n to restart)"
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(st.status.Render(status) + "\n\n")
	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs / %.0fs", m.elapsed(), m.cfg.Duration))
	row("Position", fmt.Sprintf("(%.0f, %.0f)", v.X, v.Y))
	row("Speed", fmt.Sprintf("%.1f", v.Speed))
	row("Heading", fmt.Sprintf("%.1f°", v.Heading*180/math.Pi))
	row("Steer", fmt.Sprintf("%.0f°", m.manual.SteerDegrees()))
	row("Throttle", pedalLabel(m.manual.Pedal()))
	row("Markers", fmt.Sprintf("%d", len(state.Rewards)))
	row("Target", fmt.Sprintf("%.0f @ %.1f°", m.obs.Distance, m.obs.Angle*180/math.Pi))
	s.WriteString(st.label.Render("Reward") + st.reward.Render(fmt.Sprintf("%.1f", m.total)) + "\n")

	s.WriteString(st.help.Render("─────────────────────\nW/S:Throttle A/D:Steer\nSP:Pause R:Reset N:New T:Theme Q:Quit"))
	if m.err != nil {
		s.WriteString("\n" + st.status.Render(m.err.Error()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

func pedalLabel(p int) string {
	switch {
	case p > 0:
		return "forward"
	case p < 0:
		return "reverse"
	}
	return "coast"
}

// draw renders the arena: markers as capture circles, the trail as dots and
// the car as a body line with its front wheel.
func (m *Model) draw() {
	c, vp := m.canvas, m.viewport
	c.Clear()

	state := m.env.State()
	radius := vp.Scale(c, m.cfg.Limits.CaptureRadius)
	for _, mk := range state.Rewards {
		x, y := vp.Project(c, mk.Position)
		c.DrawCircle(x, y, radius)
		c.Set(x, y)
	}

	for _, p := range m.trail {
		x, y := vp.Project(c, p)
		c.Set(x, y)
	}

	v := state.Vehicle
	rear := v.Position()
	front := r2.Add(rear, r2.Scale(v.Wheelbase, dynamo.HeadingVec(v.Heading)))
	rx, ry := vp.Project(c, rear)
	fx, fy := vp.Project(c, front)
	c.DrawLine(rx, ry, fx, fy)

	steer := dynamo.ClampAbs(m.manual.SteerDegrees()*math.Pi/180, m.cfg.Limits.MaxSteerAngle)
	wheel := r2.Add(front, r2.Scale(v.Wheelbase/3, dynamo.HeadingVec(v.Heading+steer)))
	wx, wy := vp.Project(c, wheel)
	c.DrawLine(fx, fy, wx, wy)
}
