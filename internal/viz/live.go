package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/experiment"
	"github.com/san-kum/mmwave/internal/qmath"
	"github.com/san-kum/mmwave/internal/transition"
)

const (
	frameRate       = 30
	historyCapacity = 400
	// a run plays back in roughly this many frames at the default speed
	playbackFrames = 10 * frameRate
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a pulse experiment frame by frame and charts the level
// populations as they evolve.
type LiveModel struct {
	setup   *experiment.Setup
	title   string
	log     zerolog.Logger
	metrics []dynamo.Metric

	stepper       *dynamo.Stepper
	err           error
	stepsPerFrame int
	every         int
	history       [][]float64

	running  bool
	showHelp bool
	frame    int
	theme    Theme
	styles   Styles
}

type LiveOption func(*LiveModel)

func WithTheme(name string) LiveOption {
	return func(m *LiveModel) { m.theme = GetTheme(name) }
}

func WithTitle(title string) LiveOption {
	return func(m *LiveModel) { m.title = title }
}

// WithMetrics shows live metric values next to the chart.
func WithMetrics(ms ...dynamo.Metric) LiveOption {
	return func(m *LiveModel) { m.metrics = append(m.metrics, ms...) }
}

func WithStepsPerFrame(n int) LiveOption {
	return func(m *LiveModel) { m.stepsPerFrame = max(n, 1) }
}

func NewLiveModel(setup *experiment.Setup, log zerolog.Logger, opts ...LiveOption) (LiveModel, error) {
	if setup == nil {
		return LiveModel{}, experiment.ErrNotSetup
	}
	m := LiveModel{
		setup:   setup,
		title:   "mmwave",
		log:     log.With().Str("component", "live").Logger(),
		running: true,
		theme:   ThemeCyberpunk,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = NewStyles(m.theme)

	total := int(math.Ceil(setup.Config.Duration/setup.Config.Dt)) + len(setup.Schedule.Breakpoints())
	m.every = max(1, (total+historyCapacity-1)/historyCapacity)
	if m.stepsPerFrame == 0 {
		m.stepsPerFrame = max(1, total/playbackFrames)
	}
	if err := m.reset(); err != nil {
		return LiveModel{}, err
	}
	return m, nil
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.stepper.Done() {
				m.running = !m.running
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "enter":
			m.advance(math.MaxInt)
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-", "_":
			m.stepsPerFrame = max(1, m.stepsPerFrame/2)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

// reset rebuilds the simulator from the setup and clears the history.
func (m *LiveModel) reset() error {
	sim := m.setup.Simulator(m.log)
	for _, metric := range m.metrics {
		sim.AddMetric(metric)
	}
	st, err := sim.Stepper(m.setup.X0, m.setup.Config)
	if err != nil {
		return fmt.Errorf("live stepper: %w", err)
	}
	m.stepper = st
	m.err = nil
	m.running = true
	m.history = make([][]float64, m.setup.Levels)
	m.record()
	return nil
}

func (m *LiveModel) advance(n int) {
	if m.stepper.Done() {
		return
	}
	for range n {
		ok, err := m.stepper.Step()
		if err != nil {
			m.err = err
			m.running = false
			m.log.Warn().Err(err).Float64("t", m.stepper.Time()).Msg("live run stopped")
			return
		}
		if !ok {
			m.running = false
			m.record()
			return
		}
		if m.stepper.Steps()%m.every == 0 {
			m.record()
		}
	}
}

func (m *LiveModel) record() {
	pops := m.Populations()
	for i := range m.history {
		if i < len(pops) {
			m.history[i] = append(m.history[i], pops[i])
		}
	}
}

// Populations of the current state, ground level first.
func (m LiveModel) Populations() []float64 {
	x := m.stepper.State()
	if len(x) == 2*m.setup.Levels {
		return qmath.VectorPopulations(x)
	}
	return qmath.Populations(x, m.setup.Levels)
}

func (m LiveModel) Time() float64               { return m.stepper.Time() }
func (m LiveModel) Done() bool                  { return m.stepper.Done() }
func (m LiveModel) Running() bool               { return m.running }
func (m LiveModel) Err() error                  { return m.err }
func (m LiveModel) Theme() Theme                { return m.theme }
func (m LiveModel) StepsPerFrame() int          { return m.stepsPerFrame }
func (m LiveModel) History() [][]float64        { return m.history }
func (m LiveModel) Metrics() map[string]float64 { return m.stepper.Metrics() }

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return m.styles.Low.Bold(true).Render("FAILED")
	case m.stepper.Done():
		return m.styles.Done.Render("DONE")
	case m.running:
		return m.styles.Running.Render(AnimatedSpinner(m.frame) + " RUNNING")
	}
	return m.styles.Paused.Render("PAUSED")
}

func (m LiveModel) drive() []transition.Row {
	u := m.stepper.Control()
	names := []string{"probe", "couple"}
	rows := []transition.Row{
		{Label: "time", Value: fmt.Sprintf("%.2f ns", m.stepper.Time()*1e9)},
		{Label: "steps", Value: fmt.Sprintf("%d", m.stepper.Steps())},
	}
	for i, v := range u {
		label := fmt.Sprintf("u%d", i)
		if i < len(names) {
			label = names[i] + " rabi"
		}
		rows = append(rows, transition.Row{Label: label, Value: fmt.Sprintf("2π × %.3f MHz", v/(2*math.Pi)/1e6)})
	}
	rows = append(rows,
		transition.Row{Label: "delta", Value: fmt.Sprintf("2π × %.3f MHz", m.setup.Drive.Delta/(2*math.Pi)/1e6)},
		transition.Row{Label: "model", Value: m.setup.Model.Description},
	)
	return rows
}

func (m LiveModel) View() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Secondary))
	b.WriteString("  " + m.status() + "\n")
	b.WriteString(st.ProgressBar(m.stepper.Progress(), 40))
	b.WriteString(st.Subtle.Render(fmt.Sprintf(" %3.0f%%  x%d", 100*m.stepper.Progress(), m.stepsPerFrame)) + "\n\n")

	if chart := PlotPopulations(m.history, 60, 12, "populations"); chart != "" {
		b.WriteString(chart + "\n")
		b.WriteString(Legend(m.setup.Levels) + "\n\n")
	}

	side := []string{
		RenderRows("Drive", m.drive(), st),
		st.Panel.Render(RenderPopulations(m.Populations(), st)),
	}
	if len(m.metrics) > 0 {
		side = append(side, RenderMetrics(m.stepper.Metrics(), st))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, side...) + "\n")

	if m.err != nil {
		b.WriteString(st.Low.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.Separator(60) + "\n")
	if m.showHelp {
		b.WriteString(st.Hint.Render(helpText))
	} else {
		b.WriteString(st.Hint.Render("space pause  r reset  enter finish  +/- speed  t theme  ? help  q quit"))
	}
	return b.String()
}

const helpText = `space  pause or resume
r      restart from the initial state
enter  integrate to the end of the run
+ -    double or halve steps per frame
t      cycle colour themes
?      toggle this help
q      quit`
