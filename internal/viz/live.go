package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hawkgs/snow/internal/config"
	"github.com/hawkgs/snow/internal/metrics"
	"github.com/hawkgs/snow/internal/sim"
)

const historyCapacity = 240

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the scheduling and rendering collaborator: it paces frames at the
// configured rate, invokes exactly one population tick per frame, and draws
// the resulting particle snapshot onto the braille canvas.
type Model struct {
	cfg    *config.Config
	forces config.Forces // live-tuned copy of cfg.Forces
	pop    *sim.Population
	canvas *Canvas

	count   *metrics.Count
	resting *metrics.RestingFraction
	speed   *metrics.MeanFallSpeed

	popHistory []float64
	paused     bool
	selected   int
	showHelp   bool
	err        error
}

var paramKeys = []string{"gravity", "drag", "wind"}

// NewModel wires a population from the merged config and sizes the canvas to
// the configured surface (one cell is 2x4 sub-pixels).
func NewModel(cfg *config.Config) (Model, error) {
	pop, err := sim.FromConfig(cfg)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		cfg:     cfg,
		forces:  cfg.Forces,
		pop:     pop,
		canvas:  NewCanvas(int(cfg.Width)/2, int(cfg.Height)/4),
		count:   metrics.NewCount(),
		resting: metrics.NewRestingFraction(),
		speed:   metrics.NewMeanFallSpeed(),
	}
	pop.AddMetric(m.count)
	pop.AddMetric(m.resting)
	pop.AddMetric(m.speed)
	return m, nil
}

// Run drives the bubbletea program until quit and surfaces any tick error.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m Model) Init() tea.Cmd { return m.tickCmd() }

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.pop.Reset()
			m.popHistory = m.popHistory[:0]
			m.forces = m.cfg.Forces
			m.applyForces()
		case "tab":
			m.selected = (m.selected + 1) % len(paramKeys)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if !m.paused {
			if err := m.pop.Tick(time.Time(msg)); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.popHistory = append(m.popHistory, float64(m.pop.Len()))
			if len(m.popHistory) > historyCapacity {
				m.popHistory = m.popHistory[1:]
			}
		}
		return m, m.tickCmd()
	}
	return m, nil
}

// adjustParam tunes the selected force constant and swaps the registry
// between ticks. Gravity and drag scale; wind shifts additively so it can
// cross zero.
func (m *Model) adjustParam(dir int) {
	switch paramKeys[m.selected] {
	case "gravity":
		m.forces.Gravity *= scaleFactor(dir)
	case "drag":
		m.forces.Drag *= scaleFactor(dir)
	case "wind":
		m.forces.Wind.X += 0.01 * float64(dir)
	}
	m.applyForces()
}

func (m *Model) applyForces() {
	registry, err := sim.BuildRegistry(m.forces)
	if err != nil {
		return
	}
	m.pop.SetRegistry(registry)
}

func scaleFactor(dir int) float64 {
	if dir > 0 {
		return 1.05
	}
	return 0.95
}

// draw renders the current particle snapshot. Flakes are discs scaled by
// size, faint flakes collapse to a single dot; rain drops are streaks along
// their velocity; resting particles are dots on the floor.
func (m *Model) draw() {
	m.canvas.Clear()
	rain := m.cfg.Mode == config.ModeRain

	for _, p := range m.pop.Particles() {
		x := int(math.Round(p.Location.X))
		y := int(math.Round(p.Location.Y))

		switch {
		case p.AtRest:
			m.canvas.Set(x, y)
		case rain:
			sx := x - int(math.Round(p.Velocity.X*2))
			sy := y - int(math.Round(p.Velocity.Y*2))
			m.canvas.DrawLine(sx, sy, x, y)
		case p.Translucency < 0.5:
			m.canvas.Set(x, y)
		default:
			m.canvas.DrawDisc(x, y, int(p.Size/2))
		}
	}
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("simulation failed: %v\n", m.err)
	}

	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Mode)) + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.popHistory) > 1 {
		chart := asciigraph.Plot(m.popHistory,
			asciigraph.Height(4),
			asciigraph.Width(28),
			asciigraph.Caption("population"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.pop.Len())) + "\n")
	s.WriteString(labelStyle.Render("Resting") + valueStyle.Render(fmt.Sprintf("%.0f%%", m.resting.Value()*100)) + "\n")
	s.WriteString(labelStyle.Render("Fall speed") + valueStyle.Render(fmt.Sprintf("%.2f px/tick", m.speed.Value())) + "\n")
	s.WriteString(labelStyle.Render("Intensity") + valueStyle.Render(fmt.Sprintf("%d/tick", m.cfg.Intensity)) + "\n")

	s.WriteString("\nFORCES\n")
	values := []float64{m.forces.Gravity, m.forces.Drag, m.forces.Wind.X}
	for i, key := range paramKeys {
		line := fmt.Sprintf("%-8s %+.3f", key, values[i])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Force ↑↓:Tune ?:Help"))
	statsView := statsStyle.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset population         ║
║  Q        - Quit                     ║
║  Tab      - Cycle force constants    ║
║  Up/K     - Increase selected force  ║
║  Down/J   - Decrease selected force  ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
