// Package tui shows a live terminal view of a running integration: a
// plan-view orbit trace, an energy-drift sparkline and the conserved
// quantities.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/symgrad/internal/metrics"
	"github.com/san-kum/symgrad/internal/nbody"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	plotWidth  = 64
	plotHeight = 20
	driftLen   = 120
)

// Model drives the live view; it owns the state and advances it between
// frames.
type Model struct {
	State *nbody.State
	Deriv *nbody.Derivatives
	Pair  [][]bool
	H     float64
	Tmax  float64

	// StepsPerFrame bounds the integration work done per tick.
	StepsPerFrame int

	paused  bool
	done    bool
	steps   int
	energy0 float64
	drift   []float64
	canvas  [][]rune
}

type tickMsg time.Time

func NewModel(s *nbody.State, d *nbody.Derivatives, pair [][]bool, h, tmax float64) *Model {
	canvas := make([][]rune, plotHeight)
	for i := range canvas {
		canvas[i] = make([]rune, plotWidth)
	}
	return &Model{
		State:         s,
		Deriv:         d,
		Pair:          pair,
		H:             h,
		Tmax:          tmax,
		StepsPerFrame: 20,
		energy0:       metrics.Energy(s),
		canvas:        canvas,
	}
}

func (m *Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tickMsg:
		if !m.paused && !m.done {
			for i := 0; i < m.StepsPerFrame && m.State.T[0] < m.Tmax; i++ {
				nbody.Step(m.State, m.Deriv, m.H, m.Pair)
				m.steps++
			}
			if m.State.T[0] >= m.Tmax || !m.State.IsFinite() {
				m.done = true
			}
			if m.energy0 != 0 {
				d := math.Abs((metrics.Energy(m.State) - m.energy0) / m.energy0)
				m.drift = append(m.drift, d)
				if len(m.drift) > driftLen {
					m.drift = m.drift[1:]
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(cyan.Render("symgrad live") + "  " +
		dim.Render(fmt.Sprintf("t=%.3f / %.3f  steps=%d  h=%g", m.State.T[0], m.Tmax, m.steps, m.H)))
	b.WriteString("\n\n")
	b.WriteString(m.orbitView())
	b.WriteString("\n")
	b.WriteString(m.statsView())
	if len(m.drift) > 1 {
		b.WriteString("\n" + dim.Render("relative energy drift") + "\n")
		b.WriteString(asciigraph.Plot(m.drift, asciigraph.Height(6), asciigraph.Width(plotWidth)))
		b.WriteString("\n")
	}
	b.WriteString("\n" + dim.Render("space pause · q quit") + "\n")
	return b.String()
}

// orbitView draws the bodies' x-y positions scaled to the canvas.
func (m *Model) orbitView() string {
	for y := range m.canvas {
		for x := range m.canvas[y] {
			m.canvas[y][x] = ' '
		}
	}
	scale := 0.0
	for i := 0; i < m.State.N; i++ {
		scale = math.Max(scale, math.Abs(m.State.X[3*i]))
		scale = math.Max(scale, math.Abs(m.State.X[3*i+1]))
	}
	if scale == 0 {
		scale = 1
	}
	scale *= 1.2
	for i := 0; i < m.State.N; i++ {
		cx := int((m.State.X[3*i]/scale + 1) / 2 * float64(plotWidth-1))
		cy := int((1 - m.State.X[3*i+1]/scale) / 2 * float64(plotHeight-1))
		if cx >= 0 && cx < plotWidth && cy >= 0 && cy < plotHeight {
			m.canvas[cy][cx] = bodyGlyph(i)
		}
	}
	rows := make([]string, plotHeight)
	for y := range m.canvas {
		rows[y] = string(m.canvas[y])
	}
	return dim.Render(strings.Join(rows, "\n")) + "\n"
}

func bodyGlyph(i int) rune {
	glyphs := []rune{'*', 'o', '+', 'x', '.'}
	return glyphs[i%len(glyphs)]
}

func (m *Model) statsView() string {
	e := metrics.Energy(m.State)
	mom := metrics.Momentum(m.State)
	l := metrics.AngularMomentum(m.State)
	drift := 0.0
	if m.energy0 != 0 {
		drift = math.Abs((e - m.energy0) / m.energy0)
	}
	status := green.Render("finite")
	if !m.State.IsFinite() {
		status = red.Render("NON-FINITE")
	} else if m.done {
		status = yellow.Render("done")
	}
	return fmt.Sprintf("%s  E=%.9g  dE/E=%.2e  |p|=%.2e  |L|=%.4g  %s",
		dim.Render("state:"), e, drift,
		math.Sqrt(mom[0]*mom[0]+mom[1]*mom[1]+mom[2]*mom[2]),
		math.Sqrt(l[0]*l[0]+l[1]*l[1]+l[2]*l[2]),
		status)
}

// Run starts the live view and blocks until it exits.
func Run(s *nbody.State, d *nbody.Derivatives, pair [][]bool, h, tmax float64) error {
	_, err := tea.NewProgram(NewModel(s, d, pair, h, tmax)).Run()
	return err
}
