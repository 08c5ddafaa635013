package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/causalab/internal/experiment"
)

var pipelineStages = []string{
	"sampling",
	"simulating",
	"flattening",
	"tracing",
	"discovering",
	"scoring",
}

type tickMsg time.Time

type stageMsg string

type doneMsg struct {
	res *experiment.PipelineResult
	err error
}

// LiveModel drives a pipeline run from the terminal, showing stage
// progress while it executes and the recovery report when it finishes.
type LiveModel struct {
	cfg experiment.Config
	reg *experiment.Registry

	msgs    chan tea.Msg
	reached map[string]bool
	current string
	frame   int

	done bool
	res  *experiment.PipelineResult
	err  error
}

func NewLiveModel(cfg experiment.Config, reg *experiment.Registry) LiveModel {
	return LiveModel{
		cfg:     cfg,
		reg:     reg,
		msgs:    make(chan tea.Msg, len(pipelineStages)+1),
		reached: make(map[string]bool),
	}
}

func (m LiveModel) Init() tea.Cmd {
	go func() {
		p := experiment.NewPipeline(m.cfg, m.reg)
		p.Progress = func(stage string) {
			m.msgs <- stageMsg(stage)
		}
		res, err := p.Run(context.Background())
		m.msgs <- doneMsg{res: res, err: err}
	}()

	return tea.Batch(m.wait(), tick())
}

func (m LiveModel) wait() tea.Cmd {
	return func() tea.Msg { return <-m.msgs }
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/12, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()

	case stageMsg:
		m.current = string(msg)
		m.reached[m.current] = true
		return m, m.wait()

	case doneMsg:
		m.done = true
		m.res = msg.res
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m LiveModel) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("causalab · %s · %s", m.cfg.Model, m.cfg.Integrator)))
	b.WriteString("\n")

	for _, stage := range pipelineStages {
		switch {
		case m.done && m.err == nil:
			b.WriteString(StatusDone.Render("  ✓ "))
			b.WriteString(ValueStyle.Render(stage))
		case stage == m.current && !m.done:
			b.WriteString(StatusRunning.Render("  " + Spinner(m.frame) + " "))
			b.WriteString(ValueStyle.Render(stage))
		case m.reached[stage]:
			b.WriteString(StatusDone.Render("  ✓ "))
			b.WriteString(ValueStyle.Render(stage))
		default:
			b.WriteString(Subtle.Render("  · " + stage))
		}
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(StatusError.Render("error: " + m.err.Error()))
			b.WriteString("\n")
		} else {
			b.WriteString(RenderReport(m.res.Report))
			b.WriteString("\n")
			b.WriteString(HeaderStyle.Render("recovered"))
			b.WriteString("\n")
			b.WriteString(RenderEdges(m.res.Recovered.Graph))
		}
	}

	b.WriteString(Subtle.Render("\nq quit"))
	return b.String()
}
