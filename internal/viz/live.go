package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fieldtex/internal/sim"
)

const historyCapacity = 600

var (
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(60)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type FrameStartMsg struct {
	Frame  int
	Frames int
	Clock  float64
}

type RowMsg sim.RowProgress

type FrameDoneMsg sim.FrameReport

// DoneMsg ends the live view with the render's outcome.
type DoneMsg struct {
	Result *sim.Result
	Err    error
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgressObserver forwards simulator events to a Bubble Tea program.
type ProgressObserver struct {
	p Sender
}

func NewProgressObserver(p Sender) *ProgressObserver {
	return &ProgressObserver{p: p}
}

func (o *ProgressObserver) OnFrameStart(frame, frames int, clock float64) {
	o.p.Send(FrameStartMsg{Frame: frame, Frames: frames, Clock: clock})
}

func (o *ProgressObserver) OnRowDone(p sim.RowProgress) { o.p.Send(RowMsg(p)) }

func (o *ProgressObserver) OnFrameDone(r sim.FrameReport) { o.p.Send(FrameDoneMsg(r)) }

// Model is the live progress view.
type Model struct {
	title    string
	metric   string
	cancel   context.CancelFunc
	frame    int
	frames   int
	clock    float64
	rowsDone int
	rows     int
	tick     int
	last     sim.FrameReport
	history  []float64
	started  time.Time
	done     bool
	result   *sim.Result
	err      error
	showHelp bool
}

// NewModel builds a view titled title that charts metric. cancel is called
// when the user quits before the render finishes.
func NewModel(title, metric string, cancel context.CancelFunc) Model {
	return Model{
		title:   title,
		metric:  metric,
		cancel:  cancel,
		history: make([]float64, 0, historyCapacity),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.done {
			return m, nil
		}
		m.tick++
		return m, tick()
	case FrameStartMsg:
		m.frame, m.frames, m.clock = msg.Frame, msg.Frames, msg.Clock
		m.rowsDone = 0
	case RowMsg:
		m.rowsDone, m.rows = msg.Done, msg.Rows
	case FrameDoneMsg:
		m.last = sim.FrameReport(msg)
		if v, ok := msg.Metrics[m.metric]; ok {
			if len(m.history) == historyCapacity {
				m.history = m.history[1:]
			}
			m.history = append(m.history, v)
		}
	case DoneMsg:
		m.done = true
		m.result, m.err = msg.Result, msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) Result() (*sim.Result, error) { return m.result, m.err }

func (m Model) Done() bool { return m.done }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n\n")

	switch {
	case m.done && m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.done:
		s.WriteString(StatusRunning.Render("DONE") + "\n\n")
	default:
		s.WriteString(StatusRunning.Render(AnimatedSpinner(m.tick)+" RENDERING") + "\n\n")
	}

	frames := max(m.frames, 1)
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", m.frame+1, m.frames)) + "\n")
	s.WriteString(labelStyle.Render("") + ProgressBar(float64(m.frame)/float64(frames), 30) + "\n")
	rows := max(m.rows, 1)
	s.WriteString(labelStyle.Render("Rows") + valueStyle.Render(fmt.Sprintf("%d/%d", m.rowsDone, m.rows)) + "\n")
	s.WriteString(labelStyle.Render("") + ProgressBar(float64(m.rowsDone)/float64(rows), 30) + "\n")
	s.WriteString(labelStyle.Render("Clock") + valueStyle.Render(fmt.Sprintf("%.4f", m.clock)) + "\n")
	s.WriteString(labelStyle.Render("Elapsed") + valueStyle.Render(time.Since(m.started).Round(100*time.Millisecond).String()) + "\n")

	if len(m.last.Metrics) > 0 {
		s.WriteString("\nMETRICS\n")
		s.WriteString(FormatMetrics(m.last.Metrics) + "\n")
	}
	if len(m.history) > 1 {
		s.WriteString(graphStyle.Render(PlotMetric(m.history, m.metric, 40, 4)) + "\n")
	} else if len(m.history) == 1 {
		s.WriteString(SparklineChart(m.history, 40) + "\n")
	}

	s.WriteString(helpStyle.Render("Q:Cancel ?:Help"))
	view := statsStyle.Render(s.String())
	if m.showHelp {
		return KeyHint.Render("Q / Ctrl+C  cancel the render and discard remaining frames\n?          toggle this help") + "\n\n" + view
	}
	return view
}

// RunLive renders with s in the background while a Bubble Tea program shows
// progress. Quitting the view cancels the render.
func RunLive(ctx context.Context, s *sim.Simulator, sink sim.FrameSink, title, metric string) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, metric, cancel))
	s.AddObserver(NewProgressObserver(p))

	done := make(chan DoneMsg, 1)
	go func() {
		res, err := s.Run(ctx, sink)
		done <- DoneMsg{Result: res, Err: err}
		p.Send(DoneMsg{Result: res, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}

	cancel()
	out := <-done
	return out.Result, out.Err
}
