package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"propguard/internal/pipeline"
)

// maxRows caps the file list; the rest is summarized in one line.
const maxRows = 12

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool

	finished int
	problems int
	// recent holds indexes of finished files, newest last
	recent []int
}

type fileItem struct {
	path     string
	status   string
	stage    pipeline.Stage
	problems int
	finished bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress per
// file. files must use the same paths the driver puts into events.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// прерывание только скрывает прогресс, линтер доработает сам
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d/%d files, %d %s\n\n", m.finished, len(m.items), m.problems, plural(m.problems, "problem")))

	const statusWidth = 12
	nameWidth := m.width - statusWidth - 12
	if nameWidth < 20 {
		nameWidth = 20
	}

	rows := m.visibleRows()
	for _, idx := range rows {
		item := m.items[idx]
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %s", status, truncate(item.path, nameWidth))
		if item.finished && item.problems > 0 {
			line += problemStyle.Render(fmt.Sprintf("  %d", item.problems))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hidden := len(m.items) - len(rows); hidden > 0 {
		b.WriteString(fmt.Sprintf("  ... and %d more\n", hidden))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

var problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// visibleRows returns the item indexes to draw. Long lists show the files in
// progress first, then the most recently finished ones, then the queue.
func (m *progressModel) visibleRows() []int {
	if len(m.items) <= maxRows {
		rows := make([]int, len(m.items))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, maxRows)
	for i, item := range m.items {
		if len(rows) == maxRows {
			return rows
		}
		if !item.finished && item.status != "queued" {
			rows = append(rows, i)
		}
	}
	for i := len(m.recent) - 1; i >= 0 && len(rows) < maxRows; i-- {
		rows = append(rows, m.recent[i])
	}
	// добиваем очередью, чтобы высота не прыгала
	for i, item := range m.items {
		if len(rows) == maxRows {
			break
		}
		if item.status == "queued" {
			rows = append(rows, i)
		}
	}
	return rows
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.finished {
		return nil
	}
	if label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	// файл, не прочитанный с диска, дальше загрузки не пойдёт
	final := ev.Status == pipeline.StatusCached ||
		(ev.Stage == pipeline.StageLint && (ev.Status == pipeline.StatusDone || ev.Status == pipeline.StatusError)) ||
		(ev.Stage == pipeline.StageLoad && ev.Status == pipeline.StatusError)
	if final {
		item.finished = true
		item.problems = ev.Problems
		m.finished++
		m.problems += ev.Problems
		m.recent = append(m.recent, idx)
	}

	total := 0.0
	for _, it := range m.items {
		if it.finished {
			total += 1.0
		} else {
			total += progressFromStage(it.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage pipeline.Stage) float64 {
	switch stage {
	case pipeline.StageLoad:
		return 0.1
	case pipeline.StageParse:
		return 0.3
	case pipeline.StageBind:
		return 0.6
	case pipeline.StageLint:
		return 0.8
	default:
		return 0.0
	}
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusCached:
		return "cached"
	case pipeline.StatusDone:
		if stage == pipeline.StageLint {
			return "done"
		}
		return stageLabel(stage)
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageParse:
		return "parsing"
	case pipeline.StageBind:
		return "binding"
	case pipeline.StageLint:
		return "linting"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "parsing", "binding", "linting":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
