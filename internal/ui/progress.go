package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"recast/internal/driver"
)

// maxVisible caps the file rows drawn; the rest are summarised.
const maxVisible = 20

const statusWidth = 12

// fileState is one row: what the file is doing now, or how it ended.
type fileState struct {
	label string
	// weight is the share of the file's work already done, 0..1.
	weight float64
	final  bool
	color  lipgloss.Color
}

var (
	stateQueued  = fileState{label: "queued", color: "7"}
	stateDone    = fileState{label: "done", weight: 1, final: true, color: "2"}
	stateChanged = fileState{label: "changed", weight: 1, final: true, color: "3"}
	stateCached  = fileState{label: "cached", weight: 1, final: true, color: "4"}
	stateError   = fileState{label: "error", weight: 1, final: true, color: "1"}

	working = map[driver.Stage]fileState{
		driver.StageLoad:    {label: "loading", color: "6"},
		driver.StageParse:   {label: "parsing", weight: 0.2, color: "6"},
		driver.StageRewrite: {label: "rewriting", weight: 0.5, color: "6"},
		driver.StagePrint:   {label: "printing", weight: 0.8, color: "6"},
	}
)

// stateFor maps a driver event to a row state; ok is false for events
// that do not change what is shown.
func stateFor(ev driver.Event) (fileState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusWorking:
		st, ok := working[ev.Stage]
		return st, ok
	case driver.StatusCached:
		return stateCached, true
	case driver.StatusError:
		return stateError, true
	case driver.StatusDone:
		if ev.Changes > 0 {
			return stateChanged, true
		}
		return stateDone, true
	}
	return fileState{}, false
}

type fileItem struct {
	path  string
	state fileState
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that draws one row per file
// as driver events arrive on events. The model quits when events is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		index:   make(map[string]int),
		width:   80,
	}
}

// Finished reports whether m saw the end of its event stream, as opposed to
// being quit early by the user.
func Finished(m tea.Model) bool {
	pm, ok := m.(*progressModel)
	return ok && pm.done
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	i, ok := m.index[ev.File]
	if !ok {
		i = len(m.items)
		m.items = append(m.items, fileItem{path: ev.File, state: stateQueued})
		m.index[ev.File] = i
	}
	if st, ok := stateFor(ev); ok {
		m.items[i].state = st
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		sum += it.state.weight
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s (%d files)", m.title, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range visibleItems(m.items) {
		status := lipgloss.NewStyle().Foreground(it.state.color).Render(fmt.Sprintf("%*s", statusWidth, it.state.label))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(it.path, nameWidth))
	}
	if hidden := len(m.items) - maxVisible; hidden > 0 {
		fmt.Fprintf(&b, "  %*s %d more\n", statusWidth, "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	if tally := m.tally(); tally != "" {
		b.WriteString(tally + "\n")
	}
	return b.String()
}

// tally counts finished files by outcome, e.g. "2 changed, 1 cached".
func (m *progressModel) tally() string {
	counts := map[string]int{}
	for _, it := range m.items {
		if it.state.final {
			counts[it.state.label]++
		}
	}
	var parts []string
	for _, st := range []fileState{stateChanged, stateDone, stateCached, stateError} {
		if n := counts[st.label]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st.label))
		}
	}
	return strings.Join(parts, ", ")
}

// visibleItems keeps in-flight files on screen ahead of finished ones.
func visibleItems(items []fileItem) []fileItem {
	if len(items) <= maxVisible {
		return items
	}
	out := make([]fileItem, 0, maxVisible)
	for _, it := range items {
		if !it.state.final && len(out) < maxVisible {
			out = append(out, it)
		}
	}
	for i := len(items) - 1; i >= 0 && len(out) < maxVisible; i-- {
		if items[i].state.final {
			out = append(out, items[i])
		}
	}
	return out
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
