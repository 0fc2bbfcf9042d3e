package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"popupkit/internal/popup"
	"popupkit/internal/trace"
)

// drainTickMsg asks the model to run the deferred queue: the next
// processing turn for anything scheduled during the previous dispatch.
type drainTickMsg struct{}

func drainTick() tea.Msg { return drainTickMsg{} }

// keyMap declares the demo's keyboard bindings for the help footer.
type keyMap struct {
	DismissAll key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DismissAll, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.DismissAll}, {k.Help, k.Quit}}
}

var defaultKeys = keyMap{
	DismissAll: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss popups"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the demo's Bubble Tea root.
type Model struct {
	host   *Host
	keys   keyMap
	help   help.Model
	width  int
	height int
}

// NewModel creates the demo model. rec may be nil to disable tracing.
func NewModel(rec *trace.Recorder) Model {
	return Model{
		host: NewHost(rec),
		keys: defaultKeys,
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Mouse input feeds the host adapter; after
// any dispatch, work deferred to the next turn is flushed through a
// self-posted drain message rather than inline, which is what keeps
// dismissal out of the originating handler's call stack.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.host.Layout(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.DismissAll):
			for _, b := range m.host.Buttons {
				if b.IsDropDownOpen() {
					m.host.Coordinator.RaiseDismiss(b, popup.DismissAlways)
				}
			}
			return m, m.drainIfPending()
		}
		return m, nil

	case tea.MouseMsg:
		m.host.HandleMouse(msg)
		return m, m.drainIfPending()

	case drainTickMsg:
		m.host.Queue.Drain()
		return m, m.drainIfPending()
	}
	return m, nil
}

func (m Model) drainIfPending() tea.Cmd {
	if m.host.Queue.Len() == 0 {
		return nil
	}
	return drainTick
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	c := NewCanvas(m.width, m.height)

	c.DrawText(2, 0, "popupkit demo: click a button, click away, right-click a menu", StyleTitle)

	for _, b := range m.host.Buttons {
		style := StyleButton
		if b.IsDropDownOpen() {
			style = StyleButtonOpen
		}
		bb := b.Bounds()
		c.DrawRow(bb.X, bb.Y, bb.W, "  "+b.Label, style)
	}

	for _, b := range m.host.Buttons {
		if !b.IsDropDownOpen() {
			continue
		}
		for _, it := range b.Menu().Items() {
			style := StyleMenu
			if it.Index == b.Selected {
				style = StyleMenuSelected
			}
			ib := it.Bounds()
			c.DrawRow(ib.X, ib.Y, ib.W, " "+it.Label, style)
		}
	}

	if m.host.Ctx.Visible() {
		cb := m.host.Ctx.Bounds()
		for i, label := range m.host.Ctx.Items {
			c.DrawRow(cb.X, cb.Y+i, cb.W, " "+label, StyleContextMenu)
		}
	}

	m.drawStatus(c)

	helpView := m.help.View(m.keys)
	c.DrawText(2, m.height-1, helpView, StyleHint)

	return c.Render()
}

// drawStatus renders capture/popup state and the latest dismissal
// decisions so the engine's behavior is visible while clicking around.
func (m Model) drawStatus(c *Canvas) {
	y := m.height - 6
	if y < 4 {
		return
	}
	c.DrawText(2, y, fmt.Sprintf("capture: %s", ElementName(m.host.Capture.Holder())), StyleStatus)
	var flags []string
	for _, b := range m.host.Buttons {
		flags = append(flags, fmt.Sprintf("%s[open=%t menu=%t sel=%d]",
			b.Label, b.IsDropDownOpen(), b.IsContextMenuOpened(), b.Selected))
	}
	c.DrawText(2, y+1, strings.Join(flags, "  "), StyleStatus)

	traces := m.host.Recorder.Recent()
	for i := 0; i < 2 && i < len(traces); i++ {
		t := traces[len(traces)-1-i]
		c.DrawText(2, y+2+i, summarizeTrace(t), StyleStatus)
	}
}

// summarizeTrace flattens a dispatch trace into one status line.
func summarizeTrace(t *trace.DispatchTrace) string {
	if t == nil || t.RootSpan == nil {
		return ""
	}
	var decisions []string
	collectDecisions(t.RootSpan, &decisions)
	line := t.RootSpan.Name
	if len(decisions) > 0 {
		line += " -> " + strings.Join(decisions, ", ")
	}
	return line
}

func collectDecisions(s *trace.Span, out *[]string) {
	if v, ok := s.Attributes["decision"]; ok {
		*out = append(*out, v)
	}
	for _, child := range s.Children {
		collectDecisions(child, out)
	}
}
