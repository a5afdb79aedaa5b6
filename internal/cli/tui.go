package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/document"
	"github.com/matzehuels/jsongraph/pkg/edit"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// tuiCommand creates the tui command, an interactive node browser with an
// edit modal.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the document graph interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, closeStore, err := c.openHandle(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			m := newBrowserModel(ctx, h, c.cfg.Edit.Collection, c.Logger)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// List and modal styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listEditableStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Key Bindings
// =============================================================================

type browserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Edit   key.Binding
	Save   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Cancel key.Binding
	Copy   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var browserKeys = browserKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "open")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/close")),
	Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return listDimStyle.Render(strings.Join(parts, "  "))
}

// =============================================================================
// browserModel - Node list with edit modal
// =============================================================================

// browserModel lists the graph nodes and shows the selected node in a modal.
type browserModel struct {
	ctx        context.Context
	handle     *document.Handle
	collection string
	logger     *log.Logger
	copy       func(string) error

	graph  *graph.Graph
	memo   *render.Memo
	cursor int
	offset int
	height int

	session *edit.Session
	modal   bool
	inputs  []textinput.Model
	focus   int
	note    edit.Notification
	status  string
}

func newBrowserModel(ctx context.Context, h *document.Handle, collection string, logger *log.Logger) browserModel {
	return browserModel{
		ctx:        ctx,
		handle:     h,
		collection: collection,
		logger:     logger,
		copy:       clipboard.WriteAll,
		graph:      h.Graph(ctx),
		memo:       render.NewMemo(),
		height:     15,
		session:    edit.NewSession(collection, logger),
	}
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
		return m, nil

	case tea.KeyMsg:
		if !m.modal {
			return m.updateList(msg)
		}
		if m.session.Editing() {
			return m.updateEditing(msg)
		}
		return m.updateModal(msg)
	}
	return m, nil
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, browserKeys.Quit), key.Matches(msg, browserKeys.Cancel):
		return m, tea.Quit
	case key.Matches(msg, browserKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.offset = min(m.offset, m.cursor)
		}
	case key.Matches(msg, browserKeys.Down):
		if m.cursor < len(m.graph.Nodes)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case key.Matches(msg, browserKeys.Reload):
		m = m.reload()
	case key.Matches(msg, browserKeys.Open):
		if m.cursor < len(m.graph.Nodes) {
			m.session.Open(&m.graph.Nodes[m.cursor])
			m.modal = true
			m.note = edit.Notification{}
			m.status = ""
		}
	}
	return m, nil
}

func (m browserModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, browserKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, browserKeys.Cancel):
		m.session.Close()
		m.modal = false
	case key.Matches(msg, browserKeys.Copy):
		if err := m.copy(m.session.PathText()); err != nil {
			m.logger.Debug("clipboard unavailable", "err", err)
			m.status = "Copy failed"
		} else {
			m.status = "Copied to clipboard"
		}
	case key.Matches(msg, browserKeys.Edit):
		if err := m.session.BeginEdit(); err != nil {
			m.status = "This node has no editable fields"
			return m, nil
		}
		m.note = edit.Notification{}
		m.status = ""
		cmd := m.buildInputs()
		return m, cmd
	}
	return m, nil
}

func (m browserModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, browserKeys.Cancel):
		m.session.Cancel()
		m.inputs = nil
		return m, nil
	case key.Matches(msg, browserKeys.Save):
		return m.finishSave(m.session.Save(m.ctx, m.handle)), nil
	case key.Matches(msg, browserKeys.Next):
		cmd := m.focusField(m.focus + 1)
		return m, cmd
	case key.Matches(msg, browserKeys.Prev):
		cmd := m.focusField(m.focus - 1)
		return m, cmd
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	fields := m.session.Fields().Fields
	if m.focus < len(fields) {
		_ = m.session.Set(fields[m.focus].Key, m.inputs[m.focus].Value())
	}
	return m, cmd
}

// buildInputs creates one text input per draft field and focuses the first.
func (m *browserModel) buildInputs() tea.Cmd {
	fields := m.session.Fields().Fields
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.Prompt = ""
		in.SetValue(f.Value)
		in.CursorEnd()
		m.inputs[i] = in
	}
	m.focus = 0
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[0].Focus()
}

// focusField moves focus to index i, wrapping around.
func (m *browserModel) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// finishSave shows the notification and, on success, rebuilds the graph
// and reopens the saved node from it.
func (m browserModel) finishSave(note edit.Notification) browserModel {
	m.note = note
	if note.Level != edit.LevelSuccess {
		return m
	}

	m.inputs = nil
	path := m.session.Node().Path
	m.graph = m.handle.Graph(m.ctx)
	if n, ok := m.graph.NodeByPath(path); ok {
		m.session.Open(n)
	}
	return m
}

// reload re-reads the document from its store and rebuilds the graph.
func (m browserModel) reload() browserModel {
	if err := m.handle.Reload(m.ctx); err != nil {
		m.logger.Error("reload failed", "err", err)
		m.status = "Reload failed"
		return m
	}
	m.graph = m.handle.Graph(m.ctx)
	m.memo.Reset()
	m.cursor = min(m.cursor, max(len(m.graph.Nodes)-1, 0))
	m.offset = min(m.offset, m.cursor)
	m.status = "Reloaded revision " + m.handle.Meta().Revision
	return m
}

// =============================================================================
// Views
// =============================================================================

func (m browserModel) View() string {
	if m.modal {
		return m.viewModal()
	}
	return m.viewList()
}

func (m browserModel) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Document Graph"))
	b.WriteString("\n")
	b.WriteString(helpLine(browserKeys.Up, browserKeys.Down, browserKeys.Open, browserKeys.Reload, browserKeys.Quit))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.graph.Nodes))
	for i := m.offset; i < end; i++ {
		n := &m.graph.Nodes[i]
		shape := edit.Classify(n.Path, m.collection)

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		summary := strings.Join(m.memo.Texts(n), ", ")
		if len(summary) > 40 {
			summary = summary[:37] + "..."
		}
		line := fmt.Sprintf("%s%-36s %-7s %s", cursor, jsonpath.Format(n.Path), n.Kind, listDimStyle.Render(summary))

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case shape.Editable():
			b.WriteString(listEditableStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.graph.Nodes))))
	if m.status != "" {
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	return b.String()
}

func (m browserModel) viewModal() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Content"))
	b.WriteString("\n")
	if m.session.Editing() {
		fields := m.session.Fields().Fields
		for i, in := range m.inputs {
			if i >= len(fields) {
				break
			}
			b.WriteString(labelStyle.Render(fields[i].Label))
			b.WriteString("\n")
			b.WriteString(in.View())
			b.WriteString("\n")
		}
	} else {
		b.WriteString(StyleValue.Render(m.session.Content()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("JSON Path"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render(m.session.PathText()))
	b.WriteString("\n")

	switch m.note.Level {
	case edit.LevelSuccess:
		b.WriteString("\n" + StyleSuccess.Render(iconSuccess+" "+m.note.Message) + "\n")
	case edit.LevelError:
		b.WriteString("\n" + errorStyle.Render(iconError+" "+m.note.Message) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.session.Editing():
		b.WriteString(helpLine(browserKeys.Save, browserKeys.Next, browserKeys.Cancel))
	case m.session.Editable():
		b.WriteString(helpLine(browserKeys.Edit, browserKeys.Copy, browserKeys.Cancel))
	default:
		b.WriteString(helpLine(browserKeys.Copy, browserKeys.Cancel))
	}

	return modalStyle.Render(b.String())
}
