package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsongraph/pkg/document"
	"github.com/matzehuels/jsongraph/pkg/edit"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

const tuiDoc = `{
  "fruits": [
    {
      "name": "Apple",
      "color": "#FF0000",
      "details": {"type": "pome", "season": "fall"},
      "nutrients": {"calories": 52}
    }
  ]
}`

func newTestBrowser(t *testing.T) (browserModel, *document.MemoryStore, *document.Handle) {
	t.Helper()
	ctx := context.Background()
	store := document.NewMemoryStore(tuiDoc)
	logger := log.New(io.Discard)
	h, err := document.Load(ctx, store, logger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return newBrowserModel(ctx, h, edit.DefaultCollection, logger), store, h
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m browserModel, msgs ...tea.Msg) browserModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(browserModel)
	}
	return m
}

// openAt moves the cursor to the node at p and opens the modal.
func openAt(t *testing.T, m browserModel, p jsonpath.Path) browserModel {
	t.Helper()
	for i := range m.graph.Nodes {
		if m.graph.Nodes[i].Path.Equal(p) {
			m.cursor = i
			return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		}
	}
	t.Fatalf("no node at %s", jsonpath.Format(p))
	return m
}

func TestBrowserNavigation(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"), tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	if !strings.Contains(m.View(), `$["fruits"]`) {
		t.Error("list view does not show node paths")
	}
}

func TestBrowserEditAndSave(t *testing.T) {
	m, _, h := newTestBrowser(t)
	m = openAt(t, m, jsonpath.MustOf("fruits", 0))
	if !m.modal || m.session.Shape() != edit.ShapeFruit {
		t.Fatalf("modal = %v shape = %v, want open fruit", m.modal, m.session.Shape())
	}

	m = press(t, m, runes("e"))
	if !m.session.Editing() || len(m.inputs) != 2 {
		t.Fatalf("editing = %v inputs = %d, want true 2", m.session.Editing(), len(m.inputs))
	}
	if got := m.inputs[0].Value(); got != "Apple" {
		t.Errorf("inputs[0] = %q, want Apple", got)
	}

	m = press(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyBackspace}, runes("1"))
	if got, _ := m.session.Fields().Value("name"); got != "Apples" {
		t.Errorf("draft name = %q, want Apples", got)
	}
	if got, _ := m.session.Fields().Value("color"); got != "#FF0001" {
		t.Errorf("draft color = %q, want #FF0001", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.note.Level != edit.LevelSuccess || m.note.Message != edit.MsgSaved {
		t.Errorf("note = %+v, want success", m.note)
	}
	if m.session.Editing() {
		t.Error("still editing after successful save")
	}
	got, _ := h.Resolve(jsonpath.MustOf("fruits", 0, "name"))
	if got != "Apples" {
		t.Errorf("saved name = %v, want Apples", got)
	}
	if !strings.Contains(m.View(), edit.MsgSaved) {
		t.Error("modal does not show the success notification")
	}
}

func TestBrowserCancelRestoresOriginals(t *testing.T) {
	m, store, _ := newTestBrowser(t)
	m = openAt(t, m, jsonpath.MustOf("fruits", 0, "details"))
	m = press(t, m, runes("e"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.session.Editing() {
		t.Error("still editing after esc")
	}
	if got, _ := m.session.Fields().Value("type"); got != "pome" {
		t.Errorf("type = %q, want pome", got)
	}
	if store.Writes() != 0 {
		t.Errorf("writes = %d, want 0", store.Writes())
	}
	if !m.modal {
		t.Error("modal closed by cancel, want it open")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal {
		t.Error("modal still open after second esc")
	}
}

func TestBrowserSaveStalePath(t *testing.T) {
	ctx := context.Background()
	m, store, h := newTestBrowser(t)
	m = openAt(t, m, jsonpath.MustOf("fruits", 0))
	m = press(t, m, runes("e"), runes("!"))

	if err := store.SetText(ctx, `{"fruits": []}`, document.Meta{Revision: "external"}); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if err := h.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.note.Level != edit.LevelError || m.note.Message != edit.MsgSaveFailed {
		t.Errorf("note = %+v, want error", m.note)
	}
	if !m.session.Editing() {
		t.Error("edit mode left after failed save")
	}
	if got, _ := m.session.Fields().Value("name"); got != "Apple!" {
		t.Errorf("draft name = %q, want Apple! kept", got)
	}
	if h.Text() != `{"fruits": []}` {
		t.Errorf("document changed on failed save: %s", h.Text())
	}
}

func TestBrowserNotEditable(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	m = openAt(t, m, jsonpath.Path{})
	m = press(t, m, runes("e"))
	if m.session.Editing() {
		t.Error("root node entered edit mode")
	}
	if m.status == "" {
		t.Error("no status shown for non-editable node")
	}
}

func TestBrowserCopyPath(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	m = openAt(t, m, jsonpath.MustOf("fruits", 0, "nutrients"))
	m = press(t, m, runes("y"))

	if want := `$["fruits"][0]["nutrients"]`; copied != want {
		t.Errorf("copied = %q, want %q", copied, want)
	}
	if m.status != "Copied to clipboard" {
		t.Errorf("status = %q", m.status)
	}
}

func TestBrowserReload(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestBrowser(t)
	m.cursor = len(m.graph.Nodes) - 1

	if err := store.SetText(ctx, `{"a": 1}`, document.Meta{Revision: "r2"}); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	m = press(t, m, runes("r"))
	if len(m.graph.Nodes) != 1 {
		t.Errorf("len(nodes) = %d, want 1", len(m.graph.Nodes))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}
