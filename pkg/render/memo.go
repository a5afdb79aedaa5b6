package render

import (
	"encoding/json"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

// Memo caches projected row texts per node ID. A cached entry is reused while
// the node's rows are equal by content and its width is unchanged; row slices
// rebuilt from an unchanged document therefore hit the cache.
type Memo struct {
	mu      sync.Mutex
	entries map[string]memoEntry
	hits    int
	misses  int
}

type memoEntry struct {
	rows  []byte
	width float64
	texts []string
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]memoEntry)}
}

// Texts returns Project applied to each row of n.
func (m *Memo) Texts(n *graph.Node) []string {
	rows, err := json.Marshal(n.Rows)
	if err != nil {
		return project(n.Rows)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.entries[n.ID]; ok && prev.width == n.Width && jsonpatch.Equal(prev.rows, rows) {
		m.hits++
		return prev.texts
	}

	m.misses++
	texts := project(n.Rows)
	m.entries[n.ID] = memoEntry{rows: rows, width: n.Width, texts: texts}
	return texts
}

// Stats returns the number of cache hits and misses so far.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Reset drops every cached entry.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

func project(rows []graph.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = Project(r)
	}
	return out
}
