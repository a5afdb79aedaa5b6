package edit

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/observability"
)

// User-facing save messages.
const (
	MsgSaved      = "Changes saved successfully!"
	MsgSaveFailed = "Error saving changes. Please try again."
)

// Applier replaces the value at a path of the owned document.
// Modify calls fn with the current value at p and stores what it returns;
// the read and the write happen under one lock.
type Applier interface {
	Modify(ctx context.Context, p jsonpath.Path, fn func(existing any) (any, error)) error
}

// Level is the severity of a notification.
type Level int

// Notification levels. LevelNone means nothing should be shown.
const (
	LevelNone Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// Notification is the single user-facing result of a save.
// Cause carries the underlying error for diagnostics and is never shown
// to the user.
type Notification struct {
	Level   Level
	Message string
	Cause   error
}

// IsZero reports whether there is nothing to show.
func (n Notification) IsZero() bool { return n.Level == LevelNone }

// Session is the state of one open node. It is not safe for concurrent use;
// a host owns one session per open node.
type Session struct {
	collection string
	logger     *log.Logger

	node     *graph.Node
	shape    Shape
	original FieldSet
	draft    FieldSet
	editing  bool
}

// NewSession creates a session for the given collection key. A nil logger
// uses the default charm logger.
func NewSession(collection string, logger *log.Logger) *Session {
	if collection == "" {
		collection = DefaultCollection
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{collection: collection, logger: logger}
}

// Open selects n, classifies it and loads its fields. Edit mode is reset.
// Opening nil closes the session.
func (s *Session) Open(n *graph.Node) {
	s.editing = false
	if n == nil {
		s.node = nil
		s.shape = ShapeNone
		s.original, s.draft = FieldSet{}, FieldSet{}
		return
	}

	node := *n
	s.node = &node
	s.shape = Classify(node.Path, s.collection)
	s.original = FieldsFor(s.shape, node.Rows)
	s.draft = s.original.Clone()
	s.logger.Debug("opened node", "id", node.ID, "path", jsonpath.Format(node.Path), "shape", s.shape)
}

// Node returns the open node, or nil.
func (s *Session) Node() *graph.Node { return s.node }

// Shape returns the shape of the open node.
func (s *Session) Shape() Shape { return s.shape }

// Editable reports whether the open node can be edited.
func (s *Session) Editable() bool { return s.node != nil && s.shape.Editable() }

// Editing reports whether edit mode is on.
func (s *Session) Editing() bool { return s.editing }

// BeginEdit turns edit mode on. It fails with ErrCodeNotEditable for nodes
// without fields.
func (s *Session) BeginEdit() error {
	if !s.Editable() {
		return errs.New(errs.ErrCodeNotEditable, "node %s is not editable", s.PathText())
	}
	s.editing = true
	return nil
}

// Fields returns a copy of the draft fields.
func (s *Session) Fields() FieldSet { return s.draft.Clone() }

// Original returns a copy of the values loaded from the rows or last saved.
func (s *Session) Original() FieldSet { return s.original.Clone() }

// Set updates one draft field. Edit mode must be on and key must be one of
// the node's fields.
func (s *Session) Set(key, value string) error {
	if !s.editing {
		return errs.New(errs.ErrCodeNotEditable, "not in edit mode")
	}
	if !s.draft.Set(key, value) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown field %q for %s node", key, s.shape)
	}
	return nil
}

// Cancel discards the drafts and leaves edit mode.
func (s *Session) Cancel() {
	s.draft = s.original.Clone()
	s.editing = false
}

// Close leaves edit mode. The document is not touched and the drafts are
// kept until the next Open.
func (s *Session) Close() {
	s.editing = false
}

// Content returns the read-only content view of the open node.
func (s *Session) Content() string {
	if s.node == nil {
		return Normalize(nil)
	}
	return Normalize(s.node.Rows)
}

// PathText returns the open node's path in bracket notation.
func (s *Session) PathText() string {
	if s.node == nil {
		return jsonpath.Format(nil)
	}
	return jsonpath.Format(s.node.Path)
}

// Save merges the drafts over the node's current value and applies the
// result through doc.
//
// Nodes without fields leave edit mode and produce no notification. On
// success the drafts become the originals and edit mode ends. On failure
// the document is unchanged, the drafts and edit mode are kept, and the
// error is logged with its cause.
func (s *Session) Save(ctx context.Context, doc Applier) Notification {
	if !s.Editable() {
		s.editing = false
		return Notification{}
	}

	path := s.node.Path
	fields := s.draft.Values()
	pathText := s.PathText()

	start := time.Now()
	observability.Edit().OnSaveStart(ctx, s.shape.String(), pathText)
	err := doc.Modify(ctx, path, func(existing any) (any, error) {
		return Merge(existing, fields), nil
	})
	observability.Edit().OnSaveComplete(ctx, s.shape.String(), pathText, time.Since(start), err)

	if err != nil {
		s.logger.Error("Error saving changes", "path", pathText, "shape", s.shape, "code", errs.GetCode(err), "err", err)
		return Notification{Level: LevelError, Message: MsgSaveFailed, Cause: err}
	}

	s.original = s.draft.Clone()
	s.editing = false
	s.logger.Debug("saved node", "path", pathText, "shape", s.shape, "fields", len(fields))
	return Notification{Level: LevelSuccess, Message: MsgSaved}
}
