// Package reorder moves layers within a stack that only supports push and pop.
//
// Every reorder is a three-phase transaction:
//
//  1. Snapshot the current order.
//  2. Unwind: pop every entry top-down, calling the entry's Unbind hook.
//  3. Rebuild: push the snapshot back in the desired order, calling each
//     entry's Bind hook with its previous handle.
//
// The desired order is computed by the pure functions MoveToTop,
// MoveToBottom and Without, so the ordering logic can be tested without a
// host. Engine methods are not safe for concurrent use; callers serialize
// them, normally through the queue package.
package reorder

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
	"github.com/BrandonKowalski/backstack/pkg/backstack/stack"
)

// MatchMode selects how RemoveByTitleAndRecord compares entries.
type MatchMode int

const (
	// MatchStructural compares the decoded (title, record id) pair.
	MatchStructural MatchMode = iota

	// MatchConcat compares title and record id joined without a separator,
	// so ("a1", 2) and ("a", 12) are treated as the same layer. Kept for
	// hosts that depend on the legacy removal behaviour.
	MatchConcat
)

func (m MatchMode) String() string {
	switch m {
	case MatchStructural:
		return "structural"
	case MatchConcat:
		return "concat"
	default:
		return "MatchMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Engine applies reorder transactions to a Store.
type Engine struct {
	store  *stack.Store
	logger *slog.Logger
	match  MatchMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transaction tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMatchMode sets the comparison used by RemoveByTitleAndRecord.
func WithMatchMode(mode MatchMode) Option {
	return func(e *Engine) {
		e.match = mode
	}
}

// New creates an Engine over store.
func New(store *stack.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		match:  MatchStructural,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store.
func (e *Engine) Store() *stack.Store {
	return e.store
}

// ShowOrResurface puts tag on top. An existing entry is resurfaced; an
// absent one is bound once and pushed without an unwind.
func (e *Engine) ShowOrResurface(tag string, binding stack.Binding) error {
	if e.store.Exists(tag) {
		return e.Resurface(tag)
	}

	entry, err := stack.NewEntry(tag, binding)
	if err != nil {
		return err
	}

	h, err := bind(entry)
	if err != nil {
		return fmt.Errorf("reorder: show %q: bind: %w", tag, err)
	}
	entry.Handle = h

	if err := e.store.Append(entry); err != nil {
		e.unbind("show", entry)
		return err
	}

	e.logger.Debug("layer shown", "tag", tag, "depth", e.store.Len())
	return nil
}

// Resurface moves tag to the top. It does nothing if the stack is empty,
// tag is absent, or tag is already on top.
func (e *Engine) Resurface(tag string) error {
	snapshot := e.store.Snapshot()
	i := indexOf(snapshot, tag)
	if i < 0 || i == len(snapshot)-1 {
		return nil
	}
	return e.transact("resurface", tag, snapshot, MoveToTop(snapshot, tag))
}

// Bury moves tag to the bottom. It does nothing if the stack is empty,
// tag is absent, or tag is already at the bottom.
func (e *Engine) Bury(tag string) error {
	snapshot := e.store.Snapshot()
	i := indexOf(snapshot, tag)
	if i <= 0 {
		return nil
	}
	return e.transact("bury", tag, snapshot, MoveToBottom(snapshot, tag))
}

// RemoveByTitleAndRecord drops every entry whose title and record id match,
// whatever its surface id.
func (e *Engine) RemoveByTitleAndRecord(title string, recordID int64) error {
	snapshot := e.store.Snapshot()
	desired := Without(snapshot, e.removalMatcher(title, recordID))
	if len(desired) == len(snapshot) {
		return nil
	}
	return e.transact("remove", "", snapshot, desired)
}

// PopTop unbinds and removes the top entry only.
func (e *Engine) PopTop() error {
	entry, ok := e.store.Pop()
	if !ok {
		return nil
	}
	e.unbind("pop", entry)
	e.logger.Debug("layer popped", "tag", entry.Tag, "depth", e.store.Len())
	return nil
}

// ResumeTop calls the Resume hook of the top entry, if it has one.
func (e *Engine) ResumeTop() error {
	top, ok := e.store.Top()
	if !ok || top.Binding.Resume == nil {
		return nil
	}
	top.Binding.Resume(top.Handle)
	return nil
}

// FindByTitleAndRecord returns the lowest entry with a matching title and
// record id. It never mutates the stack and always compares structurally.
func (e *Engine) FindByTitleAndRecord(title string, recordID int64) (stack.Entry, bool) {
	return e.store.Find(func(entry stack.Entry) bool {
		return entry.Key.Title == title && entry.Key.RecordID == recordID
	})
}

// Top returns the active entry.
func (e *Engine) Top() (stack.Entry, bool) {
	return e.store.Top()
}

// Order returns the tags bottom to top.
func (e *Engine) Order() []string {
	return e.store.Tags()
}

func (e *Engine) removalMatcher(title string, recordID int64) func(key.Key) bool {
	if e.match == MatchConcat {
		want := title + strconv.FormatInt(recordID, 10)
		return func(k key.Key) bool {
			return k.Title+strconv.FormatInt(k.RecordID, 10) == want
		}
	}
	return func(k key.Key) bool {
		return k.Title == title && k.RecordID == recordID
	}
}

func (e *Engine) transact(op, tag string, snapshot, desired []stack.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.restore(op, snapshot)
			err = &InvariantError{Op: op, Tag: tag, Err: fmt.Errorf("%w: %v", ErrHookPanicked, r)}
		}
	}()

	if got := e.store.Len(); got != len(snapshot) {
		return &InvariantError{Op: op, Tag: tag, Err: fmt.Errorf("%w: before unwind have %d, snapshot %d", ErrLengthMismatch, got, len(snapshot))}
	}

	e.logger.Debug("reorder transaction", "op", op, "tag", tag, "depth", len(snapshot), "want", len(desired))

	e.unwind(op)

	if err := e.rebuild(desired); err != nil {
		e.restore(op, snapshot)
		return &InvariantError{Op: op, Tag: tag, Err: err}
	}

	if got := e.store.Len(); got != len(desired) {
		e.restore(op, snapshot)
		return &InvariantError{Op: op, Tag: tag, Err: fmt.Errorf("%w: after rebuild have %d, want %d", ErrLengthMismatch, got, len(desired))}
	}

	return nil
}

func (e *Engine) unwind(op string) {
	for {
		entry, ok := e.store.Pop()
		if !ok {
			return
		}
		e.unbind(op, entry)
	}
}

func (e *Engine) rebuild(desired []stack.Entry) error {
	for _, entry := range desired {
		h, err := bind(entry)
		if err != nil {
			return fmt.Errorf("bind %q: %w", entry.Tag, err)
		}
		entry.Handle = h
		if err := e.store.Append(entry); err != nil {
			e.unbind("rebuild", entry)
			return err
		}
	}
	return nil
}

// restore unwinds whatever a failed rebuild left behind and pushes the
// snapshot back in its original order. Entries that fail to bind again are
// dropped.
func (e *Engine) restore(op string, snapshot []stack.Entry) {
	e.unwind(op)
	for _, entry := range snapshot {
		h, err := bind(entry)
		if err != nil {
			e.logger.Error("dropping layer during restore", "op", op, "tag", entry.Tag, "error", err)
			continue
		}
		entry.Handle = h
		if err := e.store.Append(entry); err != nil {
			e.logger.Error("dropping layer during restore", "op", op, "tag", entry.Tag, "error", err)
			e.unbind(op, entry)
		}
	}
	e.logger.Error("stack restored from snapshot", "op", op, "depth", e.store.Len(), "snapshot", len(snapshot))
}

func (e *Engine) unbind(op string, entry stack.Entry) {
	if entry.Binding.Unbind == nil {
		return
	}
	if err := callUnbind(entry); err != nil {
		e.logger.Warn("unbind failed", "op", op, "tag", entry.Tag, "error", err)
	}
}

func callUnbind(entry stack.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: unbind: %v", ErrHookPanicked, r)
		}
	}()
	return entry.Binding.Unbind(entry.Handle)
}

// bind returns the entry's current handle when it has no Bind hook.
// A panicking hook is reported as an error wrapping ErrHookPanicked.
func bind(entry stack.Entry) (h stack.Handle, err error) {
	if entry.Binding.Bind == nil {
		return entry.Handle, nil
	}
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("%w: bind: %v", ErrHookPanicked, r)
		}
	}()
	return entry.Binding.Bind(entry.Key.SurfaceID, entry.Tag, entry.Handle)
}
