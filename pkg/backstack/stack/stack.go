// Package stack holds the ordered sequence of layers and the binding from
// each layer key to the host's opaque payload handle.
package stack

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
)

// ErrDuplicate indicates an append would place a tag on the stack twice.
var ErrDuplicate = errors.New("duplicate tag")

// Handle is an opaque payload owned by the host (a view, a screen, an index
// into the host's own registry). The stack stores it and never inspects it.
type Handle any

// BindFunc creates or reattaches a displayable unit on a surface.
// prev is the handle the entry held before this bind, nil on first show.
type BindFunc func(surfaceID int, tag string, prev Handle) (Handle, error)

// UnbindFunc detaches or destroys a displayable unit.
type UnbindFunc func(h Handle) error

// ResumeFunc is called when the host asks the top layer to resume.
type ResumeFunc func(h Handle)

// Binding is the set of host hooks for one payload.
// Bind is required; Unbind and Resume may be nil.
type Binding struct {
	Bind   BindFunc
	Unbind UnbindFunc
	Resume ResumeFunc
}

// Entry represents a single layer in the stack.
type Entry struct {
	Key     key.Key
	Tag     string
	Handle  Handle
	Binding Binding
}

// NewEntry decodes tag and returns an unbound entry for it.
func NewEntry(tag string, binding Binding) (Entry, error) {
	k, err := key.Decode(tag)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: k, Tag: tag, Binding: binding}, nil
}

// Store manages the ordered entries, bottom at index 0.
// Reads may run concurrently with a writer and see any intermediate state
// of a multi-step transaction.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	tags    map[string]struct{}
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{
		entries: make([]Entry, 0),
		tags:    make(map[string]struct{}),
	}
}

// Exists reports whether tag is on the stack.
func (s *Store) Exists(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tags[tag]
	return ok
}

// Top returns the active entry. Returns false if the stack is empty.
func (s *Store) Top() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Snapshot returns a copy of the entries in current order.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Tags returns the serialized keys in current order.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Tag
	}
	return out
}

// Find returns the first entry, scanning bottom to top, for which match is true.
func (s *Store) Find(match func(Entry) bool) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if match(e) {
			return e, true
		}
	}
	return Entry{}, false
}

// Append pushes entries in the given order. The batch is rejected as a
// whole, leaving the store untouched, if any tag is undecodable or already
// present.
func (s *Store) Append(entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, err := key.Decode(e.Tag); err != nil {
			return fmt.Errorf("stack: append: %w", err)
		}
		if _, ok := s.tags[e.Tag]; ok {
			return fmt.Errorf("stack: append %q: %w", e.Tag, ErrDuplicate)
		}
		if _, ok := seen[e.Tag]; ok {
			return fmt.Errorf("stack: append %q: %w", e.Tag, ErrDuplicate)
		}
		seen[e.Tag] = struct{}{}
	}

	for _, e := range entries {
		s.entries = append(s.entries, e)
		s.tags[e.Tag] = struct{}{}
	}
	return nil
}

// Pop removes and returns the top entry. Returns false if the stack is empty.
func (s *Store) Pop() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	entry := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	delete(s.tags, entry.Tag)
	return entry, true
}

// IsEmpty returns true if the stack has no entries.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Len returns the number of entries in the stack.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries. Handles are left to the host.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	s.entries = s.entries[:0]
	clear(s.tags)
}
