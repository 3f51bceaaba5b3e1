package backstack

import (
	"fmt"

	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
	"github.com/BrandonKowalski/backstack/pkg/backstack/stack"
)

// Register adds the binding used when a layer with this title is shown.
// Registering a title again replaces its binding for layers shown later;
// layers already on the stack keep the binding they were shown with.
func (m *Manager) Register(title string, binding stack.Binding) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[title] = binding
	return m
}

// Show encodes the key and shows it with the binding registered for title.
func (m *Manager) Show(title string, surfaceID int, recordID int64) <-chan error {
	tag, err := key.Encode(title, surfaceID, recordID)
	if err != nil {
		return completed(err)
	}

	m.mu.RLock()
	binding, ok := m.bindings[title]
	m.mu.RUnlock()
	if !ok {
		return completed(fmt.Errorf("backstack: show %q: %w", title, ErrNotRegistered))
	}

	return m.ShowOrResurface(tag, binding)
}

func completed(err error) <-chan error {
	done := make(chan error, 1)
	done <- err
	return done
}
