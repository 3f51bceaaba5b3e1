// Package backstack manages an ordered stack of layers (screens, views)
// that can be resurfaced, buried, replaced or removed without disturbing
// the order of the layers around them.
//
// Each layer is identified by a key made of a title, the id of the surface
// it is drawn on, and a record id, serialized as "title|surface|record".
// The host that draws layers owns the payload behind each key and hands
// backstack a Binding: a Bind hook that creates or reattaches the payload
// and an Unbind hook that tears it down.
//
// # Basic Usage
//
//	m, err := backstack.New(backstack.Options{})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	m.Register("detail", stack.Binding{
//	    Bind: func(surfaceID int, tag string, prev stack.Handle) (stack.Handle, error) {
//	        return host.Attach(surfaceID, tag), nil
//	    },
//	    Unbind: func(h stack.Handle) error {
//	        return host.Detach(h)
//	    },
//	})
//
//	// Shows the layer, or resurfaces it if it is already on the stack
//	if err := backstack.Wait(m.Show("detail", 1, 42)); err != nil {
//	    return err
//	}
//
// # Transactions
//
// The underlying surface supports only push and pop, so moving a layer
// means popping every layer (Unbind) and pushing them back in the new
// order (Bind). Mutations are queued and applied one at a time; each
// mutating method returns a channel that receives the result once the
// transaction has run. Reads (Exists, Top, Order, FindByTitleAndRecord)
// do not wait for the queue and may observe a transaction in progress.
package backstack

import (
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
	"github.com/BrandonKowalski/backstack/pkg/backstack/queue"
	"github.com/BrandonKowalski/backstack/pkg/backstack/reorder"
	"github.com/BrandonKowalski/backstack/pkg/backstack/stack"
)

// Manager owns one layer stack and the queue that serializes its mutations.
type Manager struct {
	store  *stack.Store
	engine *reorder.Engine
	queue  *queue.Queue
	logger *slog.Logger
	shared bool

	closeOnce sync.Once

	mu       sync.RWMutex
	bindings map[string]stack.Binding
}

// New creates a Manager with an empty stack and starts its transaction queue.
func New(options Options) (*Manager, error) {
	mode, err := ParseMatchMode(options.MatchMode)
	if err != nil {
		return nil, err
	}

	logger := options.Logger
	shared := logger == nil
	if shared {
		level := internal.ParseLevel(options.LogLevel)
		if constants.IsDebug() {
			level = slog.LevelDebug
		}
		logger = internal.Acquire(options.LogPath, level)
	}

	size := options.QueueSize
	if size <= 0 {
		size = constants.DefaultQueueSize
	}

	store := stack.NewStore()
	m := &Manager{
		store:    store,
		engine:   reorder.New(store, reorder.WithLogger(logger), reorder.WithMatchMode(mode)),
		queue:    queue.New(size, logger),
		logger:   logger,
		shared:   shared,
		bindings: make(map[string]stack.Binding),
	}

	logger.Debug("backstack started", "match_mode", mode.String(), "queue_size", size)
	return m, nil
}

// Close waits for queued transactions and stops the queue. Layers still on
// the stack are left bound; the host tears them down. The shared logger's
// file is closed once the last Manager using it is closed.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.queue.Close()
		m.logger.Debug("backstack closed", "depth", m.store.Len(), "completed", m.queue.Completed())
		if m.shared {
			internal.Release()
		}
	})
}

// Wait blocks until a transaction completes and returns its result.
func Wait(done <-chan error) error {
	return <-done
}

// Encode joins a title, surface id and record id into a layer key.
func Encode(title string, surfaceID int, recordID int64) (string, error) {
	return key.Encode(title, surfaceID, recordID)
}

// Decode splits a layer key into its title, surface id and record id.
func Decode(tag string) (key.Key, error) {
	return key.Decode(tag)
}

// ShowOrResurface puts tag on top of the stack, binding a new payload with
// binding if tag is not on the stack yet.
func (m *Manager) ShowOrResurface(tag string, binding stack.Binding) <-chan error {
	return m.queue.Enqueue(func() error {
		return m.engine.ShowOrResurface(tag, binding)
	})
}

// Resurface moves tag to the top of the stack.
func (m *Manager) Resurface(tag string) <-chan error {
	return m.queue.Enqueue(func() error {
		return m.engine.Resurface(tag)
	})
}

// Bury moves tag to the bottom of the stack.
func (m *Manager) Bury(tag string) <-chan error {
	return m.queue.Enqueue(func() error {
		return m.engine.Bury(tag)
	})
}

// PopTop removes the top layer.
func (m *Manager) PopTop() <-chan error {
	return m.queue.Enqueue(m.engine.PopTop)
}

// RemoveByTitleAndRecord removes every layer with the given title and
// record id, on any surface.
func (m *Manager) RemoveByTitleAndRecord(title string, recordID int64) <-chan error {
	return m.queue.Enqueue(func() error {
		return m.engine.RemoveByTitleAndRecord(title, recordID)
	})
}

// ResumeTop calls the Resume hook of the top layer.
func (m *Manager) ResumeTop() <-chan error {
	return m.queue.Enqueue(m.engine.ResumeTop)
}

// Exists reports whether tag is on the stack.
func (m *Manager) Exists(tag string) bool {
	return m.store.Exists(tag)
}

// Top returns the active layer. Returns false if the stack is empty.
func (m *Manager) Top() (stack.Entry, bool) {
	return m.engine.Top()
}

// FindByTitleAndRecord returns the lowest layer with a matching title and record id.
func (m *Manager) FindByTitleAndRecord(title string, recordID int64) (stack.Entry, bool) {
	return m.engine.FindByTitleAndRecord(title, recordID)
}

// Order returns the layer keys from bottom to top.
func (m *Manager) Order() []string {
	return m.engine.Order()
}

// Len returns the number of layers on the stack.
func (m *Manager) Len() int {
	return m.store.Len()
}

// Pending returns the number of queued transactions that have not finished.
func (m *Manager) Pending() int64 {
	return m.queue.Pending()
}
