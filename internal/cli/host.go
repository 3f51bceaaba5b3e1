package cli

import (
	"fmt"
	"io"

	"github.com/BrandonKowalski/backstack/pkg/backstack/stack"
)

// memHost stands in for a display host. Handles are sequence numbers, so
// a rebuild shows up as every layer getting a fresh number.
type memHost struct {
	next  int
	live  map[int]string
	trace io.Writer
}

func newMemHost(trace io.Writer) *memHost {
	if trace == nil {
		trace = io.Discard
	}
	return &memHost{live: make(map[int]string), trace: trace}
}

func (h *memHost) binding() stack.Binding {
	return stack.Binding{
		Bind: func(surfaceID int, tag string, prev stack.Handle) (stack.Handle, error) {
			h.next++
			h.live[h.next] = tag
			if prev != nil {
				fmt.Fprintf(h.trace, "  bind   %-20s surface=%d handle=%d (was %v)\n", tag, surfaceID, h.next, prev)
			} else {
				fmt.Fprintf(h.trace, "  bind   %-20s surface=%d handle=%d\n", tag, surfaceID, h.next)
			}
			return h.next, nil
		},
		Unbind: func(hd stack.Handle) error {
			id, ok := hd.(int)
			if !ok {
				return fmt.Errorf("unexpected handle %v", hd)
			}
			fmt.Fprintf(h.trace, "  unbind %-20s handle=%d\n", h.live[id], id)
			delete(h.live, id)
			return nil
		},
		Resume: func(hd stack.Handle) {
			fmt.Fprintf(h.trace, "  resume handle=%v\n", hd)
		},
	}
}
