package reorder

import (
	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
	"github.com/BrandonKowalski/backstack/pkg/backstack/stack"
)

// MoveToTop returns a copy of order with the entry for tag moved to the end.
// The other entries keep their relative order. If tag is absent the copy is
// returned unchanged.
func MoveToTop(order []stack.Entry, tag string) []stack.Entry {
	out := make([]stack.Entry, 0, len(order))
	var target stack.Entry
	found := false
	for _, e := range order {
		if e.Tag == tag && !found {
			target, found = e, true
			continue
		}
		out = append(out, e)
	}
	if found {
		out = append(out, target)
	}
	return out
}

// MoveToBottom returns a copy of order with the entry for tag moved to index 0.
func MoveToBottom(order []stack.Entry, tag string) []stack.Entry {
	out := make([]stack.Entry, 1, len(order)+1)
	found := false
	for _, e := range order {
		if e.Tag == tag && !found {
			out[0], found = e, true
			continue
		}
		out = append(out, e)
	}
	if !found {
		return out[1:]
	}
	return out
}

// Without returns a copy of order minus every entry whose key matches.
func Without(order []stack.Entry, match func(key.Key) bool) []stack.Entry {
	out := make([]stack.Entry, 0, len(order))
	for _, e := range order {
		if !match(e.Key) {
			out = append(out, e)
		}
	}
	return out
}

func indexOf(order []stack.Entry, tag string) int {
	for i, e := range order {
		if e.Tag == tag {
			return i
		}
	}
	return -1
}
