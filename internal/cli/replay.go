package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
)

// ErrBadScript indicates a replay script line that could not be parsed.
var ErrBadScript = errors.New("bad script line")

// step is one parsed script line.
type step struct {
	line     int
	op       string
	tag      string
	title    string
	recordID int64
}

var arity = map[string]int{
	"show":      1,
	"resurface": 1,
	"bury":      1,
	"pop":       0,
	"remove":    2,
	"find":      2,
	"top":       0,
	"resume":    0,
	"order":     0,
}

// parseScript reads one operation per line. Blank lines and lines starting
// with '#' are skipped.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		op := strings.ToLower(fields[0])
		want, ok := arity[op]
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown operation %q", n, ErrBadScript, fields[0])
		}
		args := fields[1:]
		if len(args) != want {
			return nil, fmt.Errorf("line %d: %w: %s takes %d argument(s), got %d", n, ErrBadScript, op, want, len(args))
		}

		s := step{line: n, op: op}
		switch want {
		case 1:
			s.tag = args[0]
		case 2:
			recordID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: record id %q", n, ErrBadScript, args[1])
			}
			s.title, s.recordID = args[0], recordID
		}
		steps = append(steps, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// replay runs steps against m, writing the stack order after every step.
func replay(steps []step, m *backstack.Manager, host *memHost, out io.Writer) error {
	for _, s := range steps {
		var done <-chan error
		switch s.op {
		case "show":
			done = m.ShowOrResurface(s.tag, host.binding())
		case "resurface":
			done = m.Resurface(s.tag)
		case "bury":
			done = m.Bury(s.tag)
		case "pop":
			done = m.PopTop()
		case "remove":
			done = m.RemoveByTitleAndRecord(s.title, s.recordID)
		case "resume":
			done = m.ResumeTop()
		case "find":
			if e, ok := m.FindByTitleAndRecord(s.title, s.recordID); ok {
				fmt.Fprintf(out, "find %s %d: %s handle=%v\n", s.title, s.recordID, e.Tag, e.Handle)
			} else {
				fmt.Fprintf(out, "find %s %d: not found\n", s.title, s.recordID)
			}
			continue
		case "top":
			if e, ok := m.Top(); ok {
				fmt.Fprintf(out, "top: %s\n", e.Tag)
			} else {
				fmt.Fprintln(out, "top: <empty>")
			}
			continue
		case "order":
		}

		if done != nil {
			if err := backstack.Wait(done); err != nil {
				return fmt.Errorf("line %d: %s: %w", s.line, s.op, err)
			}
		}
		fmt.Fprintf(out, "%-10s [%s]\n", s.op, strings.Join(m.Order(), " "))
	}
	return nil
}
