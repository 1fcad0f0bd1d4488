package script

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// MaxQueued is the upper bound on pending scripted lines.
const MaxQueued = 100

var ErrQueueFull = errors.New("command queue limit exceeded")

// Queue holds scripted command lines that are served ahead of interactive input.
type Queue struct {
	lines []string
}

func NewQueue() *Queue {
	return &Queue{lines: make([]string, 0, MaxQueued)}
}

// Prepend puts lines in front of whatever is already queued, keeping their order.
// The whole batch is rejected when the result would exceed MaxQueued.
func (q *Queue) Prepend(lines []string) error {
	if len(q.lines)+len(lines) > MaxQueued {
		return fmt.Errorf("%w: %d queued + %d new > %d", ErrQueueFull, len(q.lines), len(lines), MaxQueued)
	}
	next := make([]string, 0, len(q.lines)+len(lines))
	next = append(next, lines...)
	next = append(next, q.lines...)
	q.lines = next
	return nil
}

// Next pops the front line.
func (q *Queue) Next() (string, bool) {
	if len(q.lines) == 0 {
		return "", false
	}
	line := q.lines[0]
	q.lines = q.lines[1:]
	return line, true
}

func (q *Queue) Len() int {
	return len(q.lines)
}

func (q *Queue) Clear() {
	q.lines = q.lines[:0]
}

// LoadScript reads the command lines of a script file. Blank lines and lines
// starting with '#' are dropped.
func LoadScript(path string) ([]string, error) {
	target := strings.Trim(strings.TrimSpace(path), `"`)
	if target == "" {
		return nil, errors.New("script path is required")
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open script %s: %w", target, err)
	}
	defer f.Close()

	lines := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script %s: %w", target, err)
	}
	return lines, nil
}
