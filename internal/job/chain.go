package job

import (
	"errors"
	"fmt"
)

var ErrNilModifier = errors.New("modifier is nil")

// Chain is the ordered, append-only list of modifiers applied at export time.
type Chain struct {
	mods []Modifier
}

func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) Add(m Modifier) error {
	if m == nil {
		return ErrNilModifier
	}
	c.mods = append(c.mods, m)
	return nil
}

func (c *Chain) Len() int {
	return len(c.mods)
}

func (c *Chain) Modifiers() []Modifier {
	return append([]Modifier(nil), c.mods...)
}

func (c *Chain) Names() []string {
	out := make([]string, 0, len(c.mods))
	for _, m := range c.mods {
		out = append(out, m.Name())
	}
	return out
}

// Apply runs every modifier in insertion order, feeding each the previous result.
func (c *Chain) Apply(data Data) (Data, error) {
	cur := data
	for i, m := range c.mods {
		next, err := m.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("modifier %d (%s): %w", i+1, m.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
