package command

import (
	"errors"
	"fmt"
	"strings"

	"heightmap-converter/internal/console"
	"heightmap-converter/internal/job"
)

// Context says in which part of a session a command may be used.
type Context int

const (
	ContextBeforeImport Context = 1 << iota
	ContextAfterImport

	ContextAny = ContextBeforeImport | ContextAfterImport
)

var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidCommand   = errors.New("invalid command")
)

// Env is what a handler gets to work with. Job is nil before an import.
type Env struct {
	Job *job.Job
	Out *console.Console
}

type PlainFunc func(env *Env, args []string) error

type ModifierFunc func(env *Env, args []string) (job.Modifier, error)

type Spec struct {
	Name        string
	Description string
	Args        string
	Context     Context
}

// Usage renders "<name> <args>" for error hints.
func (s Spec) Usage() string {
	return strings.TrimSpace(s.Name + " " + s.Args)
}

type Command struct {
	Spec
	Run PlainFunc
}

type ModifierCommand struct {
	Spec
	Build ModifierFunc
}

// Registry maps command names to handlers. Registration order is kept for listings.
type Registry struct {
	commands  []*Command
	byName    map[string]*Command
	modifiers []*ModifierCommand
	modByName map[string]*ModifierCommand
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*Command),
		modByName: make(map[string]*ModifierCommand),
	}
}

func (r *Registry) Register(c Command) error {
	name, err := normalizeSpec(&c.Spec)
	if err != nil {
		return err
	}
	if c.Run == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidCommand, name)
	}
	if c.Context == 0 {
		c.Context = ContextAfterImport
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, name)
	}
	cc := c
	r.commands = append(r.commands, &cc)
	r.byName[name] = &cc
	return nil
}

func (r *Registry) RegisterModifier(m ModifierCommand) error {
	name, err := normalizeSpec(&m.Spec)
	if err != nil {
		return err
	}
	if m.Build == nil {
		return fmt.Errorf("%w: modifier %q has no handler", ErrInvalidCommand, name)
	}
	m.Context = ContextAfterImport
	if _, ok := r.modByName[name]; ok {
		return fmt.Errorf("%w: modifier %q", ErrDuplicateCommand, name)
	}
	mm := m
	r.modifiers = append(r.modifiers, &mm)
	r.modByName[name] = &mm
	return nil
}

// Lookup finds a plain command usable in ctx.
func (r *Registry) Lookup(name string, ctx Context) (*Command, bool) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok || c.Context&ctx == 0 {
		return nil, false
	}
	return c, true
}

func (r *Registry) LookupModifier(name string) (*ModifierCommand, bool) {
	m, ok := r.modByName[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Commands lists plain commands usable in ctx in registration order.
func (r *Registry) Commands(ctx Context) []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		if c.Context&ctx != 0 {
			out = append(out, *c)
		}
	}
	return out
}

func (r *Registry) Modifiers() []ModifierCommand {
	out := make([]ModifierCommand, 0, len(r.modifiers))
	for _, m := range r.modifiers {
		out = append(out, *m)
	}
	return out
}

func normalizeSpec(s *Spec) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s.Name))
	if name == "" || strings.ContainsAny(name, " \t\"") {
		return "", fmt.Errorf("%w: bad name %q", ErrInvalidCommand, s.Name)
	}
	s.Name = name
	return name, nil
}
