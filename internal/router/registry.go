package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gillepool/awoobot/internal/message"
)

var ErrDuplicateCommand = errors.New("router: duplicate command")

// A Handler executes a command. args are the tokens following the command
// name. Handlers reply through msg themselves; a returned error is not shown
// to the user.
type Handler func(msg *message.Message, args ...string) error

// Command is a named command executed by the router.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
}

// NewCommand helps quickly create a new command.
func NewCommand(name, usage, description string, handler Handler) Command {
	return Command{
		Name:        name,
		Usage:       usage,
		Description: description,
		Handler:     handler,
	}
}

// A Registry maps command names to commands. Names are case-insensitive. A
// Registry cannot be changed after it was created.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a Registry containing cmds.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{commands: make(map[string]Command, len(cmds))}

	for _, cmd := range cmds {
		key := normalize(cmd.Name)
		switch {
		case key == "" || strings.ContainsFunc(key, unicode.IsSpace):
			return nil, fmt.Errorf("router: invalid command name %q", cmd.Name)
		case cmd.Handler == nil:
			return nil, fmt.Errorf("router: command %q has no handler", cmd.Name)
		}

		if _, ok := r.commands[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.Name)
		}
		r.commands[key] = cmd
	}

	return r, nil
}

// Lookup returns the command with the given name. Only exact matches after
// case folding are found.
func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[normalize(name)]
	return cmd, ok
}

// Commands returns all commands sorted by name.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}

	sort.Slice(cmds, func(i, j int) bool {
		return normalize(cmds[i].Name) < normalize(cmds[j].Name)
	})
	return cmds
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
