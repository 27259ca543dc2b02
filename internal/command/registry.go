package command

import (
	"fmt"
	"sort"
)

// Command describes one invokable command: metadata for help output, the
// argument schema, permission requirements and the execute callback.
type Command struct {
	ID          string
	Aliases     []string
	Description string
	Usage       string
	Examples    []string
	Category    string
	Args        []Argument
	// Slash controls whether the command is registered as an application
	// command in addition to its text form.
	Slash     bool
	NSFW      bool
	GuildOnly bool
	// UserPerms and BotPerms are the permission bits required of the
	// invoking member and of the bot's own member respectively.
	UserPerms []int64
	BotPerms  []int64
	Execute   func(ctx *Context, args Args)
}

// Registry holds every registered command, keyed by id. Populated once at
// startup; read-only afterwards.
type Registry struct {
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds commands to the registry. A duplicate id is a programming
// error and aborts startup.
func (r *Registry) Register(cmds ...*Command) error {
	for _, cmd := range cmds {
		if cmd.ID == "" {
			return fmt.Errorf("command registered without an id")
		}
		if _, exists := r.commands[cmd.ID]; exists {
			return fmt.Errorf("duplicate command id: %s", cmd.ID)
		}
		if cmd.Execute == nil {
			return fmt.Errorf("command %s has no execute callback", cmd.ID)
		}
		r.commands[cmd.ID] = cmd
	}
	return nil
}

// Get returns the command registered under the exact id, or nil.
func (r *Registry) Get(id string) *Command {
	return r.commands[id]
}

// FindByAlias returns the command matching the alias (or id), or nil.
func (r *Registry) FindByAlias(alias string) *Command {
	for _, cmd := range r.commands {
		if cmd.ID == alias {
			return cmd
		}
		for _, a := range cmd.Aliases {
			if a == alias {
				return cmd
			}
		}
	}
	return nil
}

// All returns every command ordered by id.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
