// Package command implements the shared command dispatch pipeline: the
// argument schema, the free-text parser, the interaction option mapper and
// the permission-gated dispatcher both transports run through.
package command

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// ArgType selects the parsing strategy for one declared argument.
type ArgType int

const (
	ArgUser ArgType = iota
	ArgMember
	ArgChannel
	ArgRole
	ArgText
	ArgInt
	ArgNumber
	ArgBool
	ArgDuration
	ArgFlag
)

// FlagType is the value type of a flag argument.
type FlagType int

const (
	FlagInt FlagType = iota
	FlagNumber
	FlagBool
	FlagString
)

// Choice is a fixed option offered for a slash argument.
type Choice struct {
	Label string
	Value any
}

// Argument declares one parameter of a command. The same declaration
// drives both the text parser and the interaction mapper.
type Argument struct {
	Name        string
	Description string
	Required    bool
	Type        ArgType
	// SlashType is the application command option type used when the
	// command is registered as a slash command.
	SlashType discordgo.ApplicationCommandOptionType
	// FlagType is only meaningful when Type is ArgFlag.
	FlagType FlagType
	Choices  []Choice
	// WordLength caps an ArgText argument at a fixed number of words.
	// Zero means "consume up to the next flag or end of input".
	WordLength int
}

// Args is the normalized argument map both parsers produce: one entry per
// declared argument, nil when the value was absent or failed to resolve.
type Args map[string]any

// Has reports whether the argument parsed to a usable value. Zero values
// ("", 0, false, zero time) count as absent, matching how the required
// argument gate treats them.
func (a Args) Has(name string) bool {
	switch v := a[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	case *discordgo.User:
		return v != nil
	case *discordgo.Member:
		return v != nil
	case *discordgo.Channel:
		return v != nil
	case *discordgo.Role:
		return v != nil
	default:
		return true
	}
}

func (a Args) User(name string) *discordgo.User {
	v, _ := a[name].(*discordgo.User)
	return v
}

func (a Args) Member(name string) *discordgo.Member {
	v, _ := a[name].(*discordgo.Member)
	return v
}

func (a Args) Channel(name string) *discordgo.Channel {
	v, _ := a[name].(*discordgo.Channel)
	return v
}

func (a Args) Role(name string) *discordgo.Role {
	v, _ := a[name].(*discordgo.Role)
	return v
}

func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Time returns an ArgDuration value: the absolute expiry instant.
func (a Args) Time(name string) time.Time {
	v, _ := a[name].(time.Time)
	return v
}

// UserID returns the id of a user or member argument, whichever parsed.
func (a Args) UserID(name string) string {
	if u := a.User(name); u != nil {
		return u.ID
	}
	if m := a.Member(name); m != nil && m.User != nil {
		return m.User.ID
	}
	return ""
}
