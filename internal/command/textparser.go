package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/duration"
)

// Resolver fetches live entities referenced by mention or id in command
// text. Lookups may hit the remote API; a failed lookup returns an error
// and the argument parses to nil.
type Resolver interface {
	User(id string) (*discordgo.User, error)
	Member(id string) (*discordgo.Member, error)
	Channel(id string) (*discordgo.Channel, error)
	Role(id string) (*discordgo.Role, error)
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	durationRE   = regexp.MustCompile(`[0-9]+ ?[a-zA-Z]+`)
)

// scanState is the cursor over the not-yet-consumed portion of the input.
// Each argument step takes a state and returns the advanced one, so every
// per-type rule is testable in isolation.
type scanState struct {
	input string
}

// token returns the text up to the next space. A space at position zero
// does not count as a separator.
func (st scanState) token() string {
	return st.input[:st.spaceIdx()]
}

func (st scanState) spaceIdx() int {
	if i := strings.Index(st.input, " "); i > 0 {
		return i
	}
	return len(st.input)
}

func (st scanState) flagIdx(flagPrefix string) int {
	if i := strings.Index(st.input, flagPrefix); i >= 0 {
		return i
	}
	return len(st.input)
}

// consumeToken drops the current token plus its separating space.
func (st scanState) consumeToken() scanState {
	return st.advance(st.spaceIdx() + 1)
}

func (st scanState) advance(n int) scanState {
	if n > len(st.input) {
		n = len(st.input)
	}
	return scanState{input: st.input[n:]}
}

// TextParser turns raw message text into a normalized argument map using
// a command's declared argument schema.
type TextParser struct {
	// FlagPrefix introduces named flag arguments, "--" by default.
	FlagPrefix string
	Resolver   Resolver
	// Now supplies the reference instant for duration arguments.
	Now func() time.Time
}

// Parse walks the argument definitions in declaration order, consuming
// content as it goes. Every definition produces exactly one map entry;
// failed resolutions yield nil without consuming text, so a later
// argument re-attempts the same token. That quirk is inherited behavior
// and relied upon by optional leading arguments.
func (p *TextParser) Parse(content string, defs []Argument) Args {
	flagPrefix := p.FlagPrefix
	if flagPrefix == "" {
		flagPrefix = "--"
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	st := scanState{input: strings.TrimSpace(whitespaceRE.ReplaceAllString(content, " "))}
	parsed := make(Args, len(defs))
	for _, def := range defs {
		var value any
		switch def.Type {
		case ArgUser, ArgMember, ArgChannel, ArgRole:
			value, st = p.parseEntity(st, def)
		case ArgText:
			value, st = parseText(st, def, flagPrefix)
		case ArgInt:
			value, st = parseInt(st)
		case ArgNumber:
			value, st = parseNumber(st)
		case ArgBool:
			value, st = parseBool(st)
		case ArgDuration:
			value, st = parseDuration(st, now())
		case ArgFlag:
			value, st = parseFlag(st, def, flagPrefix)
		}
		parsed[def.Name] = value
	}
	return parsed
}

// mention decoration characters stripped per entity kind
var (
	userMentionStrip    = strings.NewReplacer("\\", "", "<", "", ">", "", "@", "")
	channelMentionStrip = strings.NewReplacer("\\", "", "<", "", ">", "", "#", "")
	roleMentionStrip    = strings.NewReplacer("\\", "", "<", "", ">", "", "@", "", "&", "")
)

func (p *TextParser) parseEntity(st scanState, def Argument) (any, scanState) {
	token := st.token()
	var value any
	switch def.Type {
	case ArgUser:
		if u, err := p.Resolver.User(userMentionStrip.Replace(token)); err == nil && u != nil {
			value = u
		}
	case ArgMember:
		if m, err := p.Resolver.Member(userMentionStrip.Replace(token)); err == nil && m != nil {
			value = m
		}
	case ArgChannel:
		if c, err := p.Resolver.Channel(channelMentionStrip.Replace(token)); err == nil && c != nil {
			value = c
		}
	case ArgRole:
		if r, err := p.Resolver.Role(roleMentionStrip.Replace(token)); err == nil && r != nil {
			value = r
		}
	}
	if value == nil {
		// Failed resolutions do not move the cursor.
		return nil, st
	}
	return value, st.consumeToken()
}

func parseText(st scanState, def Argument, flagPrefix string) (any, scanState) {
	if def.WordLength > 0 {
		words := strings.SplitN(st.input, " ", def.WordLength+1)
		if len(words) > def.WordLength {
			words = words[:def.WordLength]
		}
		value := strings.TrimSpace(strings.Join(words, " "))
		if value == "" {
			return nil, st
		}
		return value, st.advance(len(value) + 1)
	}

	end := st.flagIdx(flagPrefix)
	value := strings.TrimSpace(st.input[:end])
	if value == "" {
		return nil, st
	}
	return value, st.advance(end)
}

func parseInt(st scanState) (any, scanState) {
	n, err := strconv.Atoi(st.token())
	if err != nil {
		return nil, st
	}
	return n, st.consumeToken()
}

func parseNumber(st scanState) (any, scanState) {
	f, err := strconv.ParseFloat(st.token(), 64)
	if err != nil {
		return nil, st
	}
	return f, st.consumeToken()
}

func parseBool(st scanState) (any, scanState) {
	switch st.token() {
	case "true":
		return true, st.consumeToken()
	case "false":
		return false, st.consumeToken()
	default:
		return nil, st
	}
}

func parseDuration(st scanState, now time.Time) (any, scanState) {
	match := durationRE.FindString(st.input)
	if match == "" {
		return nil, st
	}
	expiry, ok := duration.Parse(match, now)
	if !ok {
		return nil, st
	}
	return expiry, st.advance(len(match) + 1)
}

// parseFlag extracts a flag sitting at the cursor. Flags trail positional
// arguments: a flag whose prefix is not at the front of the remaining text
// is left for a later definition to pick up.
func parseFlag(st scanState, def Argument, flagPrefix string) (any, scanState) {
	if !strings.HasPrefix(st.input, flagPrefix) {
		return nil, st
	}
	name := st.input[len(flagPrefix):st.spaceIdx()]
	if name != def.Name {
		return nil, st
	}

	if def.FlagType == FlagBool {
		// Presence-only: splice out the flag name so later flags parse.
		return true, st.consumeToken()
	}

	rest := strings.TrimLeft(st.input[len(flagPrefix)+len(def.Name):], " ")
	restState := scanState{input: rest}
	end := restState.flagIdx(flagPrefix)
	raw := strings.TrimSpace(rest[:end])

	var value any
	switch def.FlagType {
	case FlagInt:
		if n, err := strconv.Atoi(raw); err == nil {
			value = n
		}
	case FlagNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			value = f
		}
	case FlagString:
		if raw != "" {
			value = raw
		}
	}
	if value == nil {
		return nil, st
	}
	return value, restState.advance(end)
}
