package command

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/duration"
)

// ParseInteraction reads already-typed option values from an application
// command payload into the same normalized argument map the text parser
// produces. Entity options come pre-resolved by the transport; absent
// optional values map to nil.
func ParseInteraction(data discordgo.ApplicationCommandInteractionData, defs []Argument, now time.Time) Args {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		byName[opt.Name] = opt
	}

	parsed := make(Args, len(defs))
	for _, def := range defs {
		parsed[def.Name] = nil
		opt, ok := byName[def.Name]
		if !ok {
			continue
		}

		switch def.SlashType {
		case discordgo.ApplicationCommandOptionString:
			s := opt.StringValue()
			if def.Type == ArgDuration {
				if expiry, valid := duration.Parse(s, now); valid {
					parsed[def.Name] = expiry
				}
			} else if s != "" {
				parsed[def.Name] = s
			}
		case discordgo.ApplicationCommandOptionInteger:
			parsed[def.Name] = int(opt.IntValue())
		case discordgo.ApplicationCommandOptionNumber:
			parsed[def.Name] = opt.FloatValue()
		case discordgo.ApplicationCommandOptionBoolean:
			parsed[def.Name] = opt.BoolValue()
		case discordgo.ApplicationCommandOptionUser:
			parsed[def.Name] = resolvedUser(data, opt, def)
		case discordgo.ApplicationCommandOptionRole:
			if id, isStr := opt.Value.(string); isStr && data.Resolved != nil {
				if r := data.Resolved.Roles[id]; r != nil {
					parsed[def.Name] = r
				}
			}
		case discordgo.ApplicationCommandOptionChannel:
			if id, isStr := opt.Value.(string); isStr && data.Resolved != nil {
				if c := data.Resolved.Channels[id]; c != nil {
					parsed[def.Name] = c
				}
			}
		}
	}
	return parsed
}

// resolvedUser maps a user-category option onto either a member handle or
// a bare user handle, depending on how the argument was declared.
func resolvedUser(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption, def Argument) any {
	id, isStr := opt.Value.(string)
	if !isStr || data.Resolved == nil {
		return nil
	}

	if def.Type == ArgMember {
		m := data.Resolved.Members[id]
		if m == nil {
			return nil
		}
		// Resolved members arrive without their user attached.
		if m.User == nil {
			m.User = data.Resolved.Users[id]
		}
		return m
	}

	if u := data.Resolved.Users[id]; u != nil {
		return u
	}
	return nil
}
