package commands

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// guildKey describes one editable guild config field: its value kind for
// validation and display, and accessors over the config row.
type guildKey struct {
	kind    string
	array   bool
	get     func(cfg *store.GuildConfig) string
	set     func(cfg *store.GuildConfig, v string)
	getList func(cfg *store.GuildConfig) store.StringList
	setList func(cfg *store.GuildConfig, v store.StringList)
}

var guildKeyOrder = []string{
	"prefix",
	"moderationLogChannel",
	"messageLogChannel",
	"otherLogChannel",
	"mutedRole",
	"joinRoles",
	"commandChannels",
	"lockdownChannels",
	"automodImmune",
	"infractionThreshold",
}

var guildKeys = map[string]guildKey{
	"prefix": {
		kind: "string",
		get:  func(cfg *store.GuildConfig) string { return cfg.Prefix },
		set:  func(cfg *store.GuildConfig, v string) { cfg.Prefix = v },
	},
	"moderationLogChannel": {
		kind: "channel",
		get:  func(cfg *store.GuildConfig) string { return cfg.ModerationLogChan },
		set:  func(cfg *store.GuildConfig, v string) { cfg.ModerationLogChan = v },
	},
	"messageLogChannel": {
		kind: "channel",
		get:  func(cfg *store.GuildConfig) string { return cfg.MessageLogChan },
		set:  func(cfg *store.GuildConfig, v string) { cfg.MessageLogChan = v },
	},
	"otherLogChannel": {
		kind: "channel",
		get:  func(cfg *store.GuildConfig) string { return cfg.OtherLogChan },
		set:  func(cfg *store.GuildConfig, v string) { cfg.OtherLogChan = v },
	},
	"mutedRole": {
		kind: "role",
		get:  func(cfg *store.GuildConfig) string { return cfg.MutedRole },
		set:  func(cfg *store.GuildConfig, v string) { cfg.MutedRole = v },
	},
	"joinRoles": {
		kind:    "role",
		array:   true,
		getList: func(cfg *store.GuildConfig) store.StringList { return cfg.JoinRoles },
		setList: func(cfg *store.GuildConfig, v store.StringList) { cfg.JoinRoles = v },
	},
	"commandChannels": {
		kind:    "channel",
		array:   true,
		getList: func(cfg *store.GuildConfig) store.StringList { return cfg.CommandChannels },
		setList: func(cfg *store.GuildConfig, v store.StringList) { cfg.CommandChannels = v },
	},
	"lockdownChannels": {
		kind:    "channel",
		array:   true,
		getList: func(cfg *store.GuildConfig) store.StringList { return cfg.LockdownChannels },
		setList: func(cfg *store.GuildConfig, v store.StringList) { cfg.LockdownChannels = v },
	},
	"automodImmune": {
		kind:    "role",
		array:   true,
		getList: func(cfg *store.GuildConfig) store.StringList { return cfg.AutomodImmune },
		setList: func(cfg *store.GuildConfig, v store.StringList) { cfg.AutomodImmune = v },
	},
	"infractionThreshold": {
		kind: "int",
		get: func(cfg *store.GuildConfig) string {
			if cfg.InfractionThreshold == 0 {
				return ""
			}
			return strconv.Itoa(cfg.InfractionThreshold)
		},
		set: func(cfg *store.GuildConfig, v string) {
			cfg.InfractionThreshold, _ = strconv.Atoi(v)
		},
	},
}

// mentionChars strips mention decoration so "<#123>" and "123" are
// interchangeable inputs.
var mentionChars = regexp.MustCompile(`[\\<>@&#]`)

func configCommand(d *Deps) *command.Command {
	keyChoices := make([]command.Choice, len(guildKeyOrder))
	for i, k := range guildKeyOrder {
		keyChoices[i] = command.Choice{Label: k, Value: k}
	}
	return &command.Command{
		ID:          "config",
		Aliases:     []string{"config", "cfg"},
		Description: "Changes the guilds config",
		Usage:       "config <function> <key> [new_value]",
		Examples: []string{
			"config set moderationLogChannel #modlogs",
			"config add commandChannels #bot-commands",
			"config remove commandChannels #bot-commands",
			"config clear joinRoles",
			"config show mutedRole",
		},
		Category:  "admin",
		Slash:     true,
		UserPerms: []int64{discordgo.PermissionManageServer},
		Args: []command.Argument{
			{
				Name:        "function",
				Description: "The function to perform",
				Required:    true,
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
				WordLength:  1,
				Choices: []command.Choice{
					{Label: "set", Value: "set"},
					{Label: "clear", Value: "clear"},
					{Label: "show", Value: "show"},
					{Label: "add", Value: "add"},
					{Label: "remove", Value: "remove"},
				},
			},
			{
				Name:        "key",
				Description: "The key to change (case sensitive!)",
				Required:    true,
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
				WordLength:  1,
				Choices:     keyChoices,
			},
			{
				Name:        "new_value",
				Description: "The new value",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			d.runConfig(ctx, args)
		},
	}
}

func (d *Deps) runConfig(ctx *command.Context, args command.Args) {
	fn := args.String("function")
	keyName := args.String("key")

	key, ok := guildKeys[keyName]
	if !ok {
		valid := make([]string, len(guildKeyOrder))
		for i, k := range guildKeyOrder {
			valid[i] = utils.InlineCode(k)
		}
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Title:       "Invalid Key",
			Description: "Valid keys are: " + strings.Join(valid, ", "),
		})
		return
	}
	if !key.array && (fn == "add" || fn == "remove") {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Title:       "Invalid Function",
			Description: utils.InlineCode(fn) + " may only be used with array type config options",
		})
		return
	}
	value := mentionChars.ReplaceAllString(args.String("new_value"), "")
	if fn != "show" && fn != "clear" && value == "" {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Title:       "No value given",
			Description: "A value must be provided if not using the show function",
		})
		return
	}

	cfg, err := d.Configs.GuildConfig(ctx.GuildID)
	if err != nil {
		d.Logger.Error("failed to load guild config", "guild", ctx.GuildID, "err", err)
		return
	}

	if fn == "show" {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Ok(),
			Title:       "Value of " + utils.InlineCode(keyName),
			Description: d.renderKey(cfg, key),
		})
		return
	}

	if fn != "clear" && !d.validValue(ctx.GuildID, key, value) {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Title:       "Invalid value provided",
			Description: "Key " + utils.InlineCode(keyName) + " requires value of type: " + utils.InlineCode(key.kind),
		})
		return
	}

	switch fn {
	case "clear":
		if key.array {
			key.setList(cfg, store.StringList{})
		} else {
			key.set(cfg, "")
		}
	case "add":
		key.setList(cfg, append(key.getList(cfg), value))
	case "remove":
		list := key.getList(cfg)
		out := make(store.StringList, 0, len(list))
		for _, v := range list {
			if v != value {
				out = append(out, v)
			}
		}
		key.setList(cfg, out)
	case "set":
		if key.array {
			key.setList(cfg, store.StringList{value})
		} else {
			key.set(cfg, value)
		}
	}

	if err := d.Configs.SaveGuildConfig(cfg); err != nil {
		d.Logger.Error("failed to save guild config", "guild", ctx.GuildID, "err", err)
		return
	}
	ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Color:       utils.Colors.Ok(),
		Title:       "Successfully updated",
		Description: "Successfully changed " + utils.InlineCode(keyName),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Use the show function to display the key's value"},
	})
}

// renderKey formats the current value of a key for the show function.
func (d *Deps) renderKey(cfg *store.GuildConfig, key guildKey) string {
	format := func(v string) string {
		switch key.kind {
		case "channel":
			return utils.ChannelMention(v)
		case "role":
			return utils.RoleMention(v)
		default:
			return utils.InlineCode(v)
		}
	}
	if key.array {
		list := key.getList(cfg)
		if len(list) == 0 {
			return "No value"
		}
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = format(v)
		}
		return strings.Join(parts, ", ")
	}
	v := key.get(cfg)
	if v == "" {
		return "No value"
	}
	return format(v)
}

func (d *Deps) validValue(guildID string, key guildKey, value string) bool {
	switch key.kind {
	case "channel":
		_, err := d.opts.channel(value)
		return err == nil
	case "role":
		roles, err := d.opts.roles(guildID)
		if err != nil {
			return false
		}
		for _, r := range roles {
			if r.ID == value {
				return true
			}
		}
		return false
	case "int":
		_, err := strconv.Atoi(value)
		return err == nil
	default:
		return true
	}
}
