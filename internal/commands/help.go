package commands

import (
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

var argTypeNames = map[command.ArgType]string{
	command.ArgUser:     "User",
	command.ArgMember:   "Member",
	command.ArgChannel:  "Channel",
	command.ArgRole:     "Role",
	command.ArgText:     "Text",
	command.ArgInt:      "Int",
	command.ArgNumber:   "Number",
	command.ArgBool:     "Bool",
	command.ArgDuration: "Duration",
	command.ArgFlag:     "Flag",
}

var flagTypeNames = map[command.FlagType]string{
	command.FlagInt:    "Int",
	command.FlagNumber: "Number",
	command.FlagBool:   "Bool",
	command.FlagString: "String",
}

func helpCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "help",
		Aliases:     []string{"help"},
		Description: "Displays help information about a command",
		Usage:       "help <command>",
		Examples:    []string{"help kick"},
		Category:    "info",
		Slash:       true,
		Args: []command.Argument{
			{
				Name:        "command",
				Description: "The command to get information about",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			cmd := d.Registry.FindByAlias(args.String("command"))
			if cmd == nil {
				ctx.ReplyEmbed(helpOverview(d.Registry))
				return
			}
			ctx.ReplyEmbed(helpDetail(cmd))
		},
	}
}

// helpOverview lists every command id grouped by category.
func helpOverview(registry *command.Registry) *discordgo.MessageEmbed {
	byCategory := map[string][]string{}
	for _, cmd := range registry.All() {
		byCategory[cmd.Category] = append(byCategory[cmd.Category], utils.InlineCode(cmd.ID))
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	fields := make([]*discordgo.MessageEmbedField, 0, len(categories))
	for _, cat := range categories {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  cat,
			Value: strings.Join(byCategory[cat], ", "),
		})
	}
	return &discordgo.MessageEmbed{
		Color:  utils.Colors.Base(),
		Fields: fields,
	}
}

func helpDetail(cmd *command.Command) *discordgo.MessageEmbed {
	description := cmd.Description
	if cmd.Slash {
		description += "\n*Works with slash commands!*"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Required Perms", Value: permList(cmd.UserPerms)},
		{Name: "Aliases", Value: inlineList(cmd.Aliases)},
		{Name: "Usage", Value: utils.InlineCode(cmd.Usage)},
		{Name: "Examples", Value: inlineLines(cmd.Examples)},
	}
	for _, arg := range cmd.Args {
		text := heredoc.Docf(`
			%s
			Required: %s
			Type: %s`,
			arg.Description,
			utils.InlineCode(boolWord(arg.Required)),
			utils.InlineCode(argTypeNames[arg.Type]),
		)
		if arg.Type == command.ArgFlag {
			text += "\nFlag Type: " + utils.InlineCode(flagTypeNames[arg.FlagType])
		}
		if len(arg.Choices) > 0 {
			choices := make([]string, len(arg.Choices))
			for i, c := range arg.Choices {
				choices[i] = utils.InlineCode(c.Label)
			}
			text += "\nChoices: " + strings.Join(choices, ", ")
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: arg.Name, Value: text})
	}

	return &discordgo.MessageEmbed{
		Color:       utils.Colors.Base(),
		Title:       strings.ToUpper(cmd.ID[:1]) + cmd.ID[1:],
		Description: description,
		Fields:      fields,
	}
}

func permList(perms []int64) string {
	if len(perms) == 0 {
		return "None"
	}
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = utils.InlineCode(utils.PermissionName(p))
	}
	return strings.Join(names, ", ")
}

func inlineList(items []string) string {
	coded := make([]string, len(items))
	for i, v := range items {
		coded[i] = utils.InlineCode(v)
	}
	return strings.Join(coded, ", ")
}

func inlineLines(items []string) string {
	coded := make([]string, len(items))
	for i, v := range items {
		coded[i] = utils.InlineCode(v)
	}
	return strings.Join(coded, "\n")
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
