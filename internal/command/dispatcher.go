package command

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// GuildConfigSource is the slice of the store the dispatcher needs.
type GuildConfigSource interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
}

// Dispatcher routes inbound messages and interactions to registered
// commands, enforcing the gate sequence: resolve, guild context, user
// permissions, bot permissions, command-channel restriction, argument
// parsing, required arguments, execute.
type Dispatcher struct {
	Registry *Registry
	Configs  GuildConfigSource
	Logger   *log.Logger
	// DefaultPrefix is used before a guild configures its own.
	DefaultPrefix string
	FlagPrefix    string
	// OnError receives panics escaping command callbacks.
	OnError func(recovered any, stack []byte)

	opts dispatchOpts
}

// dispatchOpts are the remote-call seams, swapped in tests.
type dispatchOpts struct {
	permissions func(s *discordgo.Session, guildID, channelID, userID string) (int64, error)
	resolver    func(s *discordgo.Session, guildID string) Resolver
	sendMessage func(s *discordgo.Session, channelID string, send *discordgo.MessageSend) error
	respond     func(s *discordgo.Session, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	followup    func(s *discordgo.Session, i *discordgo.Interaction, params *discordgo.WebhookParams) error
	now         func() time.Time
}

func defaultDispatchOpts() dispatchOpts {
	return dispatchOpts{
		permissions: func(s *discordgo.Session, guildID, channelID, userID string) (int64, error) {
			return s.UserChannelPermissions(userID, channelID)
		},
		resolver: func(s *discordgo.Session, guildID string) Resolver {
			return NewSessionResolver(s, guildID)
		},
		sendMessage: func(s *discordgo.Session, channelID string, send *discordgo.MessageSend) error {
			_, err := s.ChannelMessageSendComplex(channelID, send)
			return err
		},
		respond: func(s *discordgo.Session, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
			return s.InteractionRespond(i, resp)
		},
		followup: func(s *discordgo.Session, i *discordgo.Interaction, params *discordgo.WebhookParams) error {
			_, err := s.FollowupMessageCreate(i, false, params)
			return err
		},
		now: time.Now,
	}
}

// NewDispatcher wires a dispatcher over the registry and config source.
func NewDispatcher(registry *Registry, configs GuildConfigSource, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		Registry:      registry,
		Configs:       configs,
		Logger:        logger,
		DefaultPrefix: "!",
		FlagPrefix:    "--",
		opts:          defaultDispatchOpts(),
	}
}

// HandleMessage processes a prefixed text command.
func (d *Dispatcher) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	prefix := d.DefaultPrefix
	var cfg *store.GuildConfig
	if m.GuildID != "" {
		var err error
		cfg, err = d.Configs.GuildConfig(m.GuildID)
		if err != nil {
			d.Logger.Errorf("failed to load guild config for %s: %v", m.GuildID, err)
		} else if cfg.Prefix != "" {
			prefix = cfg.Prefix
		}
	}

	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	body := m.Content[len(prefix):]
	name, rest, _ := strings.Cut(body, " ")
	cmd := d.Registry.FindByAlias(name)
	if cmd == nil {
		// Unknown commands are silently ignored.
		return
	}

	if cmd.GuildOnly && (m.GuildID == "" || m.Member == nil) {
		return
	}

	ctx := MessageContext(s, d.Logger, m, func(channelID string, send *discordgo.MessageSend) error {
		return d.opts.sendMessage(s, channelID, send)
	})

	if !d.checkPermissions(ctx, cmd) {
		return
	}
	if !d.checkCommandChannel(ctx, cfg) {
		return
	}

	parser := &TextParser{
		FlagPrefix: d.FlagPrefix,
		Resolver:   d.opts.resolver(s, m.GuildID),
		Now:        d.opts.now,
	}
	args := parser.Parse(rest, cmd.Args)

	if !d.checkRequired(ctx, cmd, args) {
		return
	}
	d.execute(cmd, ctx, args)
}

// HandleInteraction processes a slash command invocation.
func (d *Dispatcher) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	cmd := d.Registry.Get(data.Name)
	if cmd == nil {
		return
	}

	if cmd.GuildOnly && (i.GuildID == "" || i.Member == nil) {
		return
	}

	ctx := &Context{
		Session:     s,
		Logger:      d.Logger,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Member:      i.Member,
		Interaction: i,
		respond: func(in *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
			return d.opts.respond(s, in, resp)
		},
		followup: func(in *discordgo.Interaction, params *discordgo.WebhookParams) error {
			return d.opts.followup(s, in, params)
		},
	}
	if i.Member != nil {
		ctx.Author = i.Member.User
	} else if i.User != nil {
		ctx.Author = i.User
	}

	if !d.checkPermissions(ctx, cmd) {
		return
	}

	var cfg *store.GuildConfig
	if i.GuildID != "" {
		var err error
		cfg, err = d.Configs.GuildConfig(i.GuildID)
		if err != nil {
			d.Logger.Errorf("failed to load guild config for %s: %v", i.GuildID, err)
		}
	}
	if !d.checkCommandChannel(ctx, cfg) {
		return
	}

	args := ParseInteraction(data, cmd.Args, d.opts.now())

	if !d.checkRequired(ctx, cmd, args) {
		return
	}
	d.execute(cmd, ctx, args)
}

// checkPermissions verifies the invoking member first, then the bot's own
// member. The user-side failure message always wins when both are short.
func (d *Dispatcher) checkPermissions(ctx *Context, cmd *Command) bool {
	if ctx.GuildID == "" {
		return true
	}

	userPerms, err := d.opts.permissions(ctx.Session, ctx.GuildID, ctx.ChannelID, ctx.InvokerID())
	if err != nil {
		d.Logger.Errorf("failed to compute member permissions: %v", err)
		return false
	}
	if missing := utils.MissingPermNames(userPerms, cmd.UserPerms); len(missing) > 0 {
		_ = ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Info(),
			Description: "You are missing the following permissions: " + utils.InlineCode(strings.Join(missing, ", ")),
		})
		return false
	}

	botID := ""
	if ctx.Session.State != nil && ctx.Session.State.User != nil {
		botID = ctx.Session.State.User.ID
	}
	botPerms, err := d.opts.permissions(ctx.Session, ctx.GuildID, ctx.ChannelID, botID)
	if err != nil {
		d.Logger.Errorf("failed to compute bot permissions: %v", err)
		return false
	}
	if missing := utils.MissingPermNames(botPerms, cmd.BotPerms); len(missing) > 0 {
		_ = ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Info(),
			Description: "I am missing the following permissions: " + utils.InlineCode(strings.Join(missing, ", ")),
		})
		return false
	}
	return true
}

// checkCommandChannel enforces the guild's allowed-command-channel list.
// Members who can manage messages bypass the restriction.
func (d *Dispatcher) checkCommandChannel(ctx *Context, cfg *store.GuildConfig) bool {
	if cfg == nil || len(cfg.CommandChannels) == 0 || cfg.CommandChannels.Contains(ctx.ChannelID) {
		return true
	}

	perms, err := d.opts.permissions(ctx.Session, ctx.GuildID, ctx.ChannelID, ctx.InvokerID())
	if err == nil && utils.HasPermission(perms, discordgo.PermissionManageMessages) {
		return true
	}

	mentions := make([]string, len(cfg.CommandChannels))
	for idx, id := range cfg.CommandChannels {
		mentions[idx] = utils.ChannelMention(id)
	}
	_ = ctx.Reply("Commands must be done in the following channels: " + strings.Join(mentions, ", "))
	return false
}

// checkRequired rejects the invocation naming the first required argument
// that parsed to nothing.
func (d *Dispatcher) checkRequired(ctx *Context, cmd *Command, args Args) bool {
	for _, def := range cmd.Args {
		if def.Required && !args.Has(def.Name) {
			_ = ctx.Reply("Invalid required argument: " + utils.InlineCode(def.Name))
			return false
		}
	}
	return true
}

func (d *Dispatcher) execute(cmd *Command, ctx *Context, args Args) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.Logger.Errorf("command %s panicked: %v", cmd.ID, r)
			if d.OnError != nil {
				d.OnError(fmt.Sprintf("command %s: %v", cmd.ID, r), stack)
			}
		}
	}()
	cmd.Execute(ctx, args)
}
