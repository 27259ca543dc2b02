// Package bot assembles the session, the stores, the command pipeline and
// the background tasks into a runnable process.
package bot

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/automod"
	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/commands"
	"github.com/oxi1224/WhiteHatMod/internal/config"
	"github.com/oxi1224/WhiteHatMod/internal/events"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/scheduler"
	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// Bot holds every long-lived component of the process.
type Bot struct {
	session    *discordgo.Session
	config     *config.Config
	store      *store.Store
	registry   *command.Registry
	dispatcher *command.Dispatcher
	events     chan moderation.Event
	actions    *moderation.Actions
	ledger     *moderation.Ledger
	infractions *moderation.Infractions
	sweeper    *moderation.Sweeper
	watcher    *automod.Watcher
	relay      *events.Relay
	scheduler  *scheduler.Scheduler

	ready atomic.Bool // guards event handling until startup completes
}

// New wires a bot from configuration. The session is not opened yet.
func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.GetBotToken())
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildModeration |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentDirectMessages

	st, err := store.Open(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("error opening store: %w", err)
	}

	eventCh := moderation.NewEventChannel()
	actions := moderation.NewActions(session, st, cfg.Logger, eventCh)

	registry := command.NewRegistry()
	bot := &Bot{
		session:     session,
		config:      cfg,
		store:       st,
		registry:    registry,
		events:      eventCh,
		actions:     actions,
		ledger:      moderation.NewLedger(session, st, cfg.Logger),
		infractions: moderation.NewInfractions(session, st, actions, cfg.Logger, eventCh, ""),
		sweeper:     moderation.NewSweeper(session, st, cfg.Logger, eventCh, ""),
		watcher:     automod.NewWatcher(session, st, actions, cfg.Logger, eventCh, ""),
		relay:       events.NewRelay(session, st, cfg.Logger, ""),
		scheduler:   scheduler.New(cfg.Logger),
	}

	dispatcher := command.NewDispatcher(registry, st, cfg.Logger)
	dispatcher.DefaultPrefix = cfg.GetDefaultPrefix()
	dispatcher.FlagPrefix = cfg.GetFlagPrefix()
	dispatcher.OnError = bot.reportError
	bot.dispatcher = dispatcher

	deps := commands.NewDeps(session, registry, st, st, actions, bot.infractions, eventCh, cfg.Logger)
	if err := registry.Register(commands.All(deps)...); err != nil {
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)
	session.AddHandler(bot.relay.HandleMemberAdd)
	session.AddHandler(bot.relay.HandleMemberUpdate)
	session.AddHandler(bot.relay.HandleMessageDelete)
	session.AddHandler(bot.relay.HandleMessageUpdate)
	session.AddHandler(bot.relay.HandleChannelCreate)
	session.AddHandler(bot.relay.HandleChannelDelete)

	return bot, nil
}

// Start opens the session and blocks until the process is interrupted.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.config.Logger.Warn("error closing Discord session:", "err", err)
		}
	}()
	defer b.store.Close()

	if err := b.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	go b.ledger.Listen(b.events)

	if err := b.scheduler.RegisterFunc("@every 10s", "remove-expired-punishments", b.sweeper.Sweep); err != nil {
		return fmt.Errorf("error registering expiry sweep: %w", err)
	}
	if err := b.scheduler.RegisterFunc("@hourly", "log-rotation", func() {
		if err := b.config.PruneOldLogFiles(); err != nil {
			b.config.Logger.Errorf("failed to prune log files: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("error registering log rotation: %w", err)
	}
	b.scheduler.Start()
	defer b.scheduler.Stop()

	b.ready.Store(true)
	b.config.Logger.Info("Initialization complete; bot is now running. Press CTRL+C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

// registerSlashCommands bulk-overwrites the application command set: to
// the main guild in dev for instant propagation, globally otherwise.
func (b *Bot) registerSlashCommands() error {
	var payload []*discordgo.ApplicationCommand
	for _, cmd := range b.registry.All() {
		if cmd.Slash {
			payload = append(payload, cmd.ApplicationCommand())
		}
	}

	guildID := ""
	if b.config.IsDev() {
		guildID = b.config.GetMainGuildID()
	}
	_, err := b.session.ApplicationCommandBulkOverwrite(b.config.GetAppID(), guildID, payload)
	return err
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.config.Logger.Infof("Logged in as %s", r.User.Username)

	// Escalation bans and closing ledger entries are attributed to the
	// bot's own member.
	b.infractions.BotID = r.User.ID
	b.sweeper.BotID = r.User.ID
	b.watcher.BotID = r.User.ID
	b.relay.BotID = r.User.ID
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.ready.Load() {
		return
	}
	b.watcher.HandleMessage(s, m)
	b.dispatcher.HandleMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.ready.Load() {
		if i.Type == discordgo.InteractionApplicationCommand {
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "Bot is starting up, try again in a few seconds.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		}
		return
	}
	b.dispatcher.HandleInteraction(s, i)
}

// reportError receives panics escaping command callbacks. In dev the
// panic is rethrown so it surfaces immediately; in prod the stack is
// posted to the configured error channel in code-block chunks.
func (b *Bot) reportError(recovered any, stack []byte) {
	if b.config.IsDev() {
		panic(recovered)
	}
	b.config.Logger.Errorf("unhandled command error: %v", recovered)

	channelID := b.config.GetErrorChannelID()
	if channelID == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, fmt.Sprintf("Unhandled error: %v", recovered)); err != nil {
		b.config.Logger.Warnf("failed to post error report: %v", err)
		return
	}
	for _, chunk := range utils.ChunkString(string(stack), 1900) {
		if _, err := b.session.ChannelMessageSend(channelID, utils.CodeBlock("", chunk)); err != nil {
			b.config.Logger.Warnf("failed to post error report chunk: %v", err)
			return
		}
	}
}
