package command

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Context carries one dispatched invocation: the originating event,
// whichever transport it arrived on, and reply plumbing. Exactly one of
// Message and Interaction is set.
type Context struct {
	Session     *discordgo.Session
	Logger      *log.Logger
	GuildID     string
	ChannelID   string
	Member      *discordgo.Member
	Author      *discordgo.User
	Message     *discordgo.MessageCreate
	Interaction *discordgo.InteractionCreate

	// reply seams, swappable in tests
	sendMessage func(channelID string, send *discordgo.MessageSend) error
	respond     func(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	followup    func(i *discordgo.Interaction, params *discordgo.WebhookParams) error

	responded bool
}

// MessageContext builds the context for a message-triggered invocation.
// Replies go through send, which the dispatcher wires to the session and
// tests replace with a recorder.
func MessageContext(s *discordgo.Session, logger *log.Logger, m *discordgo.MessageCreate, send func(channelID string, msg *discordgo.MessageSend) error) *Context {
	ctx := &Context{
		Session:     s,
		Logger:      logger,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		Member:      m.Member,
		Author:      m.Author,
		Message:     m,
		sendMessage: send,
	}
	// MessageCreate members arrive without their user attached.
	if ctx.Member != nil && ctx.Member.User == nil {
		ctx.Member.User = m.Author
	}
	return ctx
}

// Reply sends plain text back on the invoking transport.
func (c *Context) Reply(content string) error {
	return c.send(content, nil)
}

// ReplyEmbed sends an embed back on the invoking transport.
func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return c.send("", embed)
}

func (c *Context) send(content string, embed *discordgo.MessageEmbed) error {
	if c.Interaction != nil {
		return c.sendInteraction(content, embed)
	}

	send := &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{embed}
	}
	if c.Message != nil {
		send.Reference = c.Message.Reference()
	}
	return c.sendMessage(c.ChannelID, send)
}

// sendInteraction responds to the interaction on first use and posts
// followups afterwards, since an interaction accepts only one response.
func (c *Context) sendInteraction(content string, embed *discordgo.MessageEmbed) error {
	var embeds []*discordgo.MessageEmbed
	if embed != nil {
		embeds = []*discordgo.MessageEmbed{embed}
	}
	if !c.responded {
		c.responded = true
		return c.respond(c.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         content,
				Embeds:          embeds,
				AllowedMentions: &discordgo.MessageAllowedMentions{},
			},
		})
	}
	return c.followup(c.Interaction.Interaction, &discordgo.WebhookParams{
		Content:         content,
		Embeds:          embeds,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
}

// InvokerID returns the id of the member or user who triggered the event.
func (c *Context) InvokerID() string {
	if c.Member != nil && c.Member.User != nil {
		return c.Member.User.ID
	}
	if c.Author != nil {
		return c.Author.ID
	}
	return ""
}

// TriggerMessageID is the id of the invoking message, empty on interactions.
func (c *Context) TriggerMessageID() string {
	if c.Message != nil {
		return c.Message.ID
	}
	return ""
}
