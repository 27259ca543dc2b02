package moderation

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

var responseEmotes = map[Kind]string{
	Success: "✅",
	Info:    "ℹ️",
	Error:   "❌",
}

func responseColor(k Kind) int {
	switch k {
	case Success:
		return utils.Colors.Ok()
	case Error:
		return utils.Colors.Error()
	default:
		return utils.Colors.Info()
	}
}

// ResponseEmbed formats an action result for the invoking channel.
func ResponseEmbed(res Response) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       responseColor(res.Kind),
		Description: responseEmotes[res.Kind] + " ***" + res.Message + "***",
	}
}

// ModlogEmbed formats one ledger entry for the moderation log channel.
func ModlogEmbed(caseID int, ev Event) *discordgo.MessageEmbed {
	reason := ev.Reason
	if reason == "" {
		reason = "N/A"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Moderator", Value: utils.UserMention(ev.ModeratorID), Inline: true},
		{Name: "Victim", Value: utils.UserMention(ev.VictimID), Inline: true},
		{Name: "Case ID", Value: strconv.Itoa(caseID), Inline: true},
		{Name: "Reason", Value: utils.InlineCode(reason)},
	}
	if ev.Expiry != nil {
		expires := "Never"
		if !ev.Expiry.IsZero() {
			expires = utils.UnixTimestamp(*ev.Expiry)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Expires", Value: expires})
	}

	return &discordgo.MessageEmbed{
		Color:     utils.Colors.Base(),
		Title:     "Action: " + string(ev.Type),
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
