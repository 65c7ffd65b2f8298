package notifications

import (
	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/services"

	"github.com/bwmarrin/discordgo"
)

type discordAnnouncer struct {
	session *discordgo.Session
}

// NewDiscordAnnouncer mirrors announcements into a workspace's Discord
// channel. Workspaces without a configured channel are skipped.
func NewDiscordAnnouncer(token string) (Announcer, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	return &discordAnnouncer{session: session}, nil
}

func (a *discordAnnouncer) AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	if workspace.DiscordChannelID == "" {
		return nil
	}

	_, err := a.session.ChannelMessageSend(workspace.DiscordChannelID, outcomeText(decision, tally))
	return err
}

func (a *discordAnnouncer) AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	if workspace.DiscordChannelID == "" {
		return nil
	}

	_, err := a.session.ChannelMessageSend(workspace.DiscordChannelID, reminderText(decision, tally))
	return err
}
