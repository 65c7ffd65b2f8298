package notifications

import (
	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAnnouncer struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramAnnouncer(bot *tgbotapi.BotAPI) Announcer {
	return &telegramAnnouncer{bot: bot}
}

func (a *telegramAnnouncer) AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	message := tgbotapi.NewMessage(workspace.TelegramChatID, outcomeText(decision, tally))
	_, err := a.bot.Send(message)
	return err
}

func (a *telegramAnnouncer) AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	message := tgbotapi.NewMessage(workspace.TelegramChatID, reminderText(decision, tally))
	_, err := a.bot.Send(message)
	return err
}
