package commands

import (
	"fmt"
	"strings"

	"decision_governance_system/internal"
	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/services"
	tgbot "decision_governance_system/internal/tg_bot/extension"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const openDecisionsCommandName = "open_decisions"

type openDecisionsCommand struct {
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewOpenDecisionsCommand(decisionService services.DecisionService, logger *zap.SugaredLogger) Command {
	return &openDecisionsCommand{
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *openDecisionsCommand) CanHandle(command string) bool {
	return command == openDecisionsCommandName
}

func (c *openDecisionsCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	decisions, err := c.decisionService.ListByWorkspace(workspace.ID)
	if err != nil {
		c.logger.Errorw("failed to get decisions", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	open := votableOf(decisions)
	if len(open) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "No decisions are open for voting right now.")}
	}

	var b strings.Builder
	for _, decision := range open {
		tally := services.CalculateTally(decision.Votes)

		fmt.Fprintf(&b, "%s (%s, %s)\n", decision.Title, decision.Type.CapitalizedString(), decision.Status)
		if decision.Description != "" {
			fmt.Fprintf(&b, "Context: %s\n", decision.Description)
		}
		fmt.Fprintf(&b, "Proposed on: %s\n", internal.Format(decision.CreatedAt))
		fmt.Fprintf(&b, "Votes: ")

		parts := make([]string, 0, len(models.VoteChoices))
		for _, choice := range models.VoteChoices {
			parts = append(parts, fmt.Sprintf("%s %d", choice.CapitalizedString(), tally[choice]))
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(parts, ", "))

		if choice, voted := services.VoteOf(decision.Votes, user.ID); voted {
			fmt.Fprintf(&b, "Your vote: %s\n", choice.CapitalizedString())
		}

		fmt.Fprintln(&b)
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, b.String())}
}
