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

const decidedDecisionsCommandName = "decided_decisions"

type decidedDecisionsCommand struct {
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewDecidedDecisionsCommand(decisionService services.DecisionService, logger *zap.SugaredLogger) Command {
	return &decidedDecisionsCommand{
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *decidedDecisionsCommand) CanHandle(command string) bool {
	return command == decidedDecisionsCommandName
}

func (c *decidedDecisionsCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	decisions, err := c.decisionService.ListByWorkspace(workspace.ID)
	if err != nil {
		c.logger.Errorw("failed to get decisions", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	var b strings.Builder
	for _, decision := range decisions {
		if !decision.Status.IsTerminal() {
			continue
		}

		switch decision.Status {
		case models.DecisionStatusDecided:
			fmt.Fprintf(&b, "%s: decided on %s\n", decision.Title, internal.Format(decision.DecidedAt))
			fmt.Fprintf(&b, "Outcome: %s\n", decision.FinalDecision)
		case models.DecisionStatusCancelled:
			fmt.Fprintf(&b, "%s: cancelled\n", decision.Title)
		}

		tally := services.CalculateTally(decision.Votes)
		fmt.Fprintf(&b, "Votes cast: %d\n\n", tally.Total())
	}

	if b.Len() == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "No settled decisions in this workspace yet.")}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, b.String())}
}
