package commands

import (
	"decision_governance_system/internal/db/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const startCommandName = "start"

type startCommand struct {
	logger *zap.SugaredLogger
}

func NewStartCommand(logger *zap.SugaredLogger) Command {
	return &startCommand{logger: logger}
}

func (c *startCommand) CanHandle(command string) bool {
	return command == startCommandName
}

func (c *startCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	messageText := `
Hi! I track team decisions in this workspace. Here is what I can do:

/propose_decision - propose a new decision for the team to vote on.
/open_decisions - list decisions that are currently open for voting, with their tallies.
/decided_decisions - list settled and cancelled decisions.
/cast_vote - vote on an open decision (approve, reject, abstain or raise a concern).
/finalize_decision - close one of your decisions with a binding summary.
/cancel_decision - cancel one of your decisions.

Voting is open while a decision is proposed or in voting; the proposer is the only one who can finalize or cancel it.
`
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}
