package commands

import (
	"fmt"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/services"
	tgbot "decision_governance_system/internal/tg_bot/extension"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	finalizeDecisionCommandName = "finalize_decision"

	waitingForFinalizeDecisionState = "waiting_for_finalize_decision"
	waitingForSummaryState          = "waiting_for_summary"
)

type finalizeDecisionCommand struct {
	userRepository  repositories.UserRepository
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewFinalizeDecisionCommand(
	userRepository repositories.UserRepository,
	decisionService services.DecisionService,
	logger *zap.SugaredLogger,
) Command {
	return &finalizeDecisionCommand{
		userRepository:  userRepository,
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *finalizeDecisionCommand) CanHandle(command string) bool {
	return command == finalizeDecisionCommandName
}

func (c *finalizeDecisionCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	if text == finalizeDecisionCommandName {
		return c.handleFinalizeDecisionCommand(user, workspace, chatID)
	}

	switch user.TelegramState.LastCommandState {
	case waitingForFinalizeDecisionState:
		return c.handleWaitingForDecisionState(text, user, workspace, chatID)
	case waitingForSummaryState:
		return c.handleWaitingForSummaryState(text, user, chatID)
	default:
		c.logger.Errorf("user has unknown state: %s", user.TelegramState.LastCommandState)
		return nil
	}
}

func (c *finalizeDecisionCommand) handleFinalizeDecisionCommand(user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	owned, errMessage := c.ownedOpenDecisions(user, workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	if len(owned) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "You have no open decisions to finalize.")}
	}

	if message := c.updateUserState(user, waitingForFinalizeDecisionState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	messageText := fmt.Sprintf("Which decision do you want to finalize? Send its number.\n\n%s", numberedList(owned))
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *finalizeDecisionCommand) handleWaitingForDecisionState(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	owned, errMessage := c.ownedOpenDecisions(user, workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	decision, ok := pickDecision(owned, text)
	if !ok {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Please send the number of a decision from the list.")}
	}

	user.TempDecision = models.Decision{ID: decision.ID, Title: decision.Title}

	if message := c.updateUserState(user, waitingForSummaryState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	messageText := fmt.Sprintf("What was decided on %q? This summary becomes the binding outcome.", decision.Title)
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *finalizeDecisionCommand) handleWaitingForSummaryState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	decision, err := c.decisionService.Finalize(user.TempDecision.ID, text, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyFinalDecision):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "The summary cannot be empty. What was decided?")}
		case errors.Is(err, models.ErrUnauthorized):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Only the proposer can finalize a decision.")}
		case errors.Is(err, models.ErrInvalidTransition):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "This decision has already been settled.")}
		case errors.Is(err, models.ErrNotFound):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "This decision no longer exists.")}
		default:
			c.logger.Errorw("failed to finalize decision", "error", err)
			return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
		}
	}

	user.TempDecision = models.Decision{}
	user.TelegramState = models.TelegramState{}
	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
	}

	messageText := fmt.Sprintf("Finalized %q. The outcome will be announced to the workspace.", decision.Title)
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *finalizeDecisionCommand) ownedOpenDecisions(user *models.User, workspace *models.Workspace, chatID int64) ([]*models.Decision, tgbotapi.Chattable) {
	decisions, err := c.decisionService.ListByWorkspace(workspace.ID)
	if err != nil {
		c.logger.Errorw("failed to get decisions", "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	return ownedVotableOf(decisions, user.ID), nil
}

func (c *finalizeDecisionCommand) updateUserState(user *models.User, state string, chatID int64) tgbotapi.Chattable {
	user.TelegramState.LastCommand = finalizeDecisionCommandName
	user.TelegramState.LastCommandState = state

	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
		return tgbot.DefaultErrorMessage(chatID)
	}

	return nil
}
