package commands

import (
	"fmt"
	"strings"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/services"
	tgbot "decision_governance_system/internal/tg_bot/extension"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	cancelDecisionCommandName = "cancel_decision"

	waitingForCancelDecisionState = "waiting_for_cancel_decision"
	waitingForCancelConfirmState  = "waiting_for_cancel_confirm"
)

type cancelDecisionCommand struct {
	userRepository  repositories.UserRepository
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewCancelDecisionCommand(
	userRepository repositories.UserRepository,
	decisionService services.DecisionService,
	logger *zap.SugaredLogger,
) Command {
	return &cancelDecisionCommand{
		userRepository:  userRepository,
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *cancelDecisionCommand) CanHandle(command string) bool {
	return command == cancelDecisionCommandName
}

func (c *cancelDecisionCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	if text == cancelDecisionCommandName {
		return c.handleCancelDecisionCommand(user, workspace, chatID)
	}

	switch user.TelegramState.LastCommandState {
	case waitingForCancelDecisionState:
		return c.handleWaitingForDecisionState(text, user, workspace, chatID)
	case waitingForCancelConfirmState:
		return c.handleWaitingForConfirmState(text, user, chatID)
	default:
		c.logger.Errorf("user has unknown state: %s", user.TelegramState.LastCommandState)
		return nil
	}
}

func (c *cancelDecisionCommand) handleCancelDecisionCommand(user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	owned, errMessage := c.ownedOpenDecisions(user, workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	if len(owned) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "You have no open decisions to cancel.")}
	}

	if message := c.updateUserState(user, waitingForCancelDecisionState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	messageText := fmt.Sprintf("Which decision do you want to cancel? Send its number.\n\n%s", numberedList(owned))
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *cancelDecisionCommand) handleWaitingForDecisionState(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	owned, errMessage := c.ownedOpenDecisions(user, workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	decision, ok := pickDecision(owned, text)
	if !ok {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Please send the number of a decision from the list.")}
	}

	user.TempDecision = models.Decision{ID: decision.ID, Title: decision.Title}

	if message := c.updateUserState(user, waitingForCancelConfirmState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	message := tgbotapi.NewMessage(chatID, fmt.Sprintf("Cancel %q? Votes already cast stay on record.", decision.Title))
	message.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(confirmYes),
			tgbotapi.NewKeyboardButton(confirmNo),
		),
	)
	return []tgbotapi.Chattable{message}
}

func (c *cancelDecisionCommand) handleWaitingForConfirmState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	decisionTitle := user.TempDecision.Title
	decisionID := user.TempDecision.ID

	if strings.TrimSpace(text) != confirmYes {
		user.TempDecision = models.Decision{}
		user.TelegramState = models.TelegramState{}
		if _, err := c.userRepository.Update(user); err != nil {
			c.logger.Errorw("failed to update user", "error", err)
		}
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Nothing cancelled.")}
	}

	_, err := c.decisionService.Cancel(decisionID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Only the proposer can cancel a decision.")}
		case errors.Is(err, models.ErrInvalidTransition):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "This decision has already been settled.")}
		case errors.Is(err, models.ErrNotFound):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "This decision no longer exists.")}
		default:
			c.logger.Errorw("failed to cancel decision", "error", err)
			return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
		}
	}

	user.TempDecision = models.Decision{}
	user.TelegramState = models.TelegramState{}
	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, fmt.Sprintf("Cancelled %q.", decisionTitle))}
}

func (c *cancelDecisionCommand) ownedOpenDecisions(user *models.User, workspace *models.Workspace, chatID int64) ([]*models.Decision, tgbotapi.Chattable) {
	decisions, err := c.decisionService.ListByWorkspace(workspace.ID)
	if err != nil {
		c.logger.Errorw("failed to get decisions", "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	return ownedVotableOf(decisions, user.ID), nil
}

func (c *cancelDecisionCommand) updateUserState(user *models.User, state string, chatID int64) tgbotapi.Chattable {
	user.TelegramState.LastCommand = cancelDecisionCommandName
	user.TelegramState.LastCommandState = state

	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
		return tgbot.DefaultErrorMessage(chatID)
	}

	return nil
}
