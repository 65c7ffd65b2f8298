package commands

import (
	"fmt"
	"strings"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/services"
	tgbot "decision_governance_system/internal/tg_bot/extension"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	proposeDecisionCommandName = "propose_decision"

	waitingForTypeState        = "waiting_for_type"
	waitingForTitleState       = "waiting_for_title"
	waitingForDescriptionState = "waiting_for_description"
	waitingForConfirmState     = "waiting_for_confirm"

	skipDescription = "-"
)

type proposeDecisionCommand struct {
	userRepository  repositories.UserRepository
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewProposeDecisionCommand(
	userRepository repositories.UserRepository,
	decisionService services.DecisionService,
	logger *zap.SugaredLogger,
) Command {
	return &proposeDecisionCommand{
		userRepository:  userRepository,
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *proposeDecisionCommand) CanHandle(command string) bool {
	return command == proposeDecisionCommandName
}

func (c *proposeDecisionCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	if text == proposeDecisionCommandName {
		return c.handleProposeDecisionCommand(user, workspace, chatID)
	}

	switch user.TelegramState.LastCommandState {
	case waitingForTypeState:
		return c.handleWaitingForTypeState(text, user, chatID)
	case waitingForTitleState:
		return c.handleWaitingForTitleState(text, user, chatID)
	case waitingForDescriptionState:
		return c.handleWaitingForDescriptionState(text, user, chatID)
	case waitingForConfirmState:
		return c.handleWaitingForConfirmState(text, user, workspace, chatID)
	default:
		c.logger.Errorf("user has unknown state: %s", user.TelegramState.LastCommandState)
		return nil
	}
}

func (c *proposeDecisionCommand) handleProposeDecisionCommand(user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	user.TempDecision = models.Decision{
		WorkspaceID: workspace.ID,
		ProposedBy:  user.ID,
	}

	if message := c.updateUserState(user, waitingForTypeState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	message := tgbotapi.NewMessage(chatID, "What kind of decision is it?")
	message.ReplyMarkup = decisionTypeKeyboard()
	return []tgbotapi.Chattable{message}
}

func (c *proposeDecisionCommand) handleWaitingForTypeState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	decisionType := models.DecisionType(strings.ToLower(strings.TrimSpace(text)))
	if !decisionType.Valid() {
		message := tgbotapi.NewMessage(chatID, "Please pick one of the suggested decision types.")
		message.ReplyMarkup = decisionTypeKeyboard()
		return []tgbotapi.Chattable{message}
	}

	user.TempDecision.Type = decisionType

	if message := c.updateUserState(user, waitingForTitleState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "What is the decision about? Send a short title.")}
}

func (c *proposeDecisionCommand) handleWaitingForTitleState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	title := strings.TrimSpace(text)
	if title == "" {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "The title cannot be empty. Send a short title.")}
	}

	user.TempDecision.Title = title

	if message := c.updateUserState(user, waitingForDescriptionState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, fmt.Sprintf("Add some context if you like, or send %q to skip.", skipDescription))}
}

func (c *proposeDecisionCommand) handleWaitingForDescriptionState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	description := strings.TrimSpace(text)
	if description == skipDescription {
		description = ""
	}

	user.TempDecision.Description = description

	if message := c.updateUserState(user, waitingForConfirmState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	messageText := fmt.Sprintf(
		"Propose this decision?\n\nTitle: %s\nType: %s\nContext: %s",
		user.TempDecision.Title,
		user.TempDecision.Type.CapitalizedString(),
		description,
	)
	message := tgbotapi.NewMessage(chatID, messageText)
	message.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(confirmYes),
			tgbotapi.NewKeyboardButton(confirmNo),
		),
	)
	return []tgbotapi.Chattable{message}
}

func (c *proposeDecisionCommand) handleWaitingForConfirmState(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	if strings.TrimSpace(text) != confirmYes {
		return c.handleProposeDecisionCommand(user, workspace, chatID)
	}

	decision, err := c.decisionService.Propose(
		user.TempDecision.WorkspaceID,
		user.TempDecision.Title,
		user.TempDecision.Description,
		user.TempDecision.Type,
		user.ID,
	)
	if err != nil {
		c.logger.Errorw("failed to propose decision", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	user.TempDecision = models.Decision{}
	user.TelegramState = models.TelegramState{}
	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
	}

	messageText := fmt.Sprintf("Proposed: %s\nVoting is open, use /cast_vote to vote.", decision.Title)
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *proposeDecisionCommand) updateUserState(user *models.User, state string, chatID int64) tgbotapi.Chattable {
	user.TelegramState.LastCommand = proposeDecisionCommandName
	user.TelegramState.LastCommandState = state

	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
		return tgbot.DefaultErrorMessage(chatID)
	}

	return nil
}

func decisionTypeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(models.DecisionTypes))
	for _, decisionType := range models.DecisionTypes {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(decisionType.CapitalizedString()))
	}
	return tgbotapi.NewOneTimeReplyKeyboard(buttons)
}
