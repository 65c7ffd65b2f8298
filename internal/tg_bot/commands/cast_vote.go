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
	castVoteCommandName = "cast_vote"

	waitingForDecisionState = "waiting_for_decision"
	waitingForChoiceState   = "waiting_for_choice"
)

type castVoteCommand struct {
	userRepository  repositories.UserRepository
	voteRepository  repositories.VoteRepository
	decisionService services.DecisionService
	logger          *zap.SugaredLogger
}

func NewCastVoteCommand(
	userRepository repositories.UserRepository,
	voteRepository repositories.VoteRepository,
	decisionService services.DecisionService,
	logger *zap.SugaredLogger,
) Command {
	return &castVoteCommand{
		userRepository:  userRepository,
		voteRepository:  voteRepository,
		decisionService: decisionService,
		logger:          logger,
	}
}

func (c *castVoteCommand) CanHandle(command string) bool {
	return command == castVoteCommandName
}

func (c *castVoteCommand) Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	if text == castVoteCommandName {
		return c.handleCastVoteCommand(user, workspace, chatID)
	}

	switch user.TelegramState.LastCommandState {
	case waitingForDecisionState:
		return c.handleWaitingForDecisionState(text, user, workspace, chatID)
	case waitingForChoiceState:
		return c.handleWaitingForChoiceState(text, user, chatID)
	default:
		c.logger.Errorf("user has unknown state: %s", user.TelegramState.LastCommandState)
		return nil
	}
}

func (c *castVoteCommand) handleCastVoteCommand(user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	open, errMessage := c.openDecisions(workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	if len(open) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "No decisions are open for voting right now.")}
	}

	if message := c.updateUserState(user, waitingForDecisionState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	messageText := fmt.Sprintf("Which decision do you want to vote on? Send its number.\n\n%s", numberedList(open))
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *castVoteCommand) handleWaitingForDecisionState(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	open, errMessage := c.openDecisions(workspace, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	decision, ok := pickDecision(open, text)
	if !ok {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Please send the number of a decision from the list.")}
	}

	user.TempDecision = models.Decision{ID: decision.ID, Title: decision.Title}

	if message := c.updateUserState(user, waitingForChoiceState, chatID); message != nil {
		return []tgbotapi.Chattable{message}
	}

	message := tgbotapi.NewMessage(chatID, fmt.Sprintf("Your vote on %q?", decision.Title))
	message.ReplyMarkup = voteChoiceKeyboard()
	return []tgbotapi.Chattable{message}
}

func (c *castVoteCommand) handleWaitingForChoiceState(text string, user *models.User, chatID int64) []tgbotapi.Chattable {
	choice := models.VoteChoice(strings.ToLower(strings.TrimSpace(text)))
	if !choice.Valid() {
		message := tgbotapi.NewMessage(chatID, "Please pick one of the suggested choices.")
		message.ReplyMarkup = voteChoiceKeyboard()
		return []tgbotapi.Chattable{message}
	}

	decisionID := user.TempDecision.ID
	decisionTitle := user.TempDecision.Title

	_, err := c.decisionService.CastVote(decisionID, user.ID, choice)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDecisionNotVotable):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "Voting on this decision has already closed.")}
		case errors.Is(err, models.ErrNotFound):
			return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "This decision no longer exists.")}
		default:
			c.logger.Errorw("failed to cast vote", "error", err)
			return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
		}
	}

	user.TempDecision = models.Decision{}
	user.TelegramState = models.TelegramState{}
	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
	}

	messageText := fmt.Sprintf("Recorded your %s vote on %q.", choice, decisionTitle)

	votes, err := c.voteRepository.GetManyByDecision(decisionID)
	if err != nil {
		c.logger.Errorw("failed to get votes", "error", err)
	} else {
		tally := services.CalculateTally(votes)
		parts := make([]string, 0, len(models.VoteChoices))
		for _, knownChoice := range models.VoteChoices {
			parts = append(parts, fmt.Sprintf("%s %d", knownChoice.CapitalizedString(), tally[knownChoice]))
		}
		messageText += fmt.Sprintf("\nCurrent tally: %s", strings.Join(parts, ", "))
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, messageText)}
}

func (c *castVoteCommand) openDecisions(workspace *models.Workspace, chatID int64) ([]*models.Decision, tgbotapi.Chattable) {
	decisions, err := c.decisionService.ListByWorkspace(workspace.ID)
	if err != nil {
		c.logger.Errorw("failed to get decisions", "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	return votableOf(decisions), nil
}

func (c *castVoteCommand) updateUserState(user *models.User, state string, chatID int64) tgbotapi.Chattable {
	user.TelegramState.LastCommand = castVoteCommandName
	user.TelegramState.LastCommandState = state

	if _, err := c.userRepository.Update(user); err != nil {
		c.logger.Errorw("failed to update user", "error", err)
		return tgbot.DefaultErrorMessage(chatID)
	}

	return nil
}

func voteChoiceKeyboard() tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(models.VoteChoices))
	for _, choice := range models.VoteChoices {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(choice.CapitalizedString()))
	}
	return tgbotapi.NewOneTimeReplyKeyboard(buttons)
}
