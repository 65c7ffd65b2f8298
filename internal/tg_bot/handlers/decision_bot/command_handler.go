package dbhandlers

import (
	"strings"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/notifications"
	"decision_governance_system/internal/tg_bot/commands"
	tgbot "decision_governance_system/internal/tg_bot/extension"
	"decision_governance_system/internal/tg_bot/handlers"

	"github.com/google/uuid"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type decisionBotCommandHandler struct {
	userRepository      repositories.UserRepository
	workspaceRepository repositories.WorkspaceRepository
	outcomeWatcher      *notifications.OutcomeWatcher
	logger              *zap.SugaredLogger

	commands []commands.Command
}

func NewDecisionBotCommandHandler(
	userRepository repositories.UserRepository,
	workspaceRepository repositories.WorkspaceRepository,
	outcomeWatcher *notifications.OutcomeWatcher,
	logger *zap.SugaredLogger,
	commands []commands.Command,
) handlers.CommandHandler {
	return &decisionBotCommandHandler{
		userRepository:      userRepository,
		workspaceRepository: workspaceRepository,
		outcomeWatcher:      outcomeWatcher,
		logger:              logger,
		commands:            commands,
	}
}

func (h *decisionBotCommandHandler) Handle(update tgbotapi.Update) []tgbotapi.Chattable {
	message := update.Message
	if message == nil {
		return []tgbotapi.Chattable{}
	}

	telegramUser := message.From
	if telegramUser == nil || telegramUser.IsBot {
		return []tgbotapi.Chattable{}
	}

	chatID := message.Chat.ID

	user, errMessage := h.createUserIfNeeded(telegramUser, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	workspace, errMessage := h.createWorkspaceIfNeeded(message.Chat, telegramUser)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	if message.IsCommand() {
		h.logger.Infow("received command", "command", message.Command())
		return h.tryToHandleCommand(message.Command(), user, workspace, chatID)
	}

	if user.TelegramState.LastCommand != "" {
		h.logger.Infow("received subcommand", "subcommand", message.Text)
		return h.tryToHandleSubCommand(user.TelegramState.LastCommand, message.Text, user, workspace, chatID)
	}

	return []tgbotapi.Chattable{}
}

func (h *decisionBotCommandHandler) createUserIfNeeded(telegramUser *tgbotapi.User, chatID int64) (*models.User, tgbotapi.Chattable) {
	user, err := h.userRepository.GetOneByTelegramID(telegramUser.ID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, models.ErrNotFound) {
		h.logger.Errorw("failed to get user", "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	var nameParts []string
	if telegramUser.FirstName != "" {
		nameParts = append(nameParts, telegramUser.FirstName)
	}
	if telegramUser.LastName != "" {
		nameParts = append(nameParts, telegramUser.LastName)
	}

	user, err = h.userRepository.Create(&models.User{
		Name:             strings.Join(nameParts, " "),
		TelegramID:       telegramUser.ID,
		TelegramNickname: telegramUser.UserName,
	})
	if err != nil {
		h.logger.Errorw("failed to create user", "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	return user, nil
}

func (h *decisionBotCommandHandler) createWorkspaceIfNeeded(chat *tgbotapi.Chat, telegramUser *tgbotapi.User) (*models.Workspace, tgbotapi.Chattable) {
	workspace, err := h.workspaceRepository.GetOneByTelegramChatID(chat.ID)
	if err == nil {
		return workspace, nil
	}

	if !errors.Is(err, models.ErrNotFound) {
		h.logger.Errorw("failed to get workspace", "error", err)
		return nil, tgbot.DefaultErrorMessage(chat.ID)
	}

	name := chat.Title
	if name == "" {
		name = telegramUser.UserName
	}

	workspace, err = h.workspaceRepository.Create(&models.Workspace{
		ID:             uuid.NewString(),
		Name:           name,
		TelegramChatID: chat.ID,
	})
	if err != nil {
		h.logger.Errorw("failed to create workspace", "error", err)
		return nil, tgbot.DefaultErrorMessage(chat.ID)
	}

	if h.outcomeWatcher != nil {
		h.outcomeWatcher.Watch(workspace)
	}

	return workspace, nil
}

func (h *decisionBotCommandHandler) tryToHandleCommand(command string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			user.TempDecision = models.Decision{}
			user.TelegramState = models.TelegramState{LastCommand: command}

			user, err := h.userRepository.Update(user)
			if err != nil {
				h.logger.Errorw("failed to update user", "error", err)
			}

			return handler.Handle(command, user, workspace, chatID)
		}
	}

	h.logger.Warnw("received unknown command", "command", command)
	return []tgbotapi.Chattable{}
}

func (h *decisionBotCommandHandler) tryToHandleSubCommand(command, subCommand string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable {
	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			responseMessage := handler.Handle(subCommand, user, workspace, chatID)
			if responseMessage == nil {
				h.logger.Errorw("failed to handle subcommand", "subCommand", subCommand)
				break
			}

			return responseMessage
		}
	}

	h.logger.Errorf("received unknown subcommand: %s for command: %s", subCommand, command)
	return []tgbotapi.Chattable{}
}
