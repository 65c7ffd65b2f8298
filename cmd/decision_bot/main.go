package main

import (
	"decision_governance_system/configs"
	"decision_governance_system/internal/db"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/di"
	"decision_governance_system/internal/notifications"
	"decision_governance_system/internal/services"
	tg_bot "decision_governance_system/internal/tg_bot"
	"decision_governance_system/internal/tg_bot/commands"
	dbhandlers "decision_governance_system/internal/tg_bot/handlers/decision_bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()

	logger.Info("loading config")
	config, err := configs.LoadDecisionBotConfig()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	logger = di.NewLogger(config.Logger)

	logger.Info("starting db")
	database, err := db.StartDB(config.DB, logger)
	if err != nil {
		logger.Fatalw("failed to start db", "error", err)
	}
	logger.Info("db started")

	userRepository := repositories.NewUserRepository(database)
	workspaceRepository := repositories.NewWorkspaceRepository(database)
	decisionRepository := repositories.NewDecisionRepository(database)
	voteRepository := repositories.NewVoteRepository(database)

	decisionService := services.NewDecisionService(decisionRepository, voteRepository, logger)

	notifier := services.NewChangeNotifier(decisionRepository, config.Notifier.PollInterval, logger)
	outcomeWatcher := notifications.NewOutcomeWatcher(
		notifier,
		workspaceRepository,
		voteRepository,
		buildAnnouncer(config, logger),
		logger,
	)

	if err := outcomeWatcher.Start(); err != nil {
		logger.Errorw("failed to start outcome watcher", "error", err)
	}

	notifier.Start()
	defer notifier.Stop()
	defer outcomeWatcher.Stop()

	logger.Info("starting bot")
	tg_bot.NewBot(
		dbhandlers.NewDecisionBotCommandHandler(
			userRepository,
			workspaceRepository,
			outcomeWatcher,
			logger,
			[]commands.Command{
				commands.NewStartCommand(logger),
				commands.NewProposeDecisionCommand(userRepository, decisionService, logger),
				commands.NewOpenDecisionsCommand(decisionService, logger),
				commands.NewDecidedDecisionsCommand(decisionService, logger),
				commands.NewCastVoteCommand(userRepository, voteRepository, decisionService, logger),
				commands.NewFinalizeDecisionCommand(userRepository, decisionService, logger),
				commands.NewCancelDecisionCommand(userRepository, decisionService, logger),
			},
		),
	).Start(config, logger)
}

func buildAnnouncer(config configs.DecisionBotConfig, logger *zap.SugaredLogger) notifications.Announcer {
	announcers := make([]notifications.Announcer, 0, 2)

	bot, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		logger.Errorw("failed to create announcer bot", "error", err)
	} else {
		announcers = append(announcers, notifications.NewTelegramAnnouncer(bot))
	}

	if config.Discord.Enabled() {
		discordAnnouncer, err := notifications.NewDiscordAnnouncer(config.Discord.Token)
		if err != nil {
			logger.Errorw("failed to create discord announcer", "error", err)
		} else {
			announcers = append(announcers, discordAnnouncer)
		}
	}

	return notifications.NewMultiAnnouncer(announcers...)
}
