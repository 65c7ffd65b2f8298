package main

import (
	"time"

	"decision_governance_system/configs"
	"decision_governance_system/internal/db"
	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/di"
	"decision_governance_system/internal/notifications"
	"decision_governance_system/internal/services"

	"github.com/go-co-op/gocron"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	s := gocron.NewScheduler(time.UTC)

	config, err := configs.LoadDecisionStateServiceConfig()
	logger := di.NewLogger(config.Logger)

	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	logger.Info("starting db")
	database, err := db.StartDB(config.DB, logger)
	if err != nil {
		logger.Fatalw("failed to start db", "error", err)
	}
	logger.Info("db started")

	s.Cron(config.StateService.Schedule).Do(func() {
		logger.Info("initializing repositories and announcers")
		decisionRepository := repositories.NewDecisionRepository(database)
		workspaceRepository := repositories.NewWorkspaceRepository(database)
		voteRepository := repositories.NewVoteRepository(database)
		announcer := buildAnnouncer(config, logger)

		logger.Info("getting open decisions")
		decisions, err := decisionRepository.GetManyByStatus(models.DecisionStatusProposed, models.DecisionStatusVoting)
		if err != nil {
			logger.Errorw("failed to get decisions", "error", err)
			return
		}

		stale := getStaleDecisions(decisions, config.StateService.ReminderAge, time.Now().UTC())
		if len(stale) == 0 {
			logger.Info("no stale decisions")
			return
		}

		sent := sendReminders(stale, workspaceRepository, voteRepository, announcer, logger)
		logger.Infof("sent %d reminders", sent)
	})

	s.StartBlocking()
}

// getStaleDecisions returns the open decisions that have been waiting for a
// resolution longer than reminderAge. Transitions stay with the proposer;
// this service only nags.
func getStaleDecisions(decisions []*models.Decision, reminderAge time.Duration, now time.Time) []*models.Decision {
	var stale []*models.Decision

	for _, decision := range decisions {
		if !decision.Status.Votable() {
			continue
		}

		if now.Sub(decision.CreatedAt) >= reminderAge {
			stale = append(stale, decision)
		}
	}

	return stale
}

func sendReminders(
	decisions []*models.Decision,
	workspaceRepository repositories.WorkspaceRepository,
	voteRepository repositories.VoteRepository,
	announcer notifications.Announcer,
	logger *zap.SugaredLogger,
) int {
	sent := 0

	for _, decision := range decisions {
		workspace, err := workspaceRepository.GetOne(decision.WorkspaceID)
		if err != nil {
			logger.Errorw("failed to get workspace", "error", err)
			continue
		}

		votes, err := voteRepository.GetManyByDecision(decision.ID)
		if err != nil {
			logger.Errorw("failed to get votes", "error", err)
			votes = decision.Votes
		}

		if err := announcer.AnnounceReminder(workspace, decision, services.CalculateTally(votes)); err != nil {
			logger.Errorw("failed to announce reminder", "error", err)
			continue
		}

		sent++
	}

	return sent
}

func buildAnnouncer(config configs.DecisionStateServiceConfig, logger *zap.SugaredLogger) notifications.Announcer {
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
