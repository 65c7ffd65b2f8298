package notifications

import (
	"sync"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"
	"decision_governance_system/internal/services"

	"go.uber.org/zap"
)

// OutcomeWatcher subscribes to change notifications for every known
// workspace and announces decisions that reached a terminal status, no
// matter which client performed the transition. Announcements are
// deduplicated per decision because notification delivery is
// at-least-once.
type OutcomeWatcher struct {
	notifier            services.ChangeNotifier
	workspaceRepository repositories.WorkspaceRepository
	voteRepository      repositories.VoteRepository
	announcer           Announcer
	logger              *zap.SugaredLogger

	mu            sync.Mutex
	subscriptions map[string]string
	announced     map[string]bool
}

func NewOutcomeWatcher(
	notifier services.ChangeNotifier,
	workspaceRepository repositories.WorkspaceRepository,
	voteRepository repositories.VoteRepository,
	announcer Announcer,
	logger *zap.SugaredLogger,
) *OutcomeWatcher {
	return &OutcomeWatcher{
		notifier:            notifier,
		workspaceRepository: workspaceRepository,
		voteRepository:      voteRepository,
		announcer:           announcer,
		logger:              logger,
		subscriptions:       make(map[string]string),
		announced:           make(map[string]bool),
	}
}

// Start subscribes for every workspace known at boot. Workspaces created
// later are added through Watch.
func (w *OutcomeWatcher) Start() error {
	workspaces, err := w.workspaceRepository.GetMany()
	if err != nil {
		return err
	}

	for _, workspace := range workspaces {
		w.Watch(workspace)
	}

	return nil
}

func (w *OutcomeWatcher) Watch(workspace *models.Workspace) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.subscriptions[workspace.ID]; ok {
		return
	}

	watched := *workspace
	w.subscriptions[workspace.ID] = w.notifier.Subscribe(workspace.ID, func(decision *models.Decision) {
		w.handle(&watched, decision)
	})
}

func (w *OutcomeWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for workspaceID, subscriptionID := range w.subscriptions {
		w.notifier.Unsubscribe(subscriptionID)
		delete(w.subscriptions, workspaceID)
	}
}

func (w *OutcomeWatcher) handle(workspace *models.Workspace, decision *models.Decision) {
	if !decision.Status.IsTerminal() {
		return
	}

	w.mu.Lock()
	if w.announced[decision.ID] {
		w.mu.Unlock()
		return
	}
	w.announced[decision.ID] = true
	w.mu.Unlock()

	votes, err := w.voteRepository.GetManyByDecision(decision.ID)
	if err != nil {
		w.logger.Errorw("failed to load votes for announcement", "decisionID", decision.ID, "error", err)
		votes = decision.Votes
	}

	if err := w.announcer.AnnounceOutcome(workspace, decision, services.CalculateTally(votes)); err != nil {
		w.logger.Errorw("failed to announce decision outcome", "decisionID", decision.ID, "error", err)
	}
}
