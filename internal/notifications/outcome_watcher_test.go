package notifications

import (
	"strings"
	"testing"
	"time"

	"decision_governance_system/internal/db/models"
	mock_repositories "decision_governance_system/internal/db/repositories/mocks"
	"decision_governance_system/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	callbacks    map[string]services.ChangeCallback
	subscribed   []string
	unsubscribed []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{callbacks: make(map[string]services.ChangeCallback)}
}

func (n *fakeNotifier) Subscribe(workspaceID string, callback services.ChangeCallback) string {
	subscriptionID := workspaceID + "-sub"
	n.callbacks[subscriptionID] = callback
	n.subscribed = append(n.subscribed, workspaceID)
	return subscriptionID
}

func (n *fakeNotifier) Unsubscribe(subscriptionID string) {
	delete(n.callbacks, subscriptionID)
	n.unsubscribed = append(n.unsubscribed, subscriptionID)
}

func (n *fakeNotifier) Start() {}
func (n *fakeNotifier) Stop()  {}

func (n *fakeNotifier) deliver(workspaceID string, decision *models.Decision) {
	if callback, ok := n.callbacks[workspaceID+"-sub"]; ok {
		callback(decision)
	}
}

type capturingAnnouncer struct {
	outcomes []string
}

func (a *capturingAnnouncer) AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	a.outcomes = append(a.outcomes, decision.ID)
	return nil
}

func (a *capturingAnnouncer) AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	return nil
}

func newWatcher(t *testing.T) (*OutcomeWatcher, *fakeNotifier, *mock_repositories.MockWorkspaceRepository, *mock_repositories.MockVoteRepository, *capturingAnnouncer) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	notifier := newFakeNotifier()
	workspaceRepo := mock_repositories.NewMockWorkspaceRepository(ctrl)
	voteRepo := mock_repositories.NewMockVoteRepository(ctrl)
	announcer := &capturingAnnouncer{}

	watcher := NewOutcomeWatcher(notifier, workspaceRepo, voteRepo, announcer, zap.NewNop().Sugar())
	return watcher, notifier, workspaceRepo, voteRepo, announcer
}

func TestOutcomeWatcher_SubscribesForKnownWorkspaces(t *testing.T) {
	watcher, notifier, workspaceRepo, _, _ := newWatcher(t)

	workspaceRepo.EXPECT().GetMany().Return([]*models.Workspace{
		{ID: "ws-1"},
		{ID: "ws-2"},
	}, nil)

	assert.NoError(t, watcher.Start())
	assert.Equal(t, []string{"ws-1", "ws-2"}, notifier.subscribed)
}

func TestOutcomeWatcher_AnnouncesTerminalDecisionsOnce(t *testing.T) {
	watcher, notifier, workspaceRepo, voteRepo, announcer := newWatcher(t)

	workspaceRepo.EXPECT().GetMany().Return([]*models.Workspace{{ID: "ws-1"}}, nil)
	voteRepo.EXPECT().GetManyByDecision("d-1").
		Return([]models.Vote{{UserID: 1, Choice: models.VoteChoiceApprove}}, nil)

	assert.NoError(t, watcher.Start())

	decided := &models.Decision{
		ID:            "d-1",
		WorkspaceID:   "ws-1",
		Status:        models.DecisionStatusDecided,
		FinalDecision: "Approved",
		DecidedAt:     time.Now().UTC(),
	}

	// at-least-once delivery may repeat the same notification
	notifier.deliver("ws-1", decided)
	notifier.deliver("ws-1", decided)

	assert.Equal(t, []string{"d-1"}, announcer.outcomes)
}

func TestOutcomeWatcher_IgnoresNonTerminalChanges(t *testing.T) {
	watcher, notifier, workspaceRepo, _, announcer := newWatcher(t)

	workspaceRepo.EXPECT().GetMany().Return([]*models.Workspace{{ID: "ws-1"}}, nil)

	assert.NoError(t, watcher.Start())

	notifier.deliver("ws-1", &models.Decision{ID: "d-1", WorkspaceID: "ws-1", Status: models.DecisionStatusVoting})

	assert.Empty(t, announcer.outcomes)
}

func TestOutcomeWatcher_WatchIsIdempotentPerWorkspace(t *testing.T) {
	watcher, notifier, _, _, _ := newWatcher(t)

	workspace := &models.Workspace{ID: "ws-1"}
	watcher.Watch(workspace)
	watcher.Watch(workspace)

	assert.Equal(t, []string{"ws-1"}, notifier.subscribed)
}

func TestOutcomeWatcher_StopUnsubscribesEverything(t *testing.T) {
	watcher, notifier, workspaceRepo, _, _ := newWatcher(t)

	workspaceRepo.EXPECT().GetMany().Return([]*models.Workspace{{ID: "ws-1"}, {ID: "ws-2"}}, nil)

	assert.NoError(t, watcher.Start())
	watcher.Stop()

	assert.Len(t, notifier.unsubscribed, 2)
	assert.Empty(t, notifier.callbacks)
}

func TestOutcomeText_DecidedIncludesOutcome(t *testing.T) {
	decision := &models.Decision{
		Title:         "Use Postgres",
		Status:        models.DecisionStatusDecided,
		FinalDecision: "Approved, migrating in Q3",
		DecidedAt:     time.Now().UTC(),
	}

	text := outcomeText(decision, services.CalculateTally(nil))

	assert.True(t, strings.Contains(text, "Use Postgres"))
	assert.True(t, strings.Contains(text, "Approved, migrating in Q3"))
}

func TestOutcomeText_CancelledMentionsCancellation(t *testing.T) {
	decision := &models.Decision{
		Title:  "Use Postgres",
		Status: models.DecisionStatusCancelled,
	}

	text := outcomeText(decision, services.CalculateTally(nil))

	assert.True(t, strings.Contains(text, "cancelled"))
}

func TestReminderText_IncludesTally(t *testing.T) {
	decision := &models.Decision{
		Title:     "Use Postgres",
		Type:      models.DecisionTypeTechnical,
		Status:    models.DecisionStatusVoting,
		CreatedAt: time.Now().UTC().Add(-96 * time.Hour),
	}
	votes := []models.Vote{
		{UserID: 1, Choice: models.VoteChoiceApprove},
		{UserID: 2, Choice: models.VoteChoiceConcern},
	}

	text := reminderText(decision, services.CalculateTally(votes))

	assert.True(t, strings.Contains(text, "Use Postgres"))
	assert.True(t, strings.Contains(text, "Approve 1"))
	assert.True(t, strings.Contains(text, "Concern 1"))
}
