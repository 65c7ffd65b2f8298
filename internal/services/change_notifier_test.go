package services

import (
	"testing"
	"time"

	"decision_governance_system/internal/db/models"
	mock_repositories "decision_governance_system/internal/db/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestChangeNotifier_DeliversUpdatedDecisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)
	updated := &models.Decision{ID: "d-1", WorkspaceID: "ws-1", Status: models.DecisionStatusVoting}
	decisionRepo.EXPECT().GetManyUpdatedSince("ws-1", gomock.Any()).
		Return([]*models.Decision{updated}, nil).
		AnyTimes()

	notifier := NewChangeNotifier(decisionRepo, 10*time.Millisecond, zap.NewNop().Sugar())

	received := make(chan *models.Decision, 16)
	notifier.Subscribe("ws-1", func(decision *models.Decision) {
		received <- decision
	})

	notifier.Start()
	defer notifier.Stop()

	select {
	case decision := <-received:
		assert.Equal(t, "d-1", decision.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification delivered")
	}
}

func TestChangeNotifier_UnsubscribeStopsDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)

	notifier := NewChangeNotifier(decisionRepo, 10*time.Millisecond, zap.NewNop().Sugar())

	subscriptionID := notifier.Subscribe("ws-1", func(decision *models.Decision) {
		t.Error("callback invoked after unsubscribe")
	})
	notifier.Unsubscribe(subscriptionID)

	// With no subscriptions left the notifier has no workspaces to poll,
	// so the repository must not be queried at all.
	notifier.Start()
	defer notifier.Stop()

	time.Sleep(100 * time.Millisecond)
}

func TestChangeNotifier_PollFailureIsRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)
	updated := &models.Decision{ID: "d-1", WorkspaceID: "ws-1"}

	failed := decisionRepo.EXPECT().GetManyUpdatedSince("ws-1", gomock.Any()).
		Return(nil, models.ErrRepositoryUnavailable)
	decisionRepo.EXPECT().GetManyUpdatedSince("ws-1", gomock.Any()).
		Return([]*models.Decision{updated}, nil).
		After(failed).
		AnyTimes()

	notifier := NewChangeNotifier(decisionRepo, 10*time.Millisecond, zap.NewNop().Sugar())

	received := make(chan *models.Decision, 16)
	notifier.Subscribe("ws-1", func(decision *models.Decision) {
		received <- decision
	})

	notifier.Start()
	defer notifier.Stop()

	select {
	case decision := <-received:
		assert.Equal(t, "d-1", decision.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery did not recover after a failed poll")
	}
}

func TestChangeNotifier_SubscriptionIDsAreUnique(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)
	notifier := NewChangeNotifier(decisionRepo, time.Minute, zap.NewNop().Sugar())

	first := notifier.Subscribe("ws-1", func(*models.Decision) {})
	second := notifier.Subscribe("ws-1", func(*models.Decision) {})

	assert.NotEqual(t, first, second)
}

func TestChangeNotifier_StopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)
	notifier := NewChangeNotifier(decisionRepo, time.Minute, zap.NewNop().Sugar())

	notifier.Start()
	notifier.Stop()
	notifier.Stop()
}
