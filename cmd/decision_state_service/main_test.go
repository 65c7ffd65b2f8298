package main

import (
	"errors"
	"testing"
	"time"

	"decision_governance_system/internal/db/models"
	mock_repositories "decision_governance_system/internal/db/repositories/mocks"
	"decision_governance_system/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type recordingAnnouncer struct {
	reminders []string
	fail      bool
}

func (a *recordingAnnouncer) AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	return nil
}

func (a *recordingAnnouncer) AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	if a.fail {
		return errors.New("announce failed")
	}
	a.reminders = append(a.reminders, decision.ID)
	return nil
}

func TestGetStaleDecisions_OldOpenDecisionsSelected(t *testing.T) {
	now := time.Now().UTC()
	decisions := []*models.Decision{
		{ID: "fresh", Status: models.DecisionStatusVoting, CreatedAt: now.Add(-time.Hour)},
		{ID: "stale-voting", Status: models.DecisionStatusVoting, CreatedAt: now.Add(-96 * time.Hour)},
		{ID: "stale-proposed", Status: models.DecisionStatusProposed, CreatedAt: now.Add(-80 * time.Hour)},
	}

	stale := getStaleDecisions(decisions, 72*time.Hour, now)

	assert.Len(t, stale, 2)
	assert.Equal(t, "stale-voting", stale[0].ID)
	assert.Equal(t, "stale-proposed", stale[1].ID)
}

func TestGetStaleDecisions_TerminalDecisionsIgnored(t *testing.T) {
	now := time.Now().UTC()
	decisions := []*models.Decision{
		{ID: "decided", Status: models.DecisionStatusDecided, CreatedAt: now.Add(-200 * time.Hour)},
		{ID: "cancelled", Status: models.DecisionStatusCancelled, CreatedAt: now.Add(-200 * time.Hour)},
	}

	stale := getStaleDecisions(decisions, 72*time.Hour, now)

	assert.Empty(t, stale)
}

func TestGetStaleDecisions_NoneStale(t *testing.T) {
	now := time.Now().UTC()
	decisions := []*models.Decision{
		{ID: "fresh", Status: models.DecisionStatusProposed, CreatedAt: now.Add(-time.Hour)},
	}

	stale := getStaleDecisions(decisions, 72*time.Hour, now)

	assert.Empty(t, stale)
}

func TestSendReminders_AllRemindersSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workspaceRepo := mock_repositories.NewMockWorkspaceRepository(ctrl)
	voteRepo := mock_repositories.NewMockVoteRepository(ctrl)
	announcer := &recordingAnnouncer{}
	logger := zap.NewNop().Sugar()

	decisions := []*models.Decision{
		{ID: "d-1", WorkspaceID: "ws-1", Status: models.DecisionStatusVoting},
		{ID: "d-2", WorkspaceID: "ws-1", Status: models.DecisionStatusProposed},
	}

	workspaceRepo.EXPECT().GetOne("ws-1").Return(&models.Workspace{ID: "ws-1"}, nil).Times(2)
	voteRepo.EXPECT().GetManyByDecision("d-1").Return([]models.Vote{{UserID: 1, Choice: models.VoteChoiceApprove}}, nil)
	voteRepo.EXPECT().GetManyByDecision("d-2").Return([]models.Vote{}, nil)

	sent := sendReminders(decisions, workspaceRepo, voteRepo, announcer, logger)

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"d-1", "d-2"}, announcer.reminders)
}

func TestSendReminders_WorkspaceLookupFailureSkipsDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workspaceRepo := mock_repositories.NewMockWorkspaceRepository(ctrl)
	voteRepo := mock_repositories.NewMockVoteRepository(ctrl)
	announcer := &recordingAnnouncer{}
	logger := zap.NewNop().Sugar()

	decisions := []*models.Decision{
		{ID: "d-1", WorkspaceID: "ws-missing", Status: models.DecisionStatusVoting},
		{ID: "d-2", WorkspaceID: "ws-1", Status: models.DecisionStatusVoting},
	}

	workspaceRepo.EXPECT().GetOne("ws-missing").Return(nil, models.ErrNotFound)
	workspaceRepo.EXPECT().GetOne("ws-1").Return(&models.Workspace{ID: "ws-1"}, nil)
	voteRepo.EXPECT().GetManyByDecision("d-2").Return([]models.Vote{}, nil)

	sent := sendReminders(decisions, workspaceRepo, voteRepo, announcer, logger)

	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"d-2"}, announcer.reminders)
}

func TestSendReminders_AnnounceFailureNotCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workspaceRepo := mock_repositories.NewMockWorkspaceRepository(ctrl)
	voteRepo := mock_repositories.NewMockVoteRepository(ctrl)
	announcer := &recordingAnnouncer{fail: true}
	logger := zap.NewNop().Sugar()

	decisions := []*models.Decision{
		{ID: "d-1", WorkspaceID: "ws-1", Status: models.DecisionStatusVoting},
	}

	workspaceRepo.EXPECT().GetOne("ws-1").Return(&models.Workspace{ID: "ws-1"}, nil)
	voteRepo.EXPECT().GetManyByDecision("d-1").Return([]models.Vote{}, nil)

	sent := sendReminders(decisions, workspaceRepo, voteRepo, announcer, logger)

	assert.Equal(t, 0, sent)
}
