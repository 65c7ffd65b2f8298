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

func newService(t *testing.T) (DecisionService, *mock_repositories.MockDecisionRepository, *mock_repositories.MockVoteRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	decisionRepo := mock_repositories.NewMockDecisionRepository(ctrl)
	voteRepo := mock_repositories.NewMockVoteRepository(ctrl)
	service := NewDecisionService(decisionRepo, voteRepo, zap.NewNop().Sugar())

	return service, decisionRepo, voteRepo
}

func TestPropose_CreatesProposedDecision(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(decision *models.Decision) (*models.Decision, error) {
		assert.NotEmpty(t, decision.ID)
		assert.Equal(t, "ws-1", decision.WorkspaceID)
		assert.Equal(t, "Use Postgres", decision.Title)
		assert.Equal(t, models.DecisionTypeGeneral, decision.Type)
		assert.Equal(t, models.DecisionStatusProposed, decision.Status)
		assert.Equal(t, int64(7), decision.ProposedBy)
		assert.Empty(t, decision.FinalDecision)
		assert.True(t, decision.DecidedAt.IsZero())
		return decision, nil
	})

	decision, err := service.Propose("ws-1", "Use Postgres", "", models.DecisionTypeGeneral, 7)

	assert.NoError(t, err)
	assert.Equal(t, models.DecisionStatusProposed, decision.Status)
}

func TestPropose_TrimsTitle(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(decision *models.Decision) (*models.Decision, error) {
		assert.Equal(t, "Use Postgres", decision.Title)
		return decision, nil
	})

	_, err := service.Propose("ws-1", "  Use Postgres  ", "", models.DecisionTypeTechnical, 7)

	assert.NoError(t, err)
}

func TestPropose_EmptyTitleNeverHitsRepository(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.Propose("ws-1", "   ", "context", models.DecisionTypeGeneral, 7)

	assert.ErrorIs(t, err, models.ErrEmptyTitle)
}

func TestPropose_UnknownTypeRejected(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.Propose("ws-1", "Use Postgres", "", models.DecisionType("strategic"), 7)

	assert.ErrorIs(t, err, models.ErrInvalidChoice)
}

func TestPropose_EmptyTypeDefaultsToGeneral(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(decision *models.Decision) (*models.Decision, error) {
		assert.Equal(t, models.DecisionTypeGeneral, decision.Type)
		return decision, nil
	})

	_, err := service.Propose("ws-1", "Use Postgres", "", "", 7)

	assert.NoError(t, err)
}

func TestCastVote_InvalidChoiceNeverHitsRepository(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.CastVote("d-1", 7, models.VoteChoice("veto"))

	assert.ErrorIs(t, err, models.ErrInvalidChoice)
}

func TestCastVote_DelegatesToLedger(t *testing.T) {
	service, _, voteRepo := newService(t)

	voteRepo.EXPECT().CastVote("d-1", int64(7), models.VoteChoiceApprove).
		Return(&models.Vote{DecisionID: "d-1", UserID: 7, Choice: models.VoteChoiceApprove}, nil)

	vote, err := service.CastVote("d-1", 7, models.VoteChoiceApprove)

	assert.NoError(t, err)
	assert.Equal(t, models.VoteChoiceApprove, vote.Choice)
}

func TestCastVote_SettledDecision(t *testing.T) {
	service, _, voteRepo := newService(t)

	voteRepo.EXPECT().CastVote("d-1", int64(7), models.VoteChoiceReject).
		Return(nil, models.ErrDecisionNotVotable)

	_, err := service.CastVote("d-1", 7, models.VoteChoiceReject)

	assert.ErrorIs(t, err, models.ErrDecisionNotVotable)
}

func TestFinalize_EmptySummaryNeverHitsRepository(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.Finalize("d-1", "  ", 7)

	assert.ErrorIs(t, err, models.ErrEmptyFinalDecision)
}

func TestFinalize_SetsSummaryAndTimestampTogether(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Finalize("d-1", "Approved, migrating in Q3", int64(7), gomock.Any()).
		DoAndReturn(func(decisionID, summary string, actingUserID int64, decidedAt time.Time) (*models.Decision, error) {
			assert.False(t, decidedAt.IsZero())
			return &models.Decision{
				ID:            decisionID,
				Status:        models.DecisionStatusDecided,
				FinalDecision: summary,
				DecidedAt:     decidedAt,
			}, nil
		})

	decision, err := service.Finalize("d-1", "Approved, migrating in Q3", 7)

	assert.NoError(t, err)
	assert.Equal(t, models.DecisionStatusDecided, decision.Status)
	assert.True(t, decision.Finalized())
}

func TestFinalize_NonProposerUnauthorized(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Finalize("d-1", "Approved", int64(8), gomock.Any()).
		Return(nil, models.ErrUnauthorized)

	_, err := service.Finalize("d-1", "Approved", 8)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCancel_NonProposerUnauthorized(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Cancel("d-1", int64(8)).Return(nil, models.ErrUnauthorized)

	_, err := service.Cancel("d-1", 8)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestOpenVoting_AfterCancelInvalid(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	decisionRepo.EXPECT().Cancel("d-1", int64(7)).
		Return(&models.Decision{ID: "d-1", Status: models.DecisionStatusCancelled}, nil)
	decisionRepo.EXPECT().OpenVoting("d-1").Return(nil, models.ErrInvalidTransition)

	decision, err := service.Cancel("d-1", 7)
	assert.NoError(t, err)
	assert.Equal(t, models.DecisionStatusCancelled, decision.Status)

	_, err = service.OpenVoting("d-1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestListByWorkspace_PassesThrough(t *testing.T) {
	service, decisionRepo, _ := newService(t)

	expected := []*models.Decision{
		{ID: "d-2", Title: "newer"},
		{ID: "d-1", Title: "older"},
	}
	decisionRepo.EXPECT().GetManyByWorkspace("ws-1").Return(expected, nil)

	decisions, err := service.ListByWorkspace("ws-1")

	assert.NoError(t, err)
	assert.Equal(t, expected, decisions)
}
