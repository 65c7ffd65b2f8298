package services

import (
	"strings"
	"time"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type decisionService struct {
	decisionRepository repositories.DecisionRepository
	voteRepository     repositories.VoteRepository
	logger             *zap.SugaredLogger
}

// DecisionService is the decision lifecycle state machine. Validation
// errors are returned before any repository call; transition and
// authorization guards are enforced atomically by the repository so that
// concurrent clients cannot race past them.
type DecisionService interface {
	Propose(workspaceID, title, description string, decisionType models.DecisionType, proposedBy int64) (*models.Decision, error)
	OpenVoting(decisionID string) (*models.Decision, error)
	CastVote(decisionID string, userID int64, choice models.VoteChoice) (*models.Vote, error)
	Finalize(decisionID, summary string, actingUserID int64) (*models.Decision, error)
	Cancel(decisionID string, actingUserID int64) (*models.Decision, error)
	Get(decisionID string) (*models.Decision, error)
	ListByWorkspace(workspaceID string) ([]*models.Decision, error)
}

func NewDecisionService(
	decisionRepository repositories.DecisionRepository,
	voteRepository repositories.VoteRepository,
	logger *zap.SugaredLogger,
) DecisionService {
	return &decisionService{
		decisionRepository: decisionRepository,
		voteRepository:     voteRepository,
		logger:             logger,
	}
}

func (s *decisionService) Propose(workspaceID, title, description string, decisionType models.DecisionType, proposedBy int64) (*models.Decision, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.ErrEmptyTitle
	}

	if decisionType == "" {
		decisionType = models.DecisionTypeGeneral
	}
	if !decisionType.Valid() {
		return nil, models.ErrInvalidChoice
	}

	decision := &models.Decision{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Type:        decisionType,
		Status:      models.DecisionStatusProposed,
		ProposedBy:  proposedBy,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	created, err := s.decisionRepository.Create(decision)
	if err != nil {
		s.logger.Errorw("failed to create decision", "error", err)
		return nil, err
	}

	return created, nil
}

func (s *decisionService) OpenVoting(decisionID string) (*models.Decision, error) {
	return s.decisionRepository.OpenVoting(decisionID)
}

func (s *decisionService) CastVote(decisionID string, userID int64, choice models.VoteChoice) (*models.Vote, error) {
	if !choice.Valid() {
		return nil, models.ErrInvalidChoice
	}

	return s.voteRepository.CastVote(decisionID, userID, choice)
}

func (s *decisionService) Finalize(decisionID, summary string, actingUserID int64) (*models.Decision, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, models.ErrEmptyFinalDecision
	}

	return s.decisionRepository.Finalize(decisionID, summary, actingUserID, time.Now().UTC())
}

func (s *decisionService) Cancel(decisionID string, actingUserID int64) (*models.Decision, error) {
	return s.decisionRepository.Cancel(decisionID, actingUserID)
}

func (s *decisionService) Get(decisionID string) (*models.Decision, error) {
	return s.decisionRepository.GetOne(decisionID)
}

func (s *decisionService) ListByWorkspace(workspaceID string) ([]*models.Decision, error) {
	return s.decisionRepository.GetManyByWorkspace(workspaceID)
}
