package repositories

import (
	"time"

	"decision_governance_system/internal/db/models"

	"github.com/go-pg/pg/v10"
)

type decisionRepository struct {
	repository
}

type DecisionRepository interface {
	Create(request *models.Decision) (*models.Decision, error)
	GetOne(decisionID string) (*models.Decision, error)
	GetManyByWorkspace(workspaceID string) ([]*models.Decision, error)
	GetManyByStatus(status ...models.DecisionStatus) ([]*models.Decision, error)
	GetManyUpdatedSince(workspaceID string, since time.Time) ([]*models.Decision, error)
	OpenVoting(decisionID string) (*models.Decision, error)
	Finalize(decisionID, summary string, actingUserID int64, decidedAt time.Time) (*models.Decision, error)
	Cancel(decisionID string, actingUserID int64) (*models.Decision, error)
}

func NewDecisionRepository(db *pg.DB) DecisionRepository {
	return &decisionRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *decisionRepository) Create(request *models.Decision) (*models.Decision, error) {
	_, err := r.db.Model(request).Insert()
	if err != nil {
		return nil, wrap(err, "failed to insert decision")
	}

	return r.GetOne(request.ID)
}

func (r *decisionRepository) GetOne(decisionID string) (*models.Decision, error) {
	decision := &models.Decision{}

	err := r.db.Model(decision).
		Relation("Votes").
		Where("decision.id = ?", decisionID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get decision")
	}

	return decision, nil
}

func (r *decisionRepository) GetManyByWorkspace(workspaceID string) ([]*models.Decision, error) {
	decisions := make([]*models.Decision, 0)

	err := r.db.Model(&decisions).
		Relation("Votes").
		Where("workspace_id = ?", workspaceID).
		OrderExpr("created_at DESC").
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get decisions by workspace")
	}

	return decisions, nil
}

func (r *decisionRepository) GetManyByStatus(status ...models.DecisionStatus) ([]*models.Decision, error) {
	decisions := make([]*models.Decision, 0)

	err := r.db.Model(&decisions).
		Relation("Votes").
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			for _, s := range status {
				q = q.WhereOr("status = ?", s)
			}
			return q, nil
		}).
		OrderExpr("created_at DESC").
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get decisions by status")
	}

	return decisions, nil
}

func (r *decisionRepository) GetManyUpdatedSince(workspaceID string, since time.Time) ([]*models.Decision, error) {
	decisions := make([]*models.Decision, 0)

	err := r.db.Model(&decisions).
		Relation("Votes").
		Where("workspace_id = ?", workspaceID).
		Where("updated_at > ?", since).
		OrderExpr("updated_at ASC").
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get updated decisions")
	}

	return decisions, nil
}

// OpenVoting flips proposed to voting with a conditional update, so the
// guard and the mutation are a single atomic statement. Calling it on a
// decision that is already voting is a no-op success.
func (r *decisionRepository) OpenVoting(decisionID string) (*models.Decision, error) {
	result, err := r.db.Model((*models.Decision)(nil)).
		Set("status = ?", models.DecisionStatusVoting).
		Set("updated_at = now()").
		Where("id = ?", decisionID).
		Where("status IN (?)", pg.In([]models.DecisionStatus{models.DecisionStatusProposed, models.DecisionStatusVoting})).
		Update()
	if err != nil {
		return nil, wrap(err, "failed to open voting")
	}

	if result.RowsAffected() == 0 {
		return nil, r.classifyGuardFailure(decisionID, 0)
	}

	return r.GetOne(decisionID)
}

// Finalize sets status, final decision and decided-at in one conditional
// update: either all three become visible or none do, and only while the
// decision is non-terminal and the acting user is the proposer.
func (r *decisionRepository) Finalize(decisionID, summary string, actingUserID int64, decidedAt time.Time) (*models.Decision, error) {
	result, err := r.db.Model((*models.Decision)(nil)).
		Set("status = ?", models.DecisionStatusDecided).
		Set("final_decision = ?", summary).
		Set("decided_at = ?", decidedAt).
		Set("updated_at = now()").
		Where("id = ?", decisionID).
		Where("proposed_by = ?", actingUserID).
		Where("status IN (?)", pg.In([]models.DecisionStatus{models.DecisionStatusProposed, models.DecisionStatusVoting})).
		Update()
	if err != nil {
		return nil, wrap(err, "failed to finalize decision")
	}

	if result.RowsAffected() == 0 {
		return nil, r.classifyGuardFailure(decisionID, actingUserID)
	}

	return r.GetOne(decisionID)
}

func (r *decisionRepository) Cancel(decisionID string, actingUserID int64) (*models.Decision, error) {
	result, err := r.db.Model((*models.Decision)(nil)).
		Set("status = ?", models.DecisionStatusCancelled).
		Set("updated_at = now()").
		Where("id = ?", decisionID).
		Where("proposed_by = ?", actingUserID).
		Where("status IN (?)", pg.In([]models.DecisionStatus{models.DecisionStatusProposed, models.DecisionStatusVoting})).
		Update()
	if err != nil {
		return nil, wrap(err, "failed to cancel decision")
	}

	if result.RowsAffected() == 0 {
		return nil, r.classifyGuardFailure(decisionID, actingUserID)
	}

	return r.GetOne(decisionID)
}

// classifyGuardFailure re-reads the row to report why a conditional update
// matched nothing. actingUserID of 0 means the operation had no
// authorization clause.
func (r *decisionRepository) classifyGuardFailure(decisionID string, actingUserID int64) error {
	decision := &models.Decision{}

	err := r.db.Model(decision).
		Where("id = ?", decisionID).
		Select()
	if err != nil {
		return wrap(err, "failed to classify guard failure")
	}

	if actingUserID != 0 && decision.ProposedBy != actingUserID {
		return models.ErrUnauthorized
	}

	return models.ErrInvalidTransition
}
