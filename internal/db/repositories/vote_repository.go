package repositories

import (
	"context"
	"time"

	"decision_governance_system/internal/db/models"

	"github.com/go-pg/pg/v10"
)

type voteRepository struct {
	repository
}

type VoteRepository interface {
	CastVote(decisionID string, userID int64, choice models.VoteChoice) (*models.Vote, error)
	GetManyByDecision(decisionID string) ([]models.Vote, error)
	GetOne(decisionID string, userID int64) (*models.Vote, error)
}

func NewVoteRepository(db *pg.DB) VoteRepository {
	return &voteRepository{
		repository: repository{
			db: db,
		},
	}
}

// CastVote records a vote inside one transaction: the decision row is
// locked, the votable guard is checked, the vote is upserted (revoting
// overwrites), and a first vote promotes the decision from proposed to
// voting. The decision's updated_at is bumped so change notifications
// cover vote activity too.
func (r *voteRepository) CastVote(decisionID string, userID int64, choice models.VoteChoice) (*models.Vote, error) {
	vote := &models.Vote{
		DecisionID: decisionID,
		UserID:     userID,
		Choice:     choice,
		CastAt:     time.Now().UTC(),
	}

	err := r.db.RunInTransaction(context.Background(), func(tx *pg.Tx) error {
		decision := &models.Decision{}

		err := tx.Model(decision).
			Where("id = ?", decisionID).
			For("UPDATE").
			Select()
		if err != nil {
			if err == pg.ErrNoRows {
				return models.ErrNotFound
			}
			return err
		}

		if !decision.Status.Votable() {
			return models.ErrDecisionNotVotable
		}

		_, err = tx.Model(vote).
			OnConflict("(decision_id, user_id) DO UPDATE").
			Set("choice = EXCLUDED.choice, cast_at = EXCLUDED.cast_at").
			Insert()
		if err != nil {
			return err
		}

		query := tx.Model((*models.Decision)(nil)).
			Set("updated_at = now()").
			Where("id = ?", decisionID)

		if decision.Status == models.DecisionStatusProposed {
			query = query.Set("status = ?", models.DecisionStatusVoting)
		}

		_, err = query.Update()
		return err
	})
	if err != nil {
		return nil, wrap(err, "failed to cast vote")
	}

	return vote, nil
}

func (r *voteRepository) GetManyByDecision(decisionID string) ([]models.Vote, error) {
	votes := make([]models.Vote, 0)

	err := r.db.Model(&votes).
		Where("decision_id = ?", decisionID).
		OrderExpr("cast_at ASC").
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get votes")
	}

	return votes, nil
}

func (r *voteRepository) GetOne(decisionID string, userID int64) (*models.Vote, error) {
	vote := &models.Vote{}

	err := r.db.Model(vote).
		Where("decision_id = ?", decisionID).
		Where("user_id = ?", userID).
		Select()
	if err != nil {
		return nil, wrap(err, "failed to get vote")
	}

	return vote, nil
}
