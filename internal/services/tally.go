package services

import "decision_governance_system/internal/db/models"

// Tally maps each vote choice to its count. Every known choice is present,
// unseen ones as 0. A tally is always derived from a ledger snapshot and
// never stored.
type Tally map[models.VoteChoice]int

func CalculateTally(votes []models.Vote) Tally {
	tally := make(Tally, len(models.VoteChoices))

	for _, choice := range models.VoteChoices {
		tally[choice] = 0
	}

	for _, vote := range votes {
		tally[vote.Choice]++
	}

	return tally
}

func (t Tally) Total() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}

// VoteOf returns the given user's vote from a ledger snapshot. The ledger
// holds at most one vote per user, so the first match is the only one.
func VoteOf(votes []models.Vote, userID int64) (models.VoteChoice, bool) {
	for _, vote := range votes {
		if vote.UserID == userID {
			return vote.Choice, true
		}
	}

	return "", false
}
