package models

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type VoteChoice string

const (
	VoteChoiceApprove VoteChoice = "approve"
	VoteChoiceReject  VoteChoice = "reject"
	VoteChoiceAbstain VoteChoice = "abstain"
	VoteChoiceConcern VoteChoice = "concern"
)

var VoteChoices = []VoteChoice{
	VoteChoiceApprove,
	VoteChoiceReject,
	VoteChoiceAbstain,
	VoteChoiceConcern,
}

func (c VoteChoice) String() string {
	return string(c)
}

func (c VoteChoice) CapitalizedString() string {
	return cases.Title(language.English).String(c.String())
}

func (c VoteChoice) Valid() bool {
	for _, knownChoice := range VoteChoices {
		if c == knownChoice {
			return true
		}
	}
	return false
}

// Vote is one user's choice on a decision. The (DecisionID, UserID) pair is
// the primary key, so the ledger holds at most one row per voter; revoting
// overwrites the previous row.
type Vote struct {
	DecisionID string     `json:"decision_id" pg:"type:uuid,pk"`
	UserID     int64      `json:"user_id" pg:",pk"`
	Choice     VoteChoice `json:"choice" pg:"type:VoteChoice,notnull"`
	CastAt     time.Time  `json:"cast_at" pg:"default:now()"`
}
