package models

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	DecisionStatus string
	DecisionType   string
)

func (s DecisionStatus) String() string {
	return string(s)
}

func (t DecisionType) String() string {
	return string(t)
}

func (t DecisionType) CapitalizedString() string {
	return cases.Title(language.English).String(t.String())
}

const (
	DecisionStatusProposed  DecisionStatus = "proposed"
	DecisionStatusVoting    DecisionStatus = "voting"
	DecisionStatusDecided   DecisionStatus = "decided"
	DecisionStatusCancelled DecisionStatus = "cancelled"

	DecisionTypeGeneral   DecisionType = "general"
	DecisionTypeTechnical DecisionType = "technical"
	DecisionTypeProduct   DecisionType = "product"
	DecisionTypeProcess   DecisionType = "process"
)

var DecisionTypes = []DecisionType{
	DecisionTypeGeneral,
	DecisionTypeTechnical,
	DecisionTypeProduct,
	DecisionTypeProcess,
}

func (t DecisionType) Valid() bool {
	for _, knownType := range DecisionTypes {
		if t == knownType {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is absorbing: once a decision is
// decided or cancelled it never changes status again.
func (s DecisionStatus) IsTerminal() bool {
	return s == DecisionStatusDecided || s == DecisionStatusCancelled
}

func (s DecisionStatus) Votable() bool {
	return s == DecisionStatusProposed || s == DecisionStatusVoting
}

func (s DecisionStatus) CanTransitionTo(next DecisionStatus) bool {
	switch next {
	case DecisionStatusVoting:
		// opening voting is idempotent from voting itself
		return s == DecisionStatusProposed || s == DecisionStatusVoting
	case DecisionStatusDecided, DecisionStatusCancelled:
		return !s.IsTerminal()
	default:
		return false
	}
}

type Decision struct {
	ID            string         `json:"id" pg:"type:uuid,pk"`
	WorkspaceID   string         `json:"workspace_id" pg:"type:uuid,notnull"`
	Title         string         `json:"title" pg:",notnull"`
	Description   string         `json:"description"`
	Type          DecisionType   `json:"decision_type" pg:"decision_type,type:DecisionType,notnull,default:'general'"`
	Status        DecisionStatus `json:"status" pg:"type:DecisionStatus,notnull,default:'proposed'"`
	ProposedBy    int64          `json:"proposed_by" pg:",notnull,use_zero"`
	FinalDecision string         `json:"final_decision"`
	CreatedAt     time.Time      `json:"created_at" pg:"default:now()"`
	UpdatedAt     time.Time      `json:"updated_at" pg:"default:now()"`
	DecidedAt     time.Time      `json:"decided_at"`
	Votes         []Vote         `json:"votes" pg:"rel:has-many"`
}

// Finalized reports whether both finalization fields are set. They are
// written atomically with the transition to decided, so this is equivalent
// to Status == DecisionStatusDecided on consistent data.
func (d *Decision) Finalized() bool {
	return d.FinalDecision != "" && !d.DecidedAt.IsZero()
}
