package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionStatus_IsTerminal(t *testing.T) {
	assert.False(t, DecisionStatusProposed.IsTerminal())
	assert.False(t, DecisionStatusVoting.IsTerminal())
	assert.True(t, DecisionStatusDecided.IsTerminal())
	assert.True(t, DecisionStatusCancelled.IsTerminal())
}

func TestDecisionStatus_Votable(t *testing.T) {
	assert.True(t, DecisionStatusProposed.Votable())
	assert.True(t, DecisionStatusVoting.Votable())
	assert.False(t, DecisionStatusDecided.Votable())
	assert.False(t, DecisionStatusCancelled.Votable())
}

func TestDecisionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    DecisionStatus
		to      DecisionStatus
		allowed bool
	}{
		{"proposed to voting", DecisionStatusProposed, DecisionStatusVoting, true},
		{"voting to voting is idempotent", DecisionStatusVoting, DecisionStatusVoting, true},
		{"proposed to decided", DecisionStatusProposed, DecisionStatusDecided, true},
		{"voting to decided", DecisionStatusVoting, DecisionStatusDecided, true},
		{"proposed to cancelled", DecisionStatusProposed, DecisionStatusCancelled, true},
		{"voting to cancelled", DecisionStatusVoting, DecisionStatusCancelled, true},
		{"decided is absorbing", DecisionStatusDecided, DecisionStatusVoting, false},
		{"decided to cancelled", DecisionStatusDecided, DecisionStatusCancelled, false},
		{"cancelled is absorbing", DecisionStatusCancelled, DecisionStatusVoting, false},
		{"cancelled to decided", DecisionStatusCancelled, DecisionStatusDecided, false},
		{"nothing returns to proposed", DecisionStatusVoting, DecisionStatusProposed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDecisionType_Valid(t *testing.T) {
	for _, decisionType := range DecisionTypes {
		assert.True(t, decisionType.Valid())
	}
	assert.False(t, DecisionType("strategic").Valid())
	assert.False(t, DecisionType("").Valid())
}

func TestVoteChoice_Valid(t *testing.T) {
	for _, choice := range VoteChoices {
		assert.True(t, choice.Valid())
	}
	assert.False(t, VoteChoice("veto").Valid())
}

func TestDecision_Finalized(t *testing.T) {
	decision := &Decision{}
	assert.False(t, decision.Finalized())

	decision.FinalDecision = "approved"
	assert.False(t, decision.Finalized())
}
