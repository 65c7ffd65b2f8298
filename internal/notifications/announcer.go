package notifications

import (
	"fmt"
	"strings"
	"time"

	"decision_governance_system/internal"
	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/services"
)

// Announcer broadcasts decision outcomes and reminders to a workspace
// channel. Implementations are best-effort; callers log failures and move
// on.
type Announcer interface {
	AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error
	AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error
}

type multiAnnouncer struct {
	announcers []Announcer
}

func NewMultiAnnouncer(announcers ...Announcer) Announcer {
	return &multiAnnouncer{announcers: announcers}
}

func (a *multiAnnouncer) AnnounceOutcome(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	var firstErr error
	for _, announcer := range a.announcers {
		if err := announcer.AnnounceOutcome(workspace, decision, tally); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *multiAnnouncer) AnnounceReminder(workspace *models.Workspace, decision *models.Decision, tally services.Tally) error {
	var firstErr error
	for _, announcer := range a.announcers {
		if err := announcer.AnnounceReminder(workspace, decision, tally); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func outcomeText(decision *models.Decision, tally services.Tally) string {
	var b strings.Builder

	switch decision.Status {
	case models.DecisionStatusDecided:
		fmt.Fprintf(&b, "Decision settled: %s\n", decision.Title)
		fmt.Fprintf(&b, "Outcome: %s\n", decision.FinalDecision)
		fmt.Fprintf(&b, "Decided on: %s\n", internal.Format(decision.DecidedAt))
	case models.DecisionStatusCancelled:
		fmt.Fprintf(&b, "Decision cancelled: %s\n", decision.Title)
	default:
		fmt.Fprintf(&b, "Decision updated: %s\n", decision.Title)
	}

	fmt.Fprintf(&b, "Votes: %s", tallyText(tally))

	return b.String()
}

func reminderText(decision *models.Decision, tally services.Tally) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Still open: %s (%s)\n", decision.Title, decision.Type.CapitalizedString())
	fmt.Fprintf(&b, "Proposed on: %s (%d days ago)\n", internal.Format(decision.CreatedAt), int(time.Since(decision.CreatedAt).Hours()/24))
	fmt.Fprintf(&b, "Votes so far: %s", tallyText(tally))

	return b.String()
}

func tallyText(tally services.Tally) string {
	parts := make([]string, 0, len(models.VoteChoices))
	for _, choice := range models.VoteChoices {
		parts = append(parts, fmt.Sprintf("%s %d", choice.CapitalizedString(), tally[choice]))
	}
	return strings.Join(parts, ", ")
}
