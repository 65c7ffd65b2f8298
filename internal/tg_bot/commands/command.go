package commands

import (
	"fmt"
	"strconv"
	"strings"

	"decision_governance_system/internal/db/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Command interface {
	CanHandle(command string) bool
	Handle(text string, user *models.User, workspace *models.Workspace, chatID int64) []tgbotapi.Chattable
}

const (
	confirmYes = "Yes"
	confirmNo  = "No, start over"
)

func votableOf(decisions []*models.Decision) []*models.Decision {
	var open []*models.Decision
	for _, decision := range decisions {
		if decision.Status.Votable() {
			open = append(open, decision)
		}
	}
	return open
}

func ownedVotableOf(decisions []*models.Decision, userID int64) []*models.Decision {
	var owned []*models.Decision
	for _, decision := range votableOf(decisions) {
		if decision.ProposedBy == userID {
			owned = append(owned, decision)
		}
	}
	return owned
}

func numberedList(decisions []*models.Decision) string {
	var b strings.Builder
	for i, decision := range decisions {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, decision.Title, decision.Type, decision.Status)
	}
	return b.String()
}

// pickDecision resolves a 1-based list number typed by the user against the
// same list that was shown to them.
func pickDecision(decisions []*models.Decision, text string) (*models.Decision, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || index < 1 || index > len(decisions) {
		return nil, false
	}
	return decisions[index-1], true
}
