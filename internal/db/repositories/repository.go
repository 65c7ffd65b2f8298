package repositories

import (
	"decision_governance_system/internal/db/models"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
)

type repository struct {
	db *pg.DB
}

var domainErrors = []error{
	models.ErrNotFound,
	models.ErrDecisionNotVotable,
	models.ErrInvalidTransition,
	models.ErrUnauthorized,
}

// wrap maps storage failures onto the domain error kinds: no rows becomes
// ErrNotFound, already-classified errors pass through untouched, and
// everything else is a transport failure.
func wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}

	if errors.Is(err, pg.ErrNoRows) {
		return models.ErrNotFound
	}

	return errors.Wrapf(models.ErrRepositoryUnavailable, "%s: %v", message, err)
}
