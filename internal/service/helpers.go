package service

import (
	"errors"
	"strings"
	"time"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/policy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// authorize evaluates the policy engine for an organization-scoped action and
// converts a Deny into a ForbiddenError. A store failure during evaluation is
// returned as-is; it never becomes an allow.
func authorize(engine *policy.Engine, actor *models.Identity, action policy.Action, orgID uuid.UUID) error {
	decision, err := engine.Evaluate(actor, action, policy.OrganizationScope(orgID))
	if err != nil {
		return err
	}
	if decision != policy.Allow {
		return apperrors.NewForbiddenError(string(action), orgID.String())
	}
	return nil
}

// isDuplicateKey reports whether err is a unique constraint violation.
// Concurrent inserts racing on a composite unique index surface here: one
// insert wins, the loser gets a deterministic conflict.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// duplicateConstraint returns the violated constraint name, if the driver
// exposed one
func duplicateConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.ToLower(pgErr.ConstraintName)
	}
	return ""
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
