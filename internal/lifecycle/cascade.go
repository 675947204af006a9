package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/logger"
	"clientdesk-backend/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CascadeManager removes an organization and every dependent record in one
// atomic transaction. Post-commit no entity type returns a row for the
// deleted id; on any failure the organization stays fully present.
type CascadeManager struct {
	db     *gorm.DB
	engine *policy.Engine
}

// NewCascadeManager creates a cascade lifecycle manager
func NewCascadeManager(db *gorm.DB, engine *policy.Engine) *CascadeManager {
	return &CascadeManager{db: db, engine: engine}
}

// DeleteOrganization tears down the tenant graph leaf-to-root. Requires the
// acting identity to hold manage_organization in the target organization.
// Cancellation of ctx mid-flight rolls the transaction back completely.
func (m *CascadeManager) DeleteOrganization(ctx context.Context, actor *models.Identity, orgID uuid.UUID) error {
	var org models.Organization
	if err := m.db.WithContext(ctx).First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to load organization: %w", err)
	}

	decision, err := m.engine.Evaluate(actor, policy.ActionManageOrganization, policy.OrganizationScope(orgID))
	if err != nil {
		return err
	}
	if decision != policy.Allow {
		return apperrors.NewForbiddenError(string(policy.ActionManageOrganization), orgID.String())
	}

	log := logger.ForIdentity(actor.Email).WithOrganization(orgID.String())

	// Leaf-to-root so no step ever leaves an orphan pointing at a deleted
	// parent, even inside the transaction.
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			entity string
			model  interface{}
		}{
			{"invoice line items", &models.InvoiceLineItem{}},
			{"attachments", &models.Attachment{}},
			{"tasks", &models.Task{}},
			{"invoices", &models.Invoice{}},
			{"projects", &models.Project{}},
			{"clients", &models.Client{}},
			{"memberships", &models.Membership{}},
		}
		for _, step := range steps {
			if err := tx.Where("organization_id = ?", orgID).Delete(step.model).Error; err != nil {
				return fmt.Errorf("delete %s: %w", step.entity, err)
			}
		}
		if err := tx.Delete(&models.Organization{}, "id = ?", orgID).Error; err != nil {
			return fmt.Errorf("delete organization: %w", err)
		}
		return nil
	})
	if err != nil {
		log.WithField("error", err.Error()).Error("organization cascade delete rolled back")
		return apperrors.NewTransactionError("delete organization", err)
	}

	log.Info("organization and all dependent records deleted")
	return nil
}
