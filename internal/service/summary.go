package service

import (
	"fmt"

	"clientdesk-backend/internal/database/models"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
)

// SummaryService aggregates counts across every organization the caller can
// see. The visibility predicate is pushed into each count query; records
// outside the caller's memberships are never fetched, so two different
// callers get two different totals from the same data.
type SummaryService struct {
	organizations repository.OrganizationRepositoryInterface
	clients       repository.ClientRepositoryInterface
	projects      repository.ProjectRepositoryInterface
	tasks         repository.TaskRepositoryInterface
	invoices      repository.InvoiceRepositoryInterface
	engine        *policy.Engine
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	organizations repository.OrganizationRepositoryInterface,
	clients repository.ClientRepositoryInterface,
	projects repository.ProjectRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	invoices repository.InvoiceRepositoryInterface,
	engine *policy.Engine,
) *SummaryService {
	return &SummaryService{
		organizations: organizations,
		clients:       clients,
		projects:      projects,
		tasks:         tasks,
		invoices:      invoices,
		engine:        engine,
	}
}

// SummaryResponse represents cross-organization counts for one caller
type SummaryResponse struct {
	Organizations int64 `json:"organizations"`
	Clients       int64 `json:"clients"`
	Projects      int64 `json:"projects"`
	Tasks         int64 `json:"tasks"`
	Invoices      int64 `json:"invoices"`
}

// Overview returns entity counts over the caller's readable organizations
func (s *SummaryService) Overview(actor *models.Identity) (*SummaryResponse, error) {
	orgIDs, all, err := s.engine.ReadableOrganizations(actor)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{}

	_, resp.Organizations, err = s.organizations.ListScoped(orgIDs, all, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}
	if resp.Clients, err = s.clients.CountScoped(orgIDs, all); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	if resp.Projects, err = s.projects.CountScoped(orgIDs, all); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if resp.Tasks, err = s.tasks.CountScoped(orgIDs, all); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if resp.Invoices, err = s.invoices.CountScoped(orgIDs, all); err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	return resp, nil
}
