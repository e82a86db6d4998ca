package services

import (
	"fmt"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/internal/repositories"
)

// MilestoneService exposes the configured reward tiers. Whether a patron has
// crossed a tier is not evaluated anywhere; milestones are plain configuration.
type MilestoneService interface {
	GetMilestones() ([]models.Milestone, error)
}

type milestoneService struct {
	milestoneRepo repositories.MilestoneRepository
}

// NewMilestoneService creates a new instance of MilestoneService.
func NewMilestoneService(mr repositories.MilestoneRepository) MilestoneService {
	return &milestoneService{milestoneRepo: mr}
}

func (s *milestoneService) GetMilestones() ([]models.Milestone, error) {
	milestones, err := s.milestoneRepo.GetMilestones()
	if err != nil {
		return nil, fmt.Errorf("failed to get milestones: %w", err)
	}
	return milestones, nil
}
