package repositories

import (
	"database/sql"
	"fmt"

	"stoutscout_backend/internal/models"
)

// MilestoneRepository defines read access to the configured milestone tiers.
// Milestones are seeded once and never written through the API.
type MilestoneRepository interface {
	GetMilestones() ([]models.Milestone, error)
}

type milestoneRepository struct {
	db *sql.DB
}

// NewMilestoneRepository creates a new instance of MilestoneRepository.
func NewMilestoneRepository(db *sql.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

// GetMilestones retrieves all milestone tiers ascending by pint target.
func (r *milestoneRepository) GetMilestones() ([]models.Milestone, error) {
	milestones := []models.Milestone{}
	query := `SELECT id, name, pint_target, reward_text FROM milestones ORDER BY pint_target ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying milestones: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var milestone models.Milestone
		if err := rows.Scan(&milestone.ID, &milestone.Name, &milestone.PintTarget, &milestone.RewardText); err != nil {
			return nil, fmt.Errorf("%w: scanning milestone: %v", ErrDatabaseError, err)
		}
		milestones = append(milestones, milestone)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating milestone rows: %v", ErrDatabaseError, err)
	}
	return milestones, nil
}
