package services

import (
	"database/sql"
	"fmt"

	"stoutscout_backend/internal/repositories"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReconcileService repairs drift between the denormalized total_pints counter
// and the pint audit rows. With batches running transactionally, drift can
// only come from out-of-band writes, but the counter is still a cache and the
// audit trail stays authoritative.
type ReconcileService interface {
	ReconcileTotals() (int, error)
	StartScheduler(schedule string) error
	StopScheduler()
}

type reconcileService struct {
	patronRepo repositories.PatronRepository
	db         *sql.DB
	cron       *cron.Cron
}

// NewReconcileService creates a new instance of ReconcileService.
func NewReconcileService(pr repositories.PatronRepository, db *sql.DB) ReconcileService {
	return &reconcileService{
		patronRepo: pr,
		db:         db,
	}
}

// ReconcileTotals sets every drifting patron's counter to its audit-row count.
// Returns the number of patrons repaired.
func (s *reconcileService) ReconcileTotals() (int, error) {
	drifts, err := s.patronRepo.GetTotalsDrift()
	if err != nil {
		return 0, fmt.Errorf("failed to find totals drift: %w", err)
	}
	if len(drifts) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin reconcile transaction: %w", err)
	}
	defer tx.Rollback()

	for _, drift := range drifts {
		if err := s.patronRepo.SetTotalPints(tx, drift.PatronID, drift.ActualCount); err != nil {
			return 0, fmt.Errorf("failed to repair totals for patron %s: %w", drift.PatronID, err)
		}
		log.Warn().
			Str("patron_id", drift.PatronID).
			Int("counter", drift.TotalPints).
			Int("actual", drift.ActualCount).
			Msg("Repaired total_pints drift")
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reconcile transaction: %w", err)
	}
	return len(drifts), nil
}

// StartScheduler runs ReconcileTotals on a cron schedule until StopScheduler.
func (s *reconcileService) StartScheduler(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		repaired, err := s.ReconcileTotals()
		if err != nil {
			log.Error().Err(err).Msg("Scheduled reconciliation failed")
			return
		}
		log.Info().Int("patrons_repaired", repaired).Msg("Scheduled reconciliation complete")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// StopScheduler stops the cron scheduler if it was started.
func (s *reconcileService) StopScheduler() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
