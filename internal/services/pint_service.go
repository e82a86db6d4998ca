package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Pints ---
var (
	ErrPintValidation    = errors.New("pint data validation error")
	ErrPintNotFound      = errors.New("pint not found")
	ErrBartenderNotFound = errors.New("one or more bartenders not found")
	ErrInvalidPintAction = errors.New("invalid action, use \"delete\" to remove a pint")
)

// --- Pint DTOs ---

// LogPintRequest is one entry of a batch logging request.
type LogPintRequest struct {
	PatronID    string  `json:"patronId"`
	BartenderID string  `json:"bartenderId"`
	Quantity    int     `json:"quantity"`
	PouredAt    *string `json:"pouredAt"` // RFC 3339; defaults to time of processing
}

// PintResponse is the pour projection returned by logging and listing calls.
type PintResponse struct {
	ID            string    `json:"id"`
	PatronID      string    `json:"patronId"`
	PatronName    string    `json:"patronName"`
	PouredAt      time.Time `json:"pouredAt"`
	BartenderID   string    `json:"bartenderId"`
	BartenderName string    `json:"bartenderName"`
}

// BatchSummary reports what a batch did in aggregate.
type BatchSummary struct {
	TotalPints     int `json:"totalPints"`
	PatronsUpdated int `json:"patronsUpdated"`
	Bartenders     int `json:"bartenders"`
}

// BatchLogResult is the outcome of a committed batch.
type BatchLogResult struct {
	Pints   []PintResponse `json:"pints"`
	Summary BatchSummary   `json:"summary"`
}

// --- PintService Interface ---
type PintService interface {
	LogPints(entries []LogPintRequest) (*BatchLogResult, error)
	LogSinglePint(patronID, bartenderID string) (*PintResponse, error)
	GetPints(patronID *string, limit, offset int) ([]PintResponse, error)
	DeletePint(pintID string) error
}

// --- pintService Implementation ---
type pintService struct {
	pintRepo   repositories.PintRepository
	patronRepo repositories.PatronRepository
	userRepo   repositories.UserRepository
	db         *sql.DB // For managing transactions
}

// NewPintService creates a new instance of PintService.
func NewPintService(
	pr repositories.PintRepository,
	patr repositories.PatronRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) PintService {
	return &pintService{
		pintRepo:   pr,
		patronRepo: patr,
		userRepo:   ur,
		db:         db,
	}
}

// batchEntry is a validated logging request with its effective timestamp resolved.
type batchEntry struct {
	LogPintRequest
	pouredAt time.Time
}

// validateBatch checks the whole batch before any lookups or writes. An
// invalid entry anywhere fails the entire batch.
func (s *pintService) validateBatch(entries []LogPintRequest) ([]batchEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: pints array is required and must not be empty", ErrPintValidation)
	}

	now := time.Now()
	validated := make([]batchEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.PatronID == "" || entry.BartenderID == "" || entry.Quantity < 1 {
			return nil, fmt.Errorf("%w: each pint must have patronId, bartenderId, and quantity (minimum 1)", ErrPintValidation)
		}
		pouredAt := now
		if entry.PouredAt != nil && *entry.PouredAt != "" {
			parsed, err := time.Parse(time.RFC3339, *entry.PouredAt)
			if err != nil {
				return nil, fmt.Errorf("%w: pouredAt must be an RFC 3339 timestamp", ErrPintValidation)
			}
			pouredAt = parsed
		}
		validated = append(validated, batchEntry{LogPintRequest: entry, pouredAt: pouredAt})
	}
	return validated, nil
}

// distinctIDs returns the distinct values of ids in order of first appearance.
func distinctIDs(entries []batchEntry, pick func(batchEntry) string) []string {
	seen := make(map[string]struct{}, len(entries))
	var ids []string
	for _, entry := range entries {
		id := pick(entry)
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// resolveReferences loads every referenced patron and bartender. Both lookups
// always run so the caller learns which category failed; patron failures are
// reported first, matching the single-pour endpoint.
func (s *pintService) resolveReferences(entries []batchEntry) (map[string]*models.Patron, map[string]*models.User, []string, []string, error) {
	patronIDs := distinctIDs(entries, func(e batchEntry) string { return e.PatronID })
	bartenderIDs := distinctIDs(entries, func(e batchEntry) string { return e.BartenderID })

	patrons, patronErr := s.patronRepo.GetPatronsByIDs(patronIDs)
	bartenders, bartenderErr := s.userRepo.GetUsersByIDs(bartenderIDs)
	if patronErr != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to verify patrons: %w", patronErr)
	}
	if bartenderErr != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to verify bartenders: %w", bartenderErr)
	}

	patronsByID := make(map[string]*models.Patron, len(patrons))
	for i := range patrons {
		patronsByID[patrons[i].ID] = &patrons[i]
	}
	bartendersByID := make(map[string]*models.User, len(bartenders))
	for i := range bartenders {
		bartendersByID[bartenders[i].ID] = &bartenders[i]
	}

	if len(patronsByID) != len(patronIDs) {
		return nil, nil, nil, nil, ErrPatronNotFound
	}
	if len(bartendersByID) != len(bartenderIDs) {
		return nil, nil, nil, nil, ErrBartenderNotFound
	}
	return patronsByID, bartendersByID, patronIDs, bartenderIDs, nil
}

// LogPints validates and applies a batch of pour requests. Each entry yields
// quantity individual pint rows (the audit trail) and each distinct patron
// gets exactly one counter increment for its batch-wide sum. All writes run
// inside one transaction: a batch either fully applies or fully does not.
func (s *pintService) LogPints(entries []LogPintRequest) (*BatchLogResult, error) {
	validated, err := s.validateBatch(entries)
	if err != nil {
		return nil, err
	}

	patronsByID, bartendersByID, patronIDs, bartenderIDs, err := s.resolveReferences(validated)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for pint batch: %w", err)
	}
	defer tx.Rollback()

	created := []PintResponse{}
	perPatron := make(map[string]int, len(patronIDs))
	for _, entry := range validated {
		perPatron[entry.PatronID] += entry.Quantity
		for i := 0; i < entry.Quantity; i++ {
			pint := &models.Pint{
				ID:          uuid.NewString(),
				PatronID:    entry.PatronID,
				BartenderID: entry.BartenderID,
				PouredAt:    entry.pouredAt,
			}
			if err := s.pintRepo.CreatePint(tx, pint); err != nil {
				return nil, fmt.Errorf("failed to create pint record: %w", err)
			}
			created = append(created, PintResponse{
				ID:            pint.ID,
				PatronID:      pint.PatronID,
				PatronName:    patronsByID[pint.PatronID].Name,
				PouredAt:      pint.PouredAt,
				BartenderID:   pint.BartenderID,
				BartenderName: bartendersByID[pint.BartenderID].BartenderLabel(),
			})
		}
	}

	for _, patronID := range patronIDs {
		if err := s.patronRepo.AddToTotalPints(tx, patronID, perPatron[patronID]); err != nil {
			return nil, fmt.Errorf("failed to update total pints for patron %s: %w", patronID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pint batch: %w", err)
	}

	return &BatchLogResult{
		Pints: created,
		Summary: BatchSummary{
			TotalPints:     len(created),
			PatronsUpdated: len(perPatron),
			Bartenders:     len(bartenderIDs),
		},
	}, nil
}

// LogSinglePint records one pour. It runs on the same transactional path as a
// batch of one.
func (s *pintService) LogSinglePint(patronID, bartenderID string) (*PintResponse, error) {
	result, err := s.LogPints([]LogPintRequest{{
		PatronID:    patronID,
		BartenderID: bartenderID,
		Quantity:    1,
	}})
	if err != nil {
		return nil, err
	}
	return &result.Pints[0], nil
}

// GetPints lists pour projections, newest first, optionally filtered by patron.
func (s *pintService) GetPints(patronID *string, limit, offset int) ([]PintResponse, error) {
	rows, err := s.pintRepo.GetPints(patronID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get pints: %w", err)
	}
	return pintProjections(rows), nil
}

// DeletePint removes one pour record and decrements the owning patron's
// counter by exactly 1, in one transaction.
func (s *pintService) DeletePint(pintID string) error {
	pint, err := s.pintRepo.GetPintByID(pintID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPintNotFound
		}
		return fmt.Errorf("failed to find pint for deletion: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for pint deletion: %w", err)
	}
	defer tx.Rollback()

	if err := s.pintRepo.DeletePint(tx, pintID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPintNotFound
		}
		return fmt.Errorf("failed to delete pint: %w", err)
	}
	if err := s.patronRepo.AddToTotalPints(tx, pint.PatronID, -1); err != nil {
		return fmt.Errorf("failed to decrement total pints for patron %s: %w", pint.PatronID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pint deletion: %w", err)
	}
	return nil
}

// pintProjections maps joined pint rows onto the API projection, applying the
// bartender label fallback.
func pintProjections(rows []models.PintWithNames) []PintResponse {
	responses := make([]PintResponse, 0, len(rows))
	for _, row := range rows {
		bartender := models.User{ID: row.BartenderID, DisplayName: row.BartenderDisplayName}
		responses = append(responses, PintResponse{
			ID:            row.ID,
			PatronID:      row.PatronID,
			PatronName:    row.PatronName,
			PouredAt:      row.PouredAt,
			BartenderID:   row.BartenderID,
			BartenderName: bartender.BartenderLabel(),
		})
	}
	return responses
}
