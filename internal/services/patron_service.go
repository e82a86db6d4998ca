package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Patrons ---
var (
	ErrPatronNotFound   = errors.New("one or more patrons not found")
	ErrPatronValidation = errors.New("patron data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Patron DTOs ---

type CreatePatronRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     *string `json:"email"`
	Birthday  *string `json:"birthday"` // Format YYYY-MM-DD
	AvatarURL *string `json:"avatarUrl"`
}

type UpdatePatronRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Birthday   *string `json:"birthday"` // Format YYYY-MM-DD
	AvatarURL  *string `json:"avatarUrl"`
	TotalPints *int    `json:"totalPints"`
}

// PatronDetail is a patron projection with their most recent pours attached.
type PatronDetail struct {
	models.Patron
	RecentPints []PintResponse `json:"recentPints"`
}

// recentPintsLimit bounds the pour history returned on the detail view.
const recentPintsLimit = 10

// --- PatronService Interface ---
type PatronService interface {
	CreatePatron(req CreatePatronRequest) (*models.Patron, error)
	GetPatronByID(patronID string) (*PatronDetail, error)
	GetPatrons(limit, offset int, searchTerm *string) ([]models.Patron, error)
	UpdatePatron(patronID string, req UpdatePatronRequest) (*models.Patron, error)
}

// --- patronService Implementation ---
type patronService struct {
	patronRepo repositories.PatronRepository
	pintRepo   repositories.PintRepository
	db         *sql.DB
}

// NewPatronService creates a new instance of PatronService.
func NewPatronService(pr repositories.PatronRepository, pir repositories.PintRepository, db *sql.DB) PatronService {
	return &patronService{
		patronRepo: pr,
		pintRepo:   pir,
		db:         db,
	}
}

func parseBirthday(birthdayStr *string) (*time.Time, error) {
	if birthdayStr == nil || strings.TrimSpace(*birthdayStr) == "" {
		return nil, nil
	}
	birthday, err := time.Parse("2006-01-02", *birthdayStr)
	if err != nil {
		return nil, ErrDateFormat
	}
	return &birthday, nil
}

func (s *patronService) CreatePatron(req CreatePatronRequest) (*models.Patron, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrPatronValidation)
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patron := &models.Patron{
		ID:                     uuid.NewString(),
		Name:                   req.Name,
		Email:                  req.Email,
		Birthday:               birthday,
		JoinedAt:               now,
		LoyaltyProgramJoinedAt: now,
		AvatarURL:              req.AvatarURL,
	}

	if err := s.patronRepo.CreatePatron(s.db, patron); err != nil {
		return nil, fmt.Errorf("failed to create patron in repository: %w", err)
	}
	return patron, nil
}

func (s *patronService) GetPatronByID(patronID string) (*PatronDetail, error) {
	patron, err := s.patronRepo.GetPatronByID(patronID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatronNotFound
		}
		return nil, fmt.Errorf("failed to get patron by ID: %w", err)
	}

	recent, err := s.pintRepo.GetRecentPintsForPatron(patronID, recentPintsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent pints for patron: %w", err)
	}

	return &PatronDetail{
		Patron:      *patron,
		RecentPints: pintProjections(recent),
	}, nil
}

func (s *patronService) GetPatrons(limit, offset int, searchTerm *string) ([]models.Patron, error) {
	patrons, err := s.patronRepo.GetPatrons(limit, offset, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get patrons: %w", err)
	}
	return patrons, nil
}

func (s *patronService) UpdatePatron(patronID string, req UpdatePatronRequest) (*models.Patron, error) {
	detail, err := s.patronRepo.GetPatronByID(patronID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatronNotFound
		}
		return nil, fmt.Errorf("failed to find patron for update: %w", err)
	}
	patron := detail

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrPatronValidation)
		}
		patron.Name = *req.Name
	}
	if req.Email != nil {
		patron.Email = req.Email
	}
	if req.Birthday != nil {
		birthday, parseErr := parseBirthday(req.Birthday)
		if parseErr != nil {
			return nil, parseErr
		}
		patron.Birthday = birthday
	}
	if req.AvatarURL != nil {
		patron.AvatarURL = req.AvatarURL
	}
	if req.TotalPints != nil {
		if *req.TotalPints < 0 {
			return nil, fmt.Errorf("%w: total pints cannot be negative", ErrPatronValidation)
		}
		patron.TotalPints = *req.TotalPints
	}

	if err := s.patronRepo.UpdatePatron(s.db, patron); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatronNotFound
		}
		return nil, fmt.Errorf("failed to update patron in repository: %w", err)
	}
	return patron, nil
}
