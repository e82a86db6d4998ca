package services

import (
	"fmt"

	"stoutscout_backend/internal/repositories"
)

// LeaderboardEntry is a ranked patron projection. Rank is offset + positional
// index + 1; ties keep the store's deterministic order.
type LeaderboardEntry struct {
	PatronID   string `json:"patronId"`
	PatronName string `json:"patronName"`
	TotalPints int    `json:"totalPints"`
	Rank       int    `json:"rank"`
}

// LeaderboardService exposes the ranked read-only view of patrons.
type LeaderboardService interface {
	GetLeaderboard(limit, offset int) ([]LeaderboardEntry, error)
}

type leaderboardService struct {
	patronRepo repositories.PatronRepository
}

// NewLeaderboardService creates a new instance of LeaderboardService.
func NewLeaderboardService(pr repositories.PatronRepository) LeaderboardService {
	return &leaderboardService{patronRepo: pr}
}

func (s *leaderboardService) GetLeaderboard(limit, offset int) ([]LeaderboardEntry, error) {
	patrons, err := s.patronRepo.GetLeaderboard(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(patrons))
	for i, patron := range patrons {
		entries = append(entries, LeaderboardEntry{
			PatronID:   patron.ID,
			PatronName: patron.Name,
			TotalPints: patron.TotalPints,
			Rank:       offset + i + 1,
		})
	}
	return entries, nil
}
