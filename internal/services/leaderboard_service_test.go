package services

import (
	"testing"

	"stoutscout_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaderboardRepo struct {
	fakePatronRepo
	ranked []models.Patron
}

func (r *fakeLeaderboardRepo) GetLeaderboard(limit, offset int) ([]models.Patron, error) {
	if offset >= len(r.ranked) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.ranked) {
		end = len(r.ranked)
	}
	return r.ranked[offset:end], nil
}

func TestGetLeaderboardRanks(t *testing.T) {
	repo := &fakeLeaderboardRepo{ranked: []models.Patron{
		{ID: "p1", Name: "Anna", TotalPints: 100},
		{ID: "p2", Name: "Ben", TotalPints: 60},
		{ID: "p3", Name: "Cara", TotalPints: 60},
		{ID: "p4", Name: "Dan", TotalPints: 10},
	}}
	svc := NewLeaderboardService(repo)

	entries, err := svc.GetLeaderboard(10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "Anna", entries[0].PatronName)
	assert.Equal(t, 100, entries[0].TotalPints)
}

func TestGetLeaderboardRanksContinueAcrossPages(t *testing.T) {
	repo := &fakeLeaderboardRepo{ranked: []models.Patron{
		{ID: "p1", Name: "Anna", TotalPints: 100},
		{ID: "p2", Name: "Ben", TotalPints: 60},
		{ID: "p3", Name: "Cara", TotalPints: 50},
		{ID: "p4", Name: "Dan", TotalPints: 10},
		{ID: "p5", Name: "Eve", TotalPints: 5},
	}}
	svc := NewLeaderboardService(repo)

	entries, err := svc.GetLeaderboard(2, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].Rank)
	assert.Equal(t, "Dan", entries[0].PatronName)
	assert.Equal(t, 5, entries[1].Rank)
}

func TestGetLeaderboardEmpty(t *testing.T) {
	svc := NewLeaderboardService(&fakeLeaderboardRepo{})

	entries, err := svc.GetLeaderboard(10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
