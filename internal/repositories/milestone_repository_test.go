package repositories

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMilestonesAscending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMilestoneRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "pint_target", "reward_text"}).
		AddRow("milestone-25", "25 Pints Club", 25, "Free pint on the house").
		AddRow("milestone-50", "50 Pints Club", 50, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM milestones ORDER BY pint_target ASC")).
		WillReturnRows(rows)

	milestones, err := repo.GetMilestones()
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, 25, milestones[0].PintTarget)
	require.NotNil(t, milestones[0].RewardText)
	assert.Nil(t, milestones[1].RewardText)
	assert.NoError(t, mock.ExpectationsWereMet())
}
