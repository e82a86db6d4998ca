package services

import (
	"errors"
	"testing"
	"time"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes ---

type fakePatronRepo struct {
	patrons map[string]*models.Patron
	drifts  []models.PatronTotalsDrift
	setCalls map[string]int
}

func newFakePatronRepo(patrons ...*models.Patron) *fakePatronRepo {
	repo := &fakePatronRepo{patrons: map[string]*models.Patron{}, setCalls: map[string]int{}}
	for _, p := range patrons {
		repo.patrons[p.ID] = p
	}
	return repo
}

func (r *fakePatronRepo) CreatePatron(_ repositories.SQLExecutor, patron *models.Patron) error {
	cp := *patron
	r.patrons[patron.ID] = &cp
	return nil
}

func (r *fakePatronRepo) GetPatronByID(id string) (*models.Patron, error) {
	patron, ok := r.patrons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *patron
	return &cp, nil
}

func (r *fakePatronRepo) GetPatrons(limit, offset int, searchTerm *string) ([]models.Patron, error) {
	var out []models.Patron
	for _, p := range r.patrons {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePatronRepo) GetPatronsByIDs(ids []string) ([]models.Patron, error) {
	var out []models.Patron
	for _, id := range ids {
		if p, ok := r.patrons[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePatronRepo) UpdatePatron(_ repositories.SQLExecutor, patron *models.Patron) error {
	if _, ok := r.patrons[patron.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *patron
	r.patrons[patron.ID] = &cp
	return nil
}

func (r *fakePatronRepo) AddToTotalPints(_ repositories.SQLExecutor, patronID string, delta int) error {
	patron, ok := r.patrons[patronID]
	if !ok {
		return repositories.ErrNotFound
	}
	patron.TotalPints += delta
	return nil
}

func (r *fakePatronRepo) SetTotalPints(_ repositories.SQLExecutor, patronID string, total int) error {
	patron, ok := r.patrons[patronID]
	if !ok {
		return repositories.ErrNotFound
	}
	patron.TotalPints = total
	r.setCalls[patronID] = total
	return nil
}

func (r *fakePatronRepo) GetLeaderboard(limit, offset int) ([]models.Patron, error) {
	return nil, nil
}

func (r *fakePatronRepo) GetTotalsDrift() ([]models.PatronTotalsDrift, error) {
	return r.drifts, nil
}

type fakePintRepo struct {
	pints      map[string]*models.Pint
	failAfter  int // fail the Nth create when > 0
	createSeen int
}

func newFakePintRepo() *fakePintRepo {
	return &fakePintRepo{pints: map[string]*models.Pint{}}
}

func (r *fakePintRepo) CreatePint(_ repositories.SQLExecutor, pint *models.Pint) error {
	r.createSeen++
	if r.failAfter > 0 && r.createSeen >= r.failAfter {
		return repositories.ErrDatabaseError
	}
	cp := *pint
	r.pints[pint.ID] = &cp
	return nil
}

func (r *fakePintRepo) GetPintByID(id string) (*models.Pint, error) {
	pint, ok := r.pints[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *pint
	return &cp, nil
}

func (r *fakePintRepo) GetPints(patronID *string, limit, offset int) ([]models.PintWithNames, error) {
	var out []models.PintWithNames
	for _, p := range r.pints {
		if patronID != nil && p.PatronID != *patronID {
			continue
		}
		out = append(out, models.PintWithNames{Pint: *p, PatronName: "patron"})
	}
	return out, nil
}

func (r *fakePintRepo) GetRecentPintsForPatron(patronID string, limit int) ([]models.PintWithNames, error) {
	return r.GetPints(&patronID, limit, 0)
}

func (r *fakePintRepo) DeletePint(_ repositories.SQLExecutor, id string) error {
	if _, ok := r.pints[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.pints, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetUsers(limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetUsersByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindUserByUsername(username string) (*models.User, string, error) {
	for _, u := range r.users {
		if u.Username != nil && *u.Username == username {
			cp := *u
			return &cp, u.PasswordHash, nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

// --- Helpers ---

func patron(id, name string, total int) *models.Patron {
	return &models.Patron{ID: id, Name: name, TotalPints: total}
}

func bartender(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleBartender}
}

// --- Tests ---

func TestLogPintsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 5), patron("patron-b", "Ben", 3))
	pintRepo := newFakePintRepo()
	userRepo := newFakeUserRepo(bartender("bartender-x-12345678"))

	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	result, err := svc.LogPints([]LogPintRequest{
		{PatronID: "patron-a", BartenderID: "bartender-x-12345678", Quantity: 2},
		{PatronID: "patron-b", BartenderID: "bartender-x-12345678", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Len(t, result.Pints, 3)
	assert.Equal(t, 3, result.Summary.TotalPints)
	assert.Equal(t, 2, result.Summary.PatronsUpdated)
	assert.Equal(t, 1, result.Summary.Bartenders)

	assert.Equal(t, 7, patronRepo.patrons["patron-a"].TotalPints)
	assert.Equal(t, 4, patronRepo.patrons["patron-b"].TotalPints)
	assert.Len(t, pintRepo.pints, 3)

	assert.Equal(t, "Anna", result.Pints[0].PatronName)
	assert.Equal(t, "Bartender bartende", result.Pints[0].BartenderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogPintsUnknownPatron(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 5))
	pintRepo := newFakePintRepo()
	userRepo := newFakeUserRepo(bartender("bartender-x"))

	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	_, err = svc.LogPints([]LogPintRequest{
		{PatronID: "patron-a", BartenderID: "bartender-x", Quantity: 1},
		{PatronID: "ghost", BartenderID: "bartender-x", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrPatronNotFound)

	// Atomic rejection: nothing written, counters untouched.
	assert.Empty(t, pintRepo.pints)
	assert.Equal(t, 5, patronRepo.patrons["patron-a"].TotalPints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogPintsUnknownBartender(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 0))
	pintRepo := newFakePintRepo()
	userRepo := newFakeUserRepo()

	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	_, err = svc.LogPints([]LogPintRequest{
		{PatronID: "patron-a", BartenderID: "ghost", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrBartenderNotFound)
	assert.Empty(t, pintRepo.pints)
}

func TestLogPintsValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewPintService(newFakePintRepo(), newFakePatronRepo(), newFakeUserRepo(), db)

	cases := []struct {
		name    string
		entries []LogPintRequest
	}{
		{"empty batch", []LogPintRequest{}},
		{"missing patron", []LogPintRequest{{BartenderID: "b", Quantity: 1}}},
		{"missing bartender", []LogPintRequest{{PatronID: "p", Quantity: 1}}},
		{"zero quantity", []LogPintRequest{{PatronID: "p", BartenderID: "b", Quantity: 0}}},
		{"bad timestamp", []LogPintRequest{{PatronID: "p", BartenderID: "b", Quantity: 1, PouredAt: strPtr("not-a-time")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogPints(tc.entries)
			assert.ErrorIs(t, err, ErrPintValidation)
		})
	}
}

func TestLogPintsExplicitTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 0))
	pintRepo := newFakePintRepo()
	userRepo := newFakeUserRepo(bartender("bartender-x"))

	pouredAt := "2026-08-20T21:15:00Z"
	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	result, err := svc.LogPints([]LogPintRequest{
		{PatronID: "patron-a", BartenderID: "bartender-x", Quantity: 1, PouredAt: &pouredAt},
	})
	require.NoError(t, err)

	want, _ := time.Parse(time.RFC3339, pouredAt)
	assert.True(t, result.Pints[0].PouredAt.Equal(want))
}

func TestLogPintsMidWriteFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 5))
	pintRepo := newFakePintRepo()
	pintRepo.failAfter = 2 // second insert fails mid-batch
	userRepo := newFakeUserRepo(bartender("bartender-x"))

	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	_, err = svc.LogPints([]LogPintRequest{
		{PatronID: "patron-a", BartenderID: "bartender-x", Quantity: 3},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrDatabaseError))

	// No counter update happened and the transaction rolled back.
	assert.Equal(t, 5, patronRepo.patrons["patron-a"].TotalPints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogSinglePint(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	displayName := "Maeve"
	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 41))
	pintRepo := newFakePintRepo()
	userRepo := newFakeUserRepo(&models.User{ID: "bartender-x", Role: models.RoleBartender, DisplayName: &displayName})

	svc := NewPintService(pintRepo, patronRepo, userRepo, db)
	pint, err := svc.LogSinglePint("patron-a", "bartender-x")
	require.NoError(t, err)

	assert.Equal(t, "Anna", pint.PatronName)
	assert.Equal(t, "Maeve", pint.BartenderName)
	assert.Equal(t, 42, patronRepo.patrons["patron-a"].TotalPints)
	assert.Len(t, pintRepo.pints, 1)
}

func TestDeletePint(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	patronRepo := newFakePatronRepo(patron("patron-a", "Anna", 7))
	pintRepo := newFakePintRepo()
	pintRepo.pints["pint-1"] = &models.Pint{ID: "pint-1", PatronID: "patron-a", BartenderID: "bartender-x"}

	svc := NewPintService(pintRepo, patronRepo, newFakeUserRepo(), db)
	require.NoError(t, svc.DeletePint("pint-1"))

	assert.Equal(t, 6, patronRepo.patrons["patron-a"].TotalPints)
	_, err = pintRepo.GetPintByID("pint-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePintUnknown(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewPintService(newFakePintRepo(), newFakePatronRepo(), newFakeUserRepo(), db)
	err = svc.DeletePint("ghost")
	assert.ErrorIs(t, err, ErrPintNotFound)
}

func strPtr(s string) *string {
	return &s
}
