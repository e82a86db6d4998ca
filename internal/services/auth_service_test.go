package services

import (
	"testing"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUserDefaultsToBartender(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, nil)

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username:    "maeve",
		Password:    "longenough",
		DisplayName: "Maeve",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleBartender, user.Role)
	assert.Empty(t, user.PasswordHash)

	// The stored hash verifies against the original password.
	stored := userRepo.users[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil)

	_, err := svc.RegisterUser(RegisterUserRequest{
		Username: "maeve",
		Password: "longenough",
		Role:     "WIZARD",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	username := "maeve"
	userRepo := newFakeUserRepo(&models.User{
		ID:           "user-1",
		Role:         models.RoleBartender,
		Username:     &username,
		PasswordHash: string(hash),
	})
	svc := NewAuthService(userRepo, nil)

	resp, err := svc.LoginUser(models.Credentials{Username: "maeve", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.PasswordHash)

	claims, err := utils.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleBartender, claims.Role)
}

func TestLoginUserBadPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	username := "maeve"
	userRepo := newFakeUserRepo(&models.User{
		ID:           "user-1",
		Username:     &username,
		PasswordHash: string(hash),
	})
	svc := NewAuthService(userRepo, nil)

	_, err = svc.LoginUser(models.Credentials{Username: "maeve", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginUser(models.Credentials{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	username := "maeve"
	userRepo := newFakeUserRepo(&models.User{
		ID:       "user-1",
		Role:     models.RoleManager,
		Username: &username,
	})
	svc := NewAuthService(userRepo, nil)

	refreshToken, err := utils.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	resp, err := svc.RefreshAccessToken(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "user-1", resp.User.ID)

	_, err = svc.RefreshAccessToken("garbage-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetBartendersLabels(t *testing.T) {
	displayName := "Maeve"
	userRepo := newFakeUserRepo(
		&models.User{ID: "user-1-abcdefgh", Role: models.RoleBartender, DisplayName: &displayName},
		&models.User{ID: "user-2-abcdefgh", Role: models.RoleBartender},
	)
	svc := NewStaffService(userRepo)

	views, err := svc.GetBartenders(50, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	labels := map[string]string{}
	for _, v := range views {
		labels[v.ID] = v.Label
	}
	assert.Equal(t, "Maeve", labels["user-1-abcdefgh"])
	assert.Equal(t, "Bartender user-2-a", labels["user-2-abcdefgh"])
}
