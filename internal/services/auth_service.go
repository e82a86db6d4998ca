package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stoutscout_backend/internal/models"
	"stoutscout_backend/internal/repositories"
	"stoutscout_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("role must be BARTENDER or MANAGER")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// --- Auth DTOs ---

// RegisterUserRequest creates a staff account. Role defaults to BARTENDER.
type RegisterUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// AuthResponse carries the authenticated user and their token pair.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	LoginUser(creds models.Credentials) (*AuthResponse, error)
	RefreshAccessToken(refreshToken string) (*AuthResponse, error)
	GetUserProfile(userID string) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{
		userRepo: userRepo,
		db:       db,
	}
}

// RegisterUser handles the business logic for staff registration.
func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleBartender
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRole, req.Role)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Role:         role,
		DisplayName:  utils.NewNullString(req.DisplayName),
		Username:     &req.Username,
		PasswordHash: string(hashedPasswordBytes),
	}

	if err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user.PasswordHash = "" // never leaves the service
	return user, nil
}

// LoginUser verifies credentials and issues an access/refresh token pair.
func (s *authService) LoginUser(creds models.Credentials) (*AuthResponse, error) {
	user, storedHash, err := s.userRepo.FindUserByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if storedHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPair(user)
}

// RefreshAccessToken exchanges a valid refresh token for a new token pair.
func (s *authService) RefreshAccessToken(refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("refresh attempt failed: %w", err)
	}

	return s.tokenPair(user)
}

// GetUserProfile retrieves a staff member's profile by their ID.
func (s *authService) GetUserProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user, nil
}

func (s *authService) tokenPair(user *models.User) (*AuthResponse, error) {
	username := ""
	if user.Username != nil {
		username = *user.Username
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
