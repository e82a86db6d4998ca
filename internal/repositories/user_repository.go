package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stoutscout_backend/internal/models"

	"github.com/lib/pq"
)

// UserRepository defines the interface for staff (bartender/manager) database
// operations, including the credential lookups used by authentication.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUsers(limit, offset int) ([]models.User, error)
	GetUsersByIDs(ids []string) ([]models.User, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, PasswordHash, Error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a new staff member into the database.
func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) error {
	query := `INSERT INTO users (id, role, display_name, username, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := executor.Exec(query,
		user.ID, user.Role, user.DisplayName, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID. The password hash is not populated.
func (r *userRepository) GetUserByID(id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, role, display_name, username, created_at FROM users WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&user.ID, &user.Role, &user.DisplayName, &user.Username, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %s: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}

// GetUsers retrieves staff members ordered by creation time.
func (r *userRepository) GetUsers(limit, offset int) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, role, display_name, username, created_at FROM users
	          ORDER BY created_at ASC, id ASC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Role, &user.DisplayName, &user.Username, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// GetUsersByIDs retrieves all users whose id is in ids. Callers compare the
// result length against the distinct id set to detect missing bartenders.
func (r *userRepository) GetUsersByIDs(ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT id, role, display_name, username, created_at FROM users WHERE id = ANY($1)`

	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: querying users by ids: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Role, &user.DisplayName, &user.Username, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// FindUserByUsername retrieves a user and their stored password hash for
// credential verification.
func (r *userRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	var passwordHash sql.NullString
	query := `SELECT id, role, display_name, username, password_hash, created_at
	          FROM users WHERE username = $1`

	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Role, &user.DisplayName, &user.Username, &passwordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, passwordHash.String, nil
}
