package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stoutscout_backend/internal/models"

	"github.com/lib/pq"
)

// PatronRepository defines the interface for patron-related database operations.
type PatronRepository interface {
	CreatePatron(executor SQLExecutor, patron *models.Patron) error
	GetPatronByID(id string) (*models.Patron, error)
	GetPatrons(limit, offset int, searchTerm *string) ([]models.Patron, error)
	GetPatronsByIDs(ids []string) ([]models.Patron, error)
	UpdatePatron(executor SQLExecutor, patron *models.Patron) error
	AddToTotalPints(executor SQLExecutor, patronID string, delta int) error
	SetTotalPints(executor SQLExecutor, patronID string, total int) error
	GetLeaderboard(limit, offset int) ([]models.Patron, error)
	GetTotalsDrift() ([]models.PatronTotalsDrift, error)
}

type patronRepository struct {
	db *sql.DB
}

// NewPatronRepository creates a new instance of PatronRepository.
func NewPatronRepository(db *sql.DB) PatronRepository {
	return &patronRepository{db: db}
}

// CreatePatron inserts a new patron into the database.
func (r *patronRepository) CreatePatron(executor SQLExecutor, patron *models.Patron) error {
	query := `INSERT INTO patrons (id, name, email, birthday, joined_at, loyalty_program_joined_at, total_pints, avatar_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	currentTime := time.Now()
	if patron.JoinedAt.IsZero() {
		patron.JoinedAt = currentTime
	}
	if patron.LoyaltyProgramJoinedAt.IsZero() {
		patron.LoyaltyProgramJoinedAt = currentTime
	}

	var birthday sql.NullTime
	if patron.Birthday != nil && !patron.Birthday.IsZero() {
		birthday = sql.NullTime{Time: *patron.Birthday, Valid: true}
	}

	_, err := executor.Exec(query,
		patron.ID, patron.Name, patron.Email, birthday,
		patron.JoinedAt, patron.LoyaltyProgramJoinedAt, patron.TotalPints, patron.AvatarURL,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: creating patron: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetPatronByID retrieves a patron by their ID.
func (r *patronRepository) GetPatronByID(id string) (*models.Patron, error) {
	patron := &models.Patron{}
	query := `SELECT id, name, email, birthday, joined_at, loyalty_program_joined_at, total_pints, avatar_url
	          FROM patrons WHERE id = $1`

	var birthday sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&patron.ID, &patron.Name, &patron.Email, &birthday,
		&patron.JoinedAt, &patron.LoyaltyProgramJoinedAt, &patron.TotalPints, &patron.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting patron by ID %s: %v", ErrDatabaseError, id, err)
	}
	if birthday.Valid {
		patron.Birthday = &birthday.Time
	}
	return patron, nil
}

// GetPatrons retrieves patrons ordered by total pints, with limit/offset
// pagination and optional case-insensitive search over name and email.
func (r *patronRepository) GetPatrons(limit, offset int, searchTerm *string) ([]models.Patron, error) {
	patrons := []models.Patron{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, email, birthday, joined_at, loyalty_program_joined_at, total_pints, avatar_url
	                          FROM patrons`)

	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + *searchTerm + "%"
		queryBuilder.WriteString(fmt.Sprintf(" WHERE (name ILIKE $%d OR email ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY total_pints DESC, id ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying patrons: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var patron models.Patron
		var birthday sql.NullTime
		if err := rows.Scan(
			&patron.ID, &patron.Name, &patron.Email, &birthday,
			&patron.JoinedAt, &patron.LoyaltyProgramJoinedAt, &patron.TotalPints, &patron.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning patron: %v", ErrDatabaseError, err)
		}
		if birthday.Valid {
			patron.Birthday = &birthday.Time
		}
		patrons = append(patrons, patron)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating patron rows: %v", ErrDatabaseError, err)
	}
	return patrons, nil
}

// GetPatronsByIDs retrieves all patrons whose id is in ids. Callers compare the
// result length against the distinct id set to detect missing patrons.
func (r *patronRepository) GetPatronsByIDs(ids []string) ([]models.Patron, error) {
	patrons := []models.Patron{}
	if len(ids) == 0 {
		return patrons, nil
	}

	query := `SELECT id, name, email, birthday, joined_at, loyalty_program_joined_at, total_pints, avatar_url
	          FROM patrons WHERE id = ANY($1)`

	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: querying patrons by ids: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var patron models.Patron
		var birthday sql.NullTime
		if err := rows.Scan(
			&patron.ID, &patron.Name, &patron.Email, &birthday,
			&patron.JoinedAt, &patron.LoyaltyProgramJoinedAt, &patron.TotalPints, &patron.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning patron: %v", ErrDatabaseError, err)
		}
		if birthday.Valid {
			patron.Birthday = &birthday.Time
		}
		patrons = append(patrons, patron)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating patron rows: %v", ErrDatabaseError, err)
	}
	return patrons, nil
}

// UpdatePatron updates an existing patron in the database.
func (r *patronRepository) UpdatePatron(executor SQLExecutor, patron *models.Patron) error {
	query := `UPDATE patrons SET
	            name = $1, email = $2, birthday = $3, total_pints = $4, avatar_url = $5
	          WHERE id = $6`

	var birthday sql.NullTime
	if patron.Birthday != nil && !patron.Birthday.IsZero() {
		birthday = sql.NullTime{Time: *patron.Birthday, Valid: true}
	}

	result, err := executor.Exec(query,
		patron.Name, patron.Email, birthday, patron.TotalPints, patron.AvatarURL, patron.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating patron ID %s: %v", ErrDatabaseError, patron.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating patron ID %s: %v", ErrDatabaseError, patron.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToTotalPints applies a single incrementing (or decrementing) update to a
// patron's denormalized counter.
func (r *patronRepository) AddToTotalPints(executor SQLExecutor, patronID string, delta int) error {
	query := `UPDATE patrons SET total_pints = total_pints + $1 WHERE id = $2`
	result, err := executor.Exec(query, delta, patronID)
	if err != nil {
		return fmt.Errorf("%w: adjusting total pints for patron ID %s: %v", ErrDatabaseError, patronID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for patron ID %s: %v", ErrDatabaseError, patronID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTotalPints overwrites a patron's counter. Used by the reconciler only.
func (r *patronRepository) SetTotalPints(executor SQLExecutor, patronID string, total int) error {
	query := `UPDATE patrons SET total_pints = $1 WHERE id = $2`
	result, err := executor.Exec(query, total, patronID)
	if err != nil {
		return fmt.Errorf("%w: setting total pints for patron ID %s: %v", ErrDatabaseError, patronID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for patron ID %s: %v", ErrDatabaseError, patronID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLeaderboard retrieves patrons ordered by descending total pints. The id
// tiebreak keeps rank order deterministic across repeated calls.
func (r *patronRepository) GetLeaderboard(limit, offset int) ([]models.Patron, error) {
	patrons := []models.Patron{}
	query := `SELECT id, name, total_pints FROM patrons
	          ORDER BY total_pints DESC, id ASC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying leaderboard: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var patron models.Patron
		if err := rows.Scan(&patron.ID, &patron.Name, &patron.TotalPints); err != nil {
			return nil, fmt.Errorf("%w: scanning leaderboard row: %v", ErrDatabaseError, err)
		}
		patrons = append(patrons, patron)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating leaderboard rows: %v", ErrDatabaseError, err)
	}
	return patrons, nil
}

// GetTotalsDrift reports patrons whose total_pints counter disagrees with the
// count of their pint rows.
func (r *patronRepository) GetTotalsDrift() ([]models.PatronTotalsDrift, error) {
	drifts := []models.PatronTotalsDrift{}
	query := `SELECT p.id, p.total_pints, COUNT(pt.id) AS actual_count
	          FROM patrons p
	          LEFT JOIN pints pt ON pt.patron_id = p.id
	          GROUP BY p.id, p.total_pints
	          HAVING p.total_pints <> COUNT(pt.id)`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying totals drift: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var drift models.PatronTotalsDrift
		if err := rows.Scan(&drift.PatronID, &drift.TotalPints, &drift.ActualCount); err != nil {
			return nil, fmt.Errorf("%w: scanning totals drift row: %v", ErrDatabaseError, err)
		}
		drifts = append(drifts, drift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating totals drift rows: %v", ErrDatabaseError, err)
	}
	return drifts, nil
}
