package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stoutscout_backend/internal/models"

	"github.com/lib/pq"
)

// PintRepository defines the interface for pint-related database operations.
// Every pour is a full audit row, not a counter bump; the per-patron counter
// lives on the patrons table and is maintained by PatronRepository.
type PintRepository interface {
	CreatePint(executor SQLExecutor, pint *models.Pint) error
	GetPintByID(id string) (*models.Pint, error)
	GetPints(patronID *string, limit, offset int) ([]models.PintWithNames, error)
	GetRecentPintsForPatron(patronID string, limit int) ([]models.PintWithNames, error)
	DeletePint(executor SQLExecutor, id string) error
}

type pintRepository struct {
	db *sql.DB
}

// NewPintRepository creates a new instance of PintRepository.
func NewPintRepository(db *sql.DB) PintRepository {
	return &pintRepository{db: db}
}

// CreatePint inserts a single pour record.
func (r *pintRepository) CreatePint(executor SQLExecutor, pint *models.Pint) error {
	query := `INSERT INTO pints (id, patron_id, bartender_id, poured_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := executor.Exec(query, pint.ID, pint.PatronID, pint.BartenderID, pint.PouredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: pint references a missing patron or bartender (constraint: %s)", ErrDatabaseError, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating pint: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetPintByID retrieves a pint by its ID.
func (r *pintRepository) GetPintByID(id string) (*models.Pint, error) {
	pint := &models.Pint{}
	query := `SELECT id, patron_id, bartender_id, poured_at FROM pints WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(&pint.ID, &pint.PatronID, &pint.BartenderID, &pint.PouredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting pint by ID %s: %v", ErrDatabaseError, id, err)
	}
	return pint, nil
}

// GetPints retrieves pour records joined with patron and bartender names,
// newest first, optionally filtered to a single patron.
func (r *pintRepository) GetPints(patronID *string, limit, offset int) ([]models.PintWithNames, error) {
	pints := []models.PintWithNames{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT pt.id, pt.patron_id, pt.bartender_id, pt.poured_at, p.name, u.display_name
	                          FROM pints pt
	                          JOIN patrons p ON p.id = pt.patron_id
	                          JOIN users u ON u.id = pt.bartender_id`)

	var args []interface{}
	argCount := 1

	if patronID != nil && *patronID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE pt.patron_id = $%d", argCount))
		args = append(args, *patronID)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY pt.poured_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pints: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pint models.PintWithNames
		if err := rows.Scan(
			&pint.ID, &pint.PatronID, &pint.BartenderID, &pint.PouredAt,
			&pint.PatronName, &pint.BartenderDisplayName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning pint: %v", ErrDatabaseError, err)
		}
		pints = append(pints, pint)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pint rows: %v", ErrDatabaseError, err)
	}
	return pints, nil
}

// GetRecentPintsForPatron retrieves the most recent pours for one patron.
func (r *pintRepository) GetRecentPintsForPatron(patronID string, limit int) ([]models.PintWithNames, error) {
	return r.GetPints(&patronID, limit, 0)
}

// DeletePint removes a pour record.
func (r *pintRepository) DeletePint(executor SQLExecutor, id string) error {
	query := `DELETE FROM pints WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting pint ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting pint ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
