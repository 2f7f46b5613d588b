package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint
// violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL via the pgx
// stdlib driver.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL-backed repository.
// The db parameter should be an open connection using the pgx driver with
// the devices schema migrated.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID retrieves a device by its unique identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	device, err := scanPostgresDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return device, nil
}

// List retrieves all devices.
func (r *PostgresRepository) List(ctx context.Context) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		ORDER BY id`

	return r.queryDevices(ctx, query)
}

// ListByBrand retrieves all devices with an exact brand match.
func (r *PostgresRepository) ListByBrand(ctx context.Context, brand string) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE brand = $1
		ORDER BY id`

	return r.queryDevices(ctx, query, brand)
}

// ListByState retrieves all devices in a specific lifecycle state.
func (r *PostgresRepository) ListByState(ctx context.Context, state State) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE state = $1
		ORDER BY id`

	return r.queryDevices(ctx, query, string(state))
}

// ListByBrandAndState retrieves all devices matching both filters.
func (r *PostgresRepository) ListByBrandAndState(ctx context.Context, brand string, state State) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE brand = $1 AND state = $2
		ORDER BY id`

	return r.queryDevices(ctx, query, brand, string(state))
}

// Create inserts a new device. The database assigns the ID and creation
// timestamp, both read back through RETURNING.
func (r *PostgresRepository) Create(ctx context.Context, device *Device) error {
	query := `
		INSERT INTO devices (name, brand, state)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		device.Name,
		device.Brand,
		string(device.State),
	).Scan(&device.ID, &createdAt)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting device: %w", err)
	}
	device.CreatedAt = createdAt.UTC().Truncate(time.Second)

	return nil
}

// Update modifies an existing device, leaving created_at untouched.
func (r *PostgresRepository) Update(ctx context.Context, device *Device) error {
	query := `
		UPDATE devices
		SET name = $1, brand = $2, state = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		device.Name,
		device.Brand,
		string(device.State),
		device.ID,
	)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("updating device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a device by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		device, err := scanPostgresDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	return devices, nil
}

// scanPostgresDevice scans a row into a Device. Postgres returns created_at
// as a native timestamp, unlike SQLite's text column.
func scanPostgresDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var state string
	var createdAt time.Time

	if err := scanner.Scan(&d.ID, &d.Name, &d.Brand, &state, &createdAt); err != nil {
		return nil, err
	}

	d.State = State(state)
	d.CreatedAt = createdAt.UTC().Truncate(time.Second)

	return &d, nil
}

// isPostgresUniqueViolation reports whether the error is a PostgreSQL
// unique constraint violation.
func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
