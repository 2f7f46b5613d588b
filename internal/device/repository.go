package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, PostgreSQL,
// mock, etc.) and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrNotFound if the device does not exist.
	GetByID(ctx context.Context, id int64) (*Device, error)

	// List retrieves all devices.
	List(ctx context.Context) ([]Device, error)

	// ListByBrand retrieves all devices with an exact brand match.
	ListByBrand(ctx context.Context, brand string) ([]Device, error)

	// ListByState retrieves all devices in a specific lifecycle state.
	ListByState(ctx context.Context, state State) ([]Device, error)

	// ListByBrandAndState retrieves all devices matching both a brand and a
	// lifecycle state.
	ListByBrandAndState(ctx context.Context, brand string, state State) ([]Device, error)

	// Create inserts a new device, assigning its ID and creation timestamp.
	// Returns ErrDuplicate if a device with the same (name, brand) already
	// exists.
	Create(ctx context.Context, device *Device) error

	// Update modifies an existing device. The creation timestamp is never
	// touched. Returns ErrNotFound if the device does not exist and
	// ErrDuplicate if the new (name, brand) collides with another device.
	Update(ctx context.Context, device *Device) error

	// Delete removes a device by ID.
	// Returns ErrNotFound if the device does not exist.
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the devices
// schema migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return device, nil
}

// List retrieves all devices.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		ORDER BY id`

	return r.queryDevices(ctx, query)
}

// ListByBrand retrieves all devices with an exact brand match.
func (r *SQLiteRepository) ListByBrand(ctx context.Context, brand string) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE brand = ?
		ORDER BY id`

	return r.queryDevices(ctx, query, brand)
}

// ListByState retrieves all devices in a specific lifecycle state.
func (r *SQLiteRepository) ListByState(ctx context.Context, state State) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE state = ?
		ORDER BY id`

	return r.queryDevices(ctx, query, string(state))
}

// ListByBrandAndState retrieves all devices matching both filters.
func (r *SQLiteRepository) ListByBrandAndState(ctx context.Context, brand string, state State) ([]Device, error) {
	query := `
		SELECT id, name, brand, state, created_at
		FROM devices
		WHERE brand = ? AND state = ?
		ORDER BY id`

	return r.queryDevices(ctx, query, brand, string(state))
}

// Create inserts a new device, assigning its ID and creation timestamp.
func (r *SQLiteRepository) Create(ctx context.Context, device *Device) error {
	// Second precision matches the wire format, so a created device
	// round-trips through the API byte for byte.
	device.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO devices (name, brand, state, created_at)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		device.Name,
		device.Brand,
		string(device.State),
		device.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted device id: %w", err)
	}
	device.ID = id

	return nil
}

// Update modifies an existing device. The created_at column is deliberately
// absent from the SET clause so the creation timestamp can never drift.
func (r *SQLiteRepository) Update(ctx context.Context, device *Device) error {
	query := `
		UPDATE devices
		SET name = ?, brand = ?, state = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		device.Name,
		device.Brand,
		string(device.State),
		device.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
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
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
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

// queryDevices executes a query and returns a slice of devices.
func (r *SQLiteRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		device, err := scanDevice(rows)
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

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a row or rows result into a Device. SQLite stores the
// creation timestamp as RFC 3339 text.
func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var state, createdAt string

	if err := scanner.Scan(&d.ID, &d.Name, &d.Brand, &state, &createdAt); err != nil {
		return nil, err
	}

	d.State = State(state)

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	d.CreatedAt = parsed

	return &d, nil
}

// isUniqueConstraintError reports whether the error is a SQLite unique
// constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
