package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedPersistence "github.com/temposched/tempo/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)


// SQLiteBookingRepository implements domain.BookingRepository using SQLite.
type SQLiteBookingRepository struct {
	db *sql.DB
}

// NewSQLiteBookingRepository creates a new SQLite booking repository.
func NewSQLiteBookingRepository(db *sql.DB) *SQLiteBookingRepository {
	return &SQLiteBookingRepository{db: db}
}

func (r *SQLiteBookingRepository) getQuerier(ctx context.Context) sharedPersistence.SQLiteQuerier {
	return sharedPersistence.SQLiteExecutor(ctx, r.db)
}

// Create persists a new booking.
func (r *SQLiteBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, owner_id, title, description, start_time, end_time,
			priority_rank, priority_tag, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier(ctx).ExecContext(ctx, query,
		b.ID().String(),
		b.OwnerID().String(),
		b.Title(),
		b.Description(),
		b.Start().Format(time.RFC3339),
		b.End().Format(time.RFC3339),
		b.Rank(),
		string(b.Tag()),
		b.CreatedAt().Format(time.RFC3339),
		b.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

const bookingColumns = `
	id, owner_id, title, description, start_time, end_time,
	priority_rank, priority_tag, created_at, updated_at
`

// FindByID retrieves a booking, or domain.ErrBookingNotFound.
func (r *SQLiteBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	row := r.getQuerier(ctx).QueryRowContext(ctx, query, id.String())
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

// ListByOwnerAndRange returns an owner's bookings starting within
// [start, end), ordered by start time.
func (r *SQLiteBookingRepository) ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE owner_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time
	`

	rows, err := r.getQuerier(ctx).QueryContext(ctx, query,
		ownerID.String(),
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListOverlapping returns an owner's bookings overlapping [start, end),
// most displaceable first.
func (r *SQLiteBookingRepository) ListOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE owner_id = ? AND start_time < ? AND end_time > ?
	`
	args := []any{
		ownerID.String(),
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	}

	if excludeID != nil {
		query += ` AND id != ?`
		args = append(args, excludeID.String())
	}

	query += ` ORDER BY priority_rank, start_time`

	rows, err := r.getQuerier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateTimes rewrites a booking's start and end in a single write.
func (r *SQLiteBookingRepository) UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE bookings
		SET start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier(ctx).ExecContext(ctx, query,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		id.String(),
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Update persists title, description, priority, and time changes.
func (r *SQLiteBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET title = ?, description = ?, start_time = ?, end_time = ?,
			priority_rank = ?, priority_tag = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier(ctx).ExecContext(ctx, query,
		b.Title(),
		b.Description(),
		b.Start().Format(time.RFC3339),
		b.End().Format(time.RFC3339),
		b.Rank(),
		string(b.Tag()),
		b.UpdatedAt().Format(time.RFC3339),
		b.ID().String(),
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a booking.
func (r *SQLiteBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.getQuerier(ctx).ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var idStr, ownerStr, title, description string
	var startStr, endStr string
	var rank int
	var tag string
	var createdStr, updatedStr string

	if err := row.Scan(
		&idStr,
		&ownerStr,
		&title,
		&description,
		&startStr,
		&endStr,
		&rank,
		&tag,
		&createdStr,
		&updatedStr,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	ownerID, err := uuid.Parse(ownerStr)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateBooking(
		id, ownerID, title, description,
		start, end, rank, domain.PriorityTag(tag),
		createdAt, updatedAt,
	), nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
