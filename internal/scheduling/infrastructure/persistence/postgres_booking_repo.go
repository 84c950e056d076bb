package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedPersistence "github.com/temposched/tempo/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// PostgresBookingRepository implements domain.BookingRepository using
// PostgreSQL.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgreSQL booking repository.
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

func (r *PostgresBookingRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Create persists a new booking.
func (r *PostgresBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, owner_id, title, description, start_time, end_time,
			priority_rank, priority_tag, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		b.ID(), b.OwnerID(), b.Title(), b.Description(),
		b.Start(), b.End(), b.Rank(), string(b.Tag()),
		b.CreatedAt(), b.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a booking, or domain.ErrBookingNotFound.
func (r *PostgresBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, owner_id, title, description, start_time, end_time,
			   priority_rank, priority_tag, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	b, err := scanPgxBooking(r.executor(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

// ListByOwnerAndRange returns an owner's bookings starting within
// [start, end), ordered by start time.
func (r *PostgresBookingRepository) ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT id, owner_id, title, description, start_time, end_time,
			   priority_rank, priority_tag, created_at, updated_at
		FROM bookings
		WHERE owner_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPgxBookings(rows)
}

// ListOverlapping returns an owner's bookings overlapping [start, end),
// most displaceable first.
func (r *PostgresBookingRepository) ListOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT id, owner_id, title, description, start_time, end_time,
			   priority_rank, priority_tag, created_at, updated_at
		FROM bookings
		WHERE owner_id = $1 AND start_time < $2 AND end_time > $3
		  AND ($4::uuid IS NULL OR id != $4)
		ORDER BY priority_rank, start_time
	`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID, end.UTC(), start.UTC(), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPgxBookings(rows)
}

// UpdateTimes rewrites a booking's start and end in a single write.
func (r *PostgresBookingRepository) UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE bookings
		SET start_time = $1, end_time = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.executor(ctx).Exec(ctx, query, start.UTC(), end.UTC(), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// Update persists title, description, priority, and time changes.
func (r *PostgresBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET title = $1, description = $2, start_time = $3, end_time = $4,
			priority_rank = $5, priority_tag = $6, updated_at = $7
		WHERE id = $8
	`

	tag, err := r.executor(ctx).Exec(ctx, query,
		b.Title(), b.Description(), b.Start(), b.End(),
		b.Rank(), string(b.Tag()), b.UpdatedAt(), b.ID(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking.
func (r *PostgresBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.executor(ctx).Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanPgxBooking(row pgx.Row) (*domain.Booking, error) {
	var id, ownerID uuid.UUID
	var title, description, tag string
	var start, end, createdAt, updatedAt time.Time
	var rank int

	if err := row.Scan(
		&id, &ownerID, &title, &description,
		&start, &end, &rank, &tag,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return domain.RehydrateBooking(
		id, ownerID, title, description,
		start, end, rank, domain.PriorityTag(tag),
		createdAt, updatedAt,
	), nil
}

func scanPgxBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanPgxBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
