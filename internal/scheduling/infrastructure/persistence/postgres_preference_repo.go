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

// PostgresPreferenceRepository implements domain.PreferenceRepository
// using PostgreSQL.
type PostgresPreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPreferenceRepository creates a new PostgreSQL preference
// repository.
func NewPostgresPreferenceRepository(pool *pgxpool.Pool) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{pool: pool}
}

func (r *PostgresPreferenceRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// GetOrCreate returns the owner's preference, persisting the default one
// on first access.
func (r *PostgresPreferenceRepository) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*domain.Preference, error) {
	query := `
		SELECT id, owner_id, work_start, work_end, work_days, lunch_start,
			   lunch_minutes, break_minutes, max_bookings_per_day,
			   prefer_morning, allow_auto_reschedule, created_at, updated_at
		FROM scheduling_preferences
		WHERE owner_id = $1
	`

	pref, err := scanPgxPreference(r.executor(ctx).QueryRow(ctx, query, ownerID))
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	pref = domain.DefaultPreference(ownerID)
	if err := r.insert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// Save persists preference changes, inserting on first write.
func (r *PostgresPreferenceRepository) Save(ctx context.Context, pref *domain.Preference) error {
	query := `
		UPDATE scheduling_preferences
		SET work_start = $1, work_end = $2, work_days = $3, lunch_start = $4,
			lunch_minutes = $5, break_minutes = $6, max_bookings_per_day = $7,
			prefer_morning = $8, allow_auto_reschedule = $9, updated_at = $10
		WHERE owner_id = $11
	`

	tag, err := r.executor(ctx).Exec(ctx, query,
		pref.WorkStart().String(),
		pref.WorkEnd().String(),
		encodeWorkDays(pref.WorkDays()),
		pref.LunchStart().String(),
		pref.LunchMinutes(),
		pref.BreakMinutes(),
		pref.MaxBookingsPerDay(),
		pref.PreferMorning(),
		pref.AllowAutoReschedule(),
		pref.UpdatedAt(),
		pref.OwnerID(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.insert(ctx, pref)
	}
	return nil
}

func (r *PostgresPreferenceRepository) insert(ctx context.Context, pref *domain.Preference) error {
	query := `
		INSERT INTO scheduling_preferences (
			id, owner_id, work_start, work_end, work_days, lunch_start,
			lunch_minutes, break_minutes, max_bookings_per_day,
			prefer_morning, allow_auto_reschedule, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		pref.ID(),
		pref.OwnerID(),
		pref.WorkStart().String(),
		pref.WorkEnd().String(),
		encodeWorkDays(pref.WorkDays()),
		pref.LunchStart().String(),
		pref.LunchMinutes(),
		pref.BreakMinutes(),
		pref.MaxBookingsPerDay(),
		pref.PreferMorning(),
		pref.AllowAutoReschedule(),
		pref.CreatedAt(),
		pref.UpdatedAt(),
	)
	return err
}

func scanPgxPreference(row pgx.Row) (*domain.Preference, error) {
	var id, ownerID uuid.UUID
	var workStartStr, workEndStr, workDaysStr, lunchStartStr string
	var lunchMinutes, breakMinutes, maxPerDay int
	var preferMorning, allowAuto bool
	var createdAt, updatedAt time.Time

	if err := row.Scan(
		&id, &ownerID,
		&workStartStr, &workEndStr, &workDaysStr, &lunchStartStr,
		&lunchMinutes, &breakMinutes, &maxPerDay,
		&preferMorning, &allowAuto,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	workStart, err := domain.ParseTimeOfDay(workStartStr)
	if err != nil {
		return nil, err
	}
	workEnd, err := domain.ParseTimeOfDay(workEndStr)
	if err != nil {
		return nil, err
	}
	lunchStart, err := domain.ParseTimeOfDay(lunchStartStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePreference(
		id, ownerID,
		workStart, workEnd,
		decodeWorkDays(workDaysStr),
		lunchStart, lunchMinutes,
		breakMinutes, maxPerDay,
		preferMorning, allowAuto,
		createdAt, updatedAt,
	), nil
}
