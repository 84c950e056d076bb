package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	sharedPersistence "github.com/temposched/tempo/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLitePreferenceRepository implements domain.PreferenceRepository using
// SQLite.
type SQLitePreferenceRepository struct {
	db *sql.DB
}

// NewSQLitePreferenceRepository creates a new SQLite preference repository.
func NewSQLitePreferenceRepository(db *sql.DB) *SQLitePreferenceRepository {
	return &SQLitePreferenceRepository{db: db}
}

func (r *SQLitePreferenceRepository) getQuerier(ctx context.Context) sharedPersistence.SQLiteQuerier {
	return sharedPersistence.SQLiteExecutor(ctx, r.db)
}

// GetOrCreate returns the owner's preference, persisting the default one
// on first access.
func (r *SQLitePreferenceRepository) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*domain.Preference, error) {
	query := `
		SELECT id, owner_id, work_start, work_end, work_days, lunch_start,
			   lunch_minutes, break_minutes, max_bookings_per_day,
			   prefer_morning, allow_auto_reschedule, created_at, updated_at
		FROM scheduling_preferences
		WHERE owner_id = ?
	`

	row := r.getQuerier(ctx).QueryRowContext(ctx, query, ownerID.String())
	pref, err := scanPreference(row)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	pref = domain.DefaultPreference(ownerID)
	if err := r.insert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// Save persists preference changes.
func (r *SQLitePreferenceRepository) Save(ctx context.Context, pref *domain.Preference) error {
	query := `
		UPDATE scheduling_preferences
		SET work_start = ?, work_end = ?, work_days = ?, lunch_start = ?,
			lunch_minutes = ?, break_minutes = ?, max_bookings_per_day = ?,
			prefer_morning = ?, allow_auto_reschedule = ?, updated_at = ?
		WHERE owner_id = ?
	`

	result, err := r.getQuerier(ctx).ExecContext(ctx, query,
		pref.WorkStart().String(),
		pref.WorkEnd().String(),
		encodeWorkDays(pref.WorkDays()),
		pref.LunchStart().String(),
		pref.LunchMinutes(),
		pref.BreakMinutes(),
		pref.MaxBookingsPerDay(),
		boolToInt(pref.PreferMorning()),
		boolToInt(pref.AllowAutoReschedule()),
		pref.UpdatedAt().Format(time.RFC3339),
		pref.OwnerID().String(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.insert(ctx, pref)
	}
	return nil
}

func (r *SQLitePreferenceRepository) insert(ctx context.Context, pref *domain.Preference) error {
	query := `
		INSERT INTO scheduling_preferences (
			id, owner_id, work_start, work_end, work_days, lunch_start,
			lunch_minutes, break_minutes, max_bookings_per_day,
			prefer_morning, allow_auto_reschedule, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier(ctx).ExecContext(ctx, query,
		pref.ID().String(),
		pref.OwnerID().String(),
		pref.WorkStart().String(),
		pref.WorkEnd().String(),
		encodeWorkDays(pref.WorkDays()),
		pref.LunchStart().String(),
		pref.LunchMinutes(),
		pref.BreakMinutes(),
		pref.MaxBookingsPerDay(),
		boolToInt(pref.PreferMorning()),
		boolToInt(pref.AllowAutoReschedule()),
		pref.CreatedAt().Format(time.RFC3339),
		pref.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

func scanPreference(row rowScanner) (*domain.Preference, error) {
	var idStr, ownerStr string
	var workStartStr, workEndStr, workDaysStr, lunchStartStr string
	var lunchMinutes, breakMinutes, maxPerDay, preferMorning, allowAuto int
	var createdStr, updatedStr string

	if err := row.Scan(
		&idStr,
		&ownerStr,
		&workStartStr,
		&workEndStr,
		&workDaysStr,
		&lunchStartStr,
		&lunchMinutes,
		&breakMinutes,
		&maxPerDay,
		&preferMorning,
		&allowAuto,
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

	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePreference(
		id, ownerID,
		workStart, workEnd,
		decodeWorkDays(workDaysStr),
		lunchStart, lunchMinutes,
		breakMinutes, maxPerDay,
		preferMorning == 1,
		allowAuto == 1,
		createdAt, updatedAt,
	), nil
}

// encodeWorkDays stores weekdays as a comma-separated list of
// time.Weekday numbers, e.g. "1,2,3,4,5".
func encodeWorkDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWorkDays(encoded string) []time.Weekday {
	if encoded == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(encoded, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
