package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/temposched/tempo/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidWorkHours = errors.New("work end must be after work start")
	ErrInvalidTimeOfDay = errors.New("time of day out of range")
)

// Weekend scheduling uses a fixed, wider window than configured work hours.
var (
	weekendDayStart = TimeOfDay{Hour: 10}
	weekendDayEnd   = TimeOfDay{Hour: 20}
)

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay validates and builds a TimeOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On anchors the time of day to a concrete date in UTC.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM" input.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(hour, minute)
}

// Preference holds a user's scheduling behavior settings. Missing
// preferences are created lazily with the defaults below; they are never
// auto-deleted.
type Preference struct {
	sharedDomain.BaseEntity
	ownerID             uuid.UUID
	workStart           TimeOfDay
	workEnd             TimeOfDay
	workDays            map[time.Weekday]bool
	lunchStart          TimeOfDay
	lunchMinutes        int
	breakMinutes        int
	maxBookingsPerDay   int
	preferMorning       bool
	allowAutoReschedule bool
}

// DefaultPreference returns the preference created on first access:
// 09:00-18:00 Monday through Friday, a 60-minute lunch at 12:00, no forced
// breaks, morning preference and auto-reschedule enabled.
func DefaultPreference(ownerID uuid.UUID) *Preference {
	return &Preference{
		BaseEntity: sharedDomain.NewBaseEntity(),
		ownerID:    ownerID,
		workStart:  TimeOfDay{Hour: 9},
		workEnd:    TimeOfDay{Hour: 18},
		workDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		lunchStart:          TimeOfDay{Hour: 12},
		lunchMinutes:        60,
		breakMinutes:        0,
		maxBookingsPerDay:   10,
		preferMorning:       true,
		allowAutoReschedule: true,
	}
}

// Getters
func (p *Preference) OwnerID() uuid.UUID       { return p.ownerID }
func (p *Preference) WorkStart() TimeOfDay     { return p.workStart }
func (p *Preference) WorkEnd() TimeOfDay       { return p.workEnd }
func (p *Preference) LunchStart() TimeOfDay    { return p.lunchStart }
func (p *Preference) LunchMinutes() int        { return p.lunchMinutes }
func (p *Preference) BreakMinutes() int        { return p.breakMinutes }
func (p *Preference) MaxBookingsPerDay() int   { return p.maxBookingsPerDay }
func (p *Preference) PreferMorning() bool      { return p.preferMorning }
func (p *Preference) AllowAutoReschedule() bool { return p.allowAutoReschedule }

// WorkDays returns the active weekdays in Monday-first order.
func (p *Preference) WorkDays() []time.Weekday {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	days := make([]time.Weekday, 0, len(p.workDays))
	for _, d := range order {
		if p.workDays[d] {
			days = append(days, d)
		}
	}
	return days
}

// IsWorkDay reports whether the given date falls on an active work day.
func (p *Preference) IsWorkDay(date time.Time) bool {
	return p.workDays[date.Weekday()]
}

// IsWeekendDay reports whether the date is a Saturday or Sunday.
func (p *Preference) IsWeekendDay(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayWindow returns the schedulable window for a date: configured work
// hours on weekdays, the fixed 10:00-20:00 window on weekends.
func (p *Preference) DayWindow(date time.Time) (time.Time, time.Time) {
	if p.IsWeekendDay(date) {
		return weekendDayStart.On(date), weekendDayEnd.On(date)
	}
	return p.workStart.On(date), p.workEnd.On(date)
}

// LunchWindow returns the lunch interval anchored to a date, or zero times
// when no lunch break is configured.
func (p *Preference) LunchWindow(date time.Time) (time.Time, time.Time) {
	if p.lunchMinutes <= 0 {
		return time.Time{}, time.Time{}
	}
	start := p.lunchStart.On(date)
	return start, start.Add(time.Duration(p.lunchMinutes) * time.Minute)
}

// SetWorkHours updates the working window.
func (p *Preference) SetWorkHours(start, end TimeOfDay) error {
	if !start.Before(end) {
		return ErrInvalidWorkHours
	}
	p.workStart = start
	p.workEnd = end
	p.Touch()
	return nil
}

// SetWorkDays replaces the active weekday set.
func (p *Preference) SetWorkDays(days []time.Weekday) {
	p.workDays = make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		p.workDays[d] = true
	}
	p.Touch()
}

// SetLunch updates the lunch break. A zero duration disables the lunch
// filter entirely.
func (p *Preference) SetLunch(start TimeOfDay, minutes int) {
	p.lunchStart = start
	p.lunchMinutes = minutes
	p.Touch()
}

// SetBreakMinutes updates the minimum buffer between consecutive bookings.
func (p *Preference) SetBreakMinutes(minutes int) {
	p.breakMinutes = minutes
	p.Touch()
}

// SetMaxBookingsPerDay updates the daily booking cap.
func (p *Preference) SetMaxBookingsPerDay(max int) {
	p.maxBookingsPerDay = max
	p.Touch()
}

// SetPreferMorning toggles the morning scoring bonus.
func (p *Preference) SetPreferMorning(v bool) {
	p.preferMorning = v
	p.Touch()
}

// SetAllowAutoReschedule toggles displacement of lower-priority bookings.
func (p *Preference) SetAllowAutoReschedule(v bool) {
	p.allowAutoReschedule = v
	p.Touch()
}

// RehydratePreference recreates a preference from persisted state.
func RehydratePreference(
	id uuid.UUID,
	ownerID uuid.UUID,
	workStart, workEnd TimeOfDay,
	workDays []time.Weekday,
	lunchStart TimeOfDay,
	lunchMinutes int,
	breakMinutes int,
	maxBookingsPerDay int,
	preferMorning bool,
	allowAutoReschedule bool,
	createdAt, updatedAt time.Time,
) *Preference {
	daySet := make(map[time.Weekday]bool, len(workDays))
	for _, d := range workDays {
		daySet[d] = true
	}
	return &Preference{
		BaseEntity:          sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		ownerID:             ownerID,
		workStart:           workStart,
		workEnd:             workEnd,
		workDays:            daySet,
		lunchStart:          lunchStart,
		lunchMinutes:        lunchMinutes,
		breakMinutes:        breakMinutes,
		maxBookingsPerDay:   maxBookingsPerDay,
		preferMorning:       preferMorning,
		allowAutoReschedule: allowAutoReschedule,
	}
}
