package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memBookingRepo is an in-memory BookingRepository with the same ordering
// guarantees as the SQL implementations.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r *memBookingRepo) ListByOwnerAndRange(_ context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.OwnerID() == ownerID && !b.Start().Before(start) && b.Start().Before(end) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().Before(result[j].Start())
	})
	return result, nil
}

func (r *memBookingRepo) ListOverlapping(_ context.Context, ownerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.OwnerID() != ownerID || !b.Overlaps(start, end) {
			continue
		}
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Rank() != result[j].Rank() {
			return result[i].Rank() < result[j].Rank()
		}
		return result[i].Start().Before(result[j].Start())
	})
	return result, nil
}

func (r *memBookingRepo) UpdateTimes(_ context.Context, id uuid.UUID, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[id] = domain.RehydrateBooking(
		b.ID(), b.OwnerID(), b.Title(), b.Description(),
		start, end, b.Rank(), b.Tag(), b.CreatedAt(), time.Now().UTC(),
	)
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

// memPreferenceRepo serves one preference per owner.
type memPreferenceRepo struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]*domain.Preference
}

func newMemPreferenceRepo() *memPreferenceRepo {
	return &memPreferenceRepo{prefs: make(map[uuid.UUID]*domain.Preference)}
}

func (r *memPreferenceRepo) GetOrCreate(_ context.Context, ownerID uuid.UUID) (*domain.Preference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prefs[ownerID]; ok {
		return p, nil
	}
	p := domain.DefaultPreference(ownerID)
	r.prefs[ownerID] = p
	return p, nil
}

func (r *memPreferenceRepo) Save(_ context.Context, pref *domain.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[pref.OwnerID()] = pref
	return nil
}

// capturePublisher records published routing keys.
type capturePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *capturePublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func mustBooking(t *testing.T, repo *memBookingRepo, ownerID uuid.UUID, title string, start time.Time, minutes, rank int) *domain.Booking {
	t.Helper()
	b, err := domain.NewBooking(ownerID, title, "", start, start.Add(time.Duration(minutes)*time.Minute), rank, domain.TagForRank(rank))
	require.NoError(t, err)
	b.ClearDomainEvents()
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}
