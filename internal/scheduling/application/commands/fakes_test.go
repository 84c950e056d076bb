package commands

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/temposched/tempo/internal/scheduling/application/services"
	"github.com/temposched/tempo/internal/scheduling/domain"
	"github.com/temposched/tempo/internal/shared/infrastructure/locking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo is an in-memory BookingRepository with the same ordering
// guarantees as the SQL implementations, plus switchable failure modes for
// rollback tests.
type fakeBookingRepo struct {
	bookings   map[uuid.UUID]*domain.Booking
	failCreate error
	failDelete error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) ListByOwnerAndRange(_ context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Booking, error) {
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

func (r *fakeBookingRepo) ListOverlapping(_ context.Context, ownerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Booking, error) {
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

func (r *fakeBookingRepo) UpdateTimes(_ context.Context, id uuid.UUID, start, end time.Time) error {
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

func (r *fakeBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) all(ownerID uuid.UUID) []*domain.Booking {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.OwnerID() == ownerID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().Before(result[j].Start())
	})
	return result
}

type fakePreferenceRepo struct {
	prefs map[uuid.UUID]*domain.Preference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[uuid.UUID]*domain.Preference)}
}

func (r *fakePreferenceRepo) GetOrCreate(_ context.Context, ownerID uuid.UUID) (*domain.Preference, error) {
	if p, ok := r.prefs[ownerID]; ok {
		return p, nil
	}
	p := domain.DefaultPreference(ownerID)
	r.prefs[ownerID] = p
	return p, nil
}

func (r *fakePreferenceRepo) Save(_ context.Context, pref *domain.Preference) error {
	r.prefs[pref.OwnerID()] = pref
	return nil
}

// passthroughUoW satisfies UnitOfWork without a real transaction; the fakes
// commit immediately anyway.
type passthroughUoW struct {
	begins, commits, rollbacks int
}

func (u *passthroughUoW) Begin(ctx context.Context) (context.Context, error) {
	u.begins++
	return ctx, nil
}

func (u *passthroughUoW) Commit(context.Context) error {
	u.commits++
	return nil
}

func (u *passthroughUoW) Rollback(context.Context) error {
	u.rollbacks++
	return nil
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errDatastore = errors.New("datastore down")

// harness wires a full scheduling stack over the in-memory fakes.
type harness struct {
	repo       *fakeBookingRepo
	prefs      *fakePreferenceRepo
	uow        *passthroughUoW
	publisher  *recordingPublisher
	scheduler  *ScheduleTaskHandler
	reschedule *RescheduleTaskHandler
}

func newHarness() *harness {
	repo := newFakeBookingRepo()
	prefs := newFakePreferenceRepo()
	uow := &passthroughUoW{}
	publisher := &recordingPublisher{}
	lock := locking.NewLocalUserLock()
	config := services.DefaultSchedulerConfig()

	finder := services.NewSlotFinder(repo, prefs, services.NewAvailabilityFinder(), services.NewSlotScorer(), config)
	conflicts := services.NewConflictDetector(repo)
	engine := services.NewDisplacementEngine(repo, conflicts, finder, publisher, config, nil)

	scheduler := NewScheduleTaskHandler(repo, prefs, finder, engine, uow, publisher, lock, config, nil)
	reschedule := NewRescheduleTaskHandler(repo, scheduler, uow, publisher, lock, nil)

	return &harness{
		repo:       repo,
		prefs:      prefs,
		uow:        uow,
		publisher:  publisher,
		scheduler:  scheduler,
		reschedule: reschedule,
	}
}

func (h *harness) addBooking(t *testing.T, ownerID uuid.UUID, title string, start time.Time, minutes, rank int) *domain.Booking {
	t.Helper()
	b, err := domain.NewBooking(ownerID, title, "", start, start.Add(time.Duration(minutes)*time.Minute), rank, domain.TagForRank(rank))
	require.NoError(t, err)
	b.ClearDomainEvents()
	require.NoError(t, h.repo.Create(context.Background(), b))
	return b
}
