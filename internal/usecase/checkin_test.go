package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
	"asistencia-service/pkg/utils"
)

// manualClock is a settable time source
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func seedAttendee(t *testing.T, repo *memoryAttendeeRepository, nombre, email string) string {
	t.Helper()
	id := repo.NextID()
	require.NoError(t, repo.Create(context.Background(), &entity.Attendee{ID: id, Nombre: nombre, Email: email}))
	return id
}

func newCheckInFixture(t *testing.T) (*CheckInService, *memoryAttendeeRepository, *manualClock, *time.Location) {
	t.Helper()
	loc := bogota(t)
	mc := &manualClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, loc)}
	repo := newMemoryAttendeeRepository()
	svc := NewCheckInService(repo, utils.NewReportingClockAt(loc, mc.Now), metrics.NewNopMetrics(), logger.NewNop())
	return svc, repo, mc, loc
}

func TestCheckIn_FirstEntryThenDuplicate(t *testing.T) {
	svc, repo, mc, loc := newCheckInFixture(t)
	ctx := context.Background()
	id := seedAttendee(t, repo, "Ana", "a@x.com")

	result, err := svc.CheckIn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", result.Nombre)
	assert.Equal(t, "2025-03-01", result.Fecha)
	assert.Equal(t, int64(1), result.Total)

	mc.Set(time.Date(2025, 3, 1, 9, 5, 0, 0, loc))
	_, err = svc.CheckIn(ctx, id)

	var fault *entity.Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, entity.KindDuplicate, fault.Kind)
	assert.Equal(t, "Ana", fault.Nombre)
	assert.Equal(t, "09:00", fault.OriginalTimeOfDay)
	assert.True(t, fault.OriginalTime.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, loc)))

	// idempotent: a third scan reports the same original time
	mc.Set(time.Date(2025, 3, 1, 18, 30, 0, 0, loc))
	_, err = svc.CheckIn(ctx, id)
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "09:00", fault.OriginalTimeOfDay)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Asistencias, 1)
}

func TestCheckIn_NewCalendarDayIsFreshEntry(t *testing.T) {
	svc, repo, mc, loc := newCheckInFixture(t)
	ctx := context.Background()
	ana := seedAttendee(t, repo, "Ana", "a@x.com")
	luis := seedAttendee(t, repo, "Luis", "l@x.com")

	mc.Set(time.Date(2025, 3, 1, 23, 59, 0, 0, loc))
	_, err := svc.CheckIn(ctx, ana)
	require.NoError(t, err)
	result, err := svc.CheckIn(ctx, luis)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	mc.Set(time.Date(2025, 3, 2, 0, 1, 0, 0, loc))
	result, err = svc.CheckIn(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", result.Fecha)
	assert.Equal(t, int64(1), result.Total, "population resets on the new day")

	stored, err := repo.FindByID(ctx, ana)
	require.NoError(t, err)
	assert.Len(t, stored.Asistencias, 2)
}

func TestCheckIn_DateFollowsReportingTimezoneNotUTC(t *testing.T) {
	svc, repo, mc, _ := newCheckInFixture(t)
	id := seedAttendee(t, repo, "Ana", "a@x.com")

	// 2025-03-02 02:00 UTC is 2025-03-01 21:00 in Bogota
	mc.Set(time.Date(2025, 3, 2, 2, 0, 0, 0, time.UTC))
	result, err := svc.CheckIn(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", result.Fecha)
}

func TestCheckIn_UnknownAttendeeIsNotFound(t *testing.T) {
	svc, _, _, _ := newCheckInFixture(t)

	_, err := svc.CheckIn(context.Background(), "ffffffffffffffffffffffff")
	assert.Equal(t, entity.KindNotFound, entity.FaultKind(err))
}

func TestCheckIn_ConcurrentScansAdmitOnce(t *testing.T) {
	svc, repo, _, _ := newCheckInFixture(t)
	ctx := context.Background()
	id := seedAttendee(t, repo, "Ana", "a@x.com")

	const scans = 50
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		admitted   int
		duplicates int
	)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch entity.FaultKind(err) {
			case "":
				admitted++
			case entity.KindDuplicate:
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
	assert.Equal(t, scans-1, duplicates)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Asistencias, 1)
}

func TestCheckIn_TotalMatchesCountToday(t *testing.T) {
	svc, repo, _, _ := newCheckInFixture(t)
	ctx := context.Background()

	var last int64
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		result, err := svc.CheckIn(ctx, seedAttendee(t, repo, "N", email))
		require.NoError(t, err)
		last = result.Total
	}

	count, err := svc.CountToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, last, count)
	assert.Equal(t, int64(3), count)
}

func TestCountToday_PropagatesStoreError(t *testing.T) {
	svc, repo, _, _ := newCheckInFixture(t)
	repo.countErr = errors.New("connection reset")

	_, err := svc.CountToday(context.Background())
	assert.Error(t, err)
}
