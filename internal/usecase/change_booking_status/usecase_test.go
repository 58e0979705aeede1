package change_booking_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
	"github.com/m04kA/SMC-CostumeRentalService/internal/testutil"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/txmanager"
)

const (
	ownerID = int64(100)
	adminID = int64(900)
)

var (
	now       = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	eventDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *testutil.Store
	cache     *testutil.RecordingCache
	publisher *testutil.RecordingPublisher
	metrics   *testutil.RecordingMetrics
	useCase   *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := testutil.NewFixedClock(now)
	store := testutil.NewStore(clock.Now)

	f := &fixture{
		store:     store,
		cache:     testutil.NewRecordingCache(),
		publisher: &testutil.RecordingPublisher{},
		metrics:   testutil.NewRecordingMetrics(),
	}
	f.useCase = NewUseCase(
		testutil.NewBookingRepo(store),
		testutil.NewAdminLogRepo(store),
		testutil.NewTxManager(store),
		f.cache,
		f.publisher,
		f.metrics,
		logger.NewNop(),
	).WithTimeProvider(clock)

	return f
}

func (f *fixture) booking(status domain.BookingStatus) int64 {
	b := domain.NewBooking(ownerID, 1, "M", eventDate, domain.ClientInfo{ClientName: "Мария", Phone: "1"})
	b.Status = status
	return f.store.PutBooking(*b)
}

func TestUseCase_Execute_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from          domain.BookingStatus
		to            domain.BookingStatus
		invalidatesAt bool
	}{
		{from: domain.StatusNew, to: domain.StatusConfirmed},
		{from: domain.StatusNew, to: domain.StatusCancelled, invalidatesAt: true},
		{from: domain.StatusConfirmed, to: domain.StatusCancelled, invalidatesAt: true},
		{from: domain.StatusConfirmed, to: domain.StatusCompleted, invalidatesAt: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			f := newFixture(t)
			id := f.booking(tt.from)

			resp, err := f.useCase.Execute(context.Background(), &Request{
				BookingID: id, Status: string(tt.to), ActorTgID: adminID, IsAdmin: true,
			})
			require.NoError(t, err)
			assert.True(t, resp.Changed)
			assert.Equal(t, string(tt.from), resp.PrevStatus)
			assert.Equal(t, string(tt.to), resp.Status)

			stored, ok := f.store.Booking(id)
			require.True(t, ok)
			assert.Equal(t, tt.to, stored.Status)

			if tt.invalidatesAt {
				assert.Equal(t, []string{"1:M"}, f.cache.Invalidated)
			} else {
				assert.Empty(t, f.cache.Invalidated)
			}

			published := f.publisher.Events()
			require.Len(t, published, 1)
			assert.Equal(t, events.TypeBookingStatusChanged, published[0].Type)
			assert.Equal(t, string(tt.from), published[0].PrevStatus)

			logs := f.store.AdminLogs()
			require.Len(t, logs, 1)
			assert.Equal(t, domain.ActionBookingStatus, logs[0].Action)
			assert.Equal(t, adminID, logs[0].ActorTgID)

			assert.Equal(t, 1, f.metrics.Transitions[string(tt.from)+"->"+string(tt.to)])
		})
	}
}

func TestUseCase_Execute_Timestamps(t *testing.T) {
	f := newFixture(t)

	cancelledID := f.booking(domain.StatusNew)
	resp, err := f.useCase.Execute(context.Background(), &Request{
		BookingID: cancelledID, Status: string(domain.StatusCancelled), ActorTgID: ownerID, OwnerOnly: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, now, *resp.CancelledAt)
	assert.Nil(t, resp.CompletedAt)

	completedID := f.booking(domain.StatusConfirmed)
	resp, err = f.useCase.Execute(context.Background(), &Request{
		BookingID: completedID, Status: string(domain.StatusCompleted), ActorTgID: adminID, IsAdmin: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, now, *resp.CompletedAt)
}

func TestUseCase_Execute_SameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	id := f.booking(domain.StatusConfirmed)

	resp, err := f.useCase.Execute(context.Background(), &Request{
		BookingID: id, Status: string(domain.StatusConfirmed), ActorTgID: adminID, IsAdmin: true,
	})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Empty(t, f.publisher.Events())
	assert.Empty(t, f.store.AdminLogs())
	assert.Empty(t, f.cache.Invalidated)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		target  string
		wantErr error
	}{
		{name: "terminal cancelled", from: domain.StatusCancelled, target: "confirmed", wantErr: domain.ErrAlreadyTerminal},
		{name: "terminal completed", from: domain.StatusCompleted, target: "cancelled", wantErr: domain.ErrAlreadyTerminal},
		{name: "new cannot complete", from: domain.StatusNew, target: "completed", wantErr: domain.ErrInvalidTransition},
		{name: "confirmed cannot go back", from: domain.StatusConfirmed, target: "new", wantErr: domain.ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusNew, target: "archived", wantErr: domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.booking(tt.from)

			_, err := f.useCase.Execute(context.Background(), &Request{
				BookingID: id, Status: tt.target, ActorTgID: adminID, IsAdmin: true,
			})
			assert.ErrorIs(t, err, tt.wantErr)

			stored, _ := f.store.Booking(id)
			assert.Equal(t, tt.from, stored.Status)
			assert.Empty(t, f.store.AdminLogs())
			assert.Empty(t, f.publisher.Events())
		})
	}
}

func TestUseCase_Execute_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	id := f.booking(domain.StatusNew)

	_, err := f.useCase.Execute(context.Background(), &Request{
		BookingID: id, Status: string(domain.StatusCancelled), ActorTgID: 555, OwnerOnly: true,
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	stored, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusNew, stored.Status)

	// клиентская отмена не пишет журнал администратора
	_, err = f.useCase.Execute(context.Background(), &Request{
		BookingID: id, Status: string(domain.StatusCancelled), ActorTgID: ownerID, OwnerOnly: true,
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.AdminLogs())
}

func TestUseCase_Execute_NotFoundAndValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.useCase.Execute(context.Background(), &Request{
		BookingID: 404, Status: "cancelled", ActorTgID: adminID, IsAdmin: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.useCase.Execute(context.Background(), &Request{
		BookingID: 0, Status: "cancelled", ActorTgID: adminID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.useCase.Execute(context.Background(), &Request{
		BookingID: 1, Status: "cancelled", ActorTgID: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUseCase_Execute_AdminLogFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	id := f.booking(domain.StatusNew)
	f.store.Fail(testutil.OpAdminLog, errors.New("disk full"))

	_, err := f.useCase.Execute(context.Background(), &Request{
		BookingID: id, Status: "cancelled", ActorTgID: adminID, IsAdmin: true,
	})
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	stored, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.Empty(t, f.publisher.Events())
}

func TestUseCase_Execute_TransactionFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		txManager TransactionManager
	}{
		{name: "begin fails", txManager: testutil.NewUnreachableTxManager()},
		{name: "commit conflicts", txManager: testutil.NewConflictingTxManager(&testutil.ConflictingDB{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.booking(domain.StatusNew)
			f.useCase.txManager = tt.txManager

			_, err := f.useCase.Execute(context.Background(), &Request{
				BookingID: id,
				Status:    string(domain.StatusConfirmed),
				ActorTgID: adminID,
				IsAdmin:   true,
			})
			require.Error(t, err)

			assert.ErrorIs(t, err, ErrInternal)
			assert.ErrorIs(t, err, domain.ErrUnavailable)
			assert.ErrorIs(t, err, txmanager.ErrTransaction)
			assert.Equal(t, "unavailable", domain.KindOf(err))
			assert.Empty(t, f.metrics.Transitions)
			assert.Zero(t, f.cache.InvalidationCount())
		})
	}
}
