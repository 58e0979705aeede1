package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CostumeRentalService/internal/testutil"
	"github.com/m04kA/SMC-CostumeRentalService/internal/usecase/change_booking_status"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/ptr"
)

const (
	ownerID = int64(100)
	otherID = int64(200)
	adminID = int64(900)
)

var now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store   *testutil.Store
	clock   *testutil.FixedClock
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := testutil.NewFixedClock(now)
	store := testutil.NewStore(clock.Now)
	repo := testutil.NewBookingRepo(store)

	changer := change_booking_status.NewUseCase(
		repo,
		testutil.NewAdminLogRepo(store),
		testutil.NewTxManager(store),
		testutil.NewRecordingCache(),
		&testutil.RecordingPublisher{},
		testutil.NewRecordingMetrics(),
		logger.NewNop(),
	).WithTimeProvider(clock)

	return &fixture{
		store:   store,
		clock:   clock,
		service: NewService(repo, changer, logger.NewNop()),
	}
}

func (f *fixture) book(userID, costumeID int64, size string, date time.Time, status domain.BookingStatus) int64 {
	b := domain.NewBooking(userID, costumeID, size, date, domain.ClientInfo{ClientName: "Мария", Phone: "1"})
	b.Status = status
	b.CreatedAt = f.clock.Now()
	b.UpdatedAt = b.CreatedAt
	f.clock.Set(f.clock.Now().Add(time.Minute))
	return f.store.PutBooking(*b)
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	id := f.book(ownerID, 1, "M", day(1), domain.StatusNew)
	ctx := context.Background()

	booking, err := f.service.GetByID(ctx, id, ownerID, false)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", booking.EventDate)
	assert.Equal(t, "2025-05-31", booking.PickupDate)
	assert.Equal(t, "2025-06-01", booking.ReturnDate)

	_, err = f.service.GetByID(ctx, id, otherID, false)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.service.GetByID(ctx, id, adminID, true)
	assert.NoError(t, err)

	_, err = f.service.GetByID(ctx, 404, ownerID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.store.Fail(testutil.OpBookingGet, errors.New("timeout"))
	_, err = f.service.GetByID(ctx, id, ownerID, false)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestService_GetUserBookings(t *testing.T) {
	f := newFixture(t)
	early := f.book(ownerID, 1, "M", day(1), domain.StatusNew)
	late := f.book(ownerID, 2, "S", day(9), domain.StatusCancelled)
	f.book(otherID, 1, "M", day(2), domain.StatusNew)

	list, err := f.service.GetUserBookings(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, late, list[0].ID)
	assert.Equal(t, early, list[1].ID)

	empty, err := f.service.GetUserBookings(context.Background(), 777)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestService_GetBookings(t *testing.T) {
	f := newFixture(t)
	first := f.book(ownerID, 1, "M", day(1), domain.StatusNew)
	second := f.book(otherID, 1, "S", day(5), domain.StatusConfirmed)
	third := f.book(otherID, 2, "M", day(10), domain.StatusCancelled)
	ctx := context.Background()

	all, err := f.service.GetBookings(ctx, &models.GetBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// новые первыми
	assert.Equal(t, []int64{third, second, first}, []int64{all[0].ID, all[1].ID, all[2].ID})

	byStatus, err := f.service.GetBookings(ctx, &models.GetBookingsRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second, byStatus[0].ID)

	byCostume, err := f.service.GetBookings(ctx, &models.GetBookingsRequest{CostumeID: ptr.Ptr(int64(1)), Size: ptr.Ptr("M")})
	require.NoError(t, err)
	require.Len(t, byCostume, 1)
	assert.Equal(t, first, byCostume[0].ID)

	from, to := day(2), day(10)
	byRange, err := f.service.GetBookings(ctx, &models.GetBookingsRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	_, err = f.service.GetBookings(ctx, &models.GetBookingsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.service.GetBookings(ctx, &models.GetBookingsRequest{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t)
	id := f.book(ownerID, 1, "M", day(1), domain.StatusNew)
	ctx := context.Background()

	_, err := f.service.Cancel(ctx, id, otherID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	booking, err := f.service.Cancel(ctx, id, ownerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), booking.Status)
	require.NotNil(t, booking.CancelledAt)

	// повторная отмена не ошибка
	again, err := f.service.Cancel(ctx, id, ownerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), again.Status)

	completed := f.book(ownerID, 1, "M", day(2), domain.StatusCompleted)
	_, err = f.service.Cancel(ctx, completed, ownerID)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

func TestService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	id := f.book(ownerID, 1, "M", day(1), domain.StatusNew)

	booking, err := f.service.UpdateStatus(context.Background(), id, adminID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", booking.Status)

	logs := f.store.AdminLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, adminID, logs[0].ActorTgID)
}

type mockStatusChanger struct {
	mock.Mock
}

func (m *mockStatusChanger) Execute(ctx context.Context, req *change_booking_status.Request) (*change_booking_status.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*change_booking_status.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_CancelPassesOwnerRestriction(t *testing.T) {
	store := testutil.NewStore(nil)
	changer := new(mockStatusChanger)
	service := NewService(testutil.NewBookingRepo(store), changer, logger.NewNop())

	changer.On("Execute", mock.Anything, mock.MatchedBy(func(req *change_booking_status.Request) bool {
		return req.BookingID == 7 && req.ActorTgID == ownerID && req.OwnerOnly && !req.IsAdmin &&
			req.Status == string(domain.StatusCancelled)
	})).Return(nil, change_booking_status.ErrBookingNotFound)

	_, err := service.Cancel(context.Background(), 7, ownerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	changer.AssertExpectations(t)
}

func TestService_StatusChangesAnswerWithWrittenBooking(t *testing.T) {
	store := testutil.NewStore(nil)
	// в хранилище бронь уже ушла дальше, ответ должен описывать записанный переход
	b := domain.NewBooking(ownerID, 1, "M", day(1), domain.ClientInfo{ClientName: "Мария", Phone: "+79990000000"})
	b.Status = domain.StatusCompleted
	id := store.PutBooking(*b)

	cancelledAt := now
	written := &change_booking_status.Response{
		ID:          id,
		UserTgID:    ownerID,
		CostumeID:   1,
		Size:        "M",
		EventDate:   day(1),
		PickupDate:  day(1).AddDate(0, 0, -1),
		ReturnDate:  day(1),
		Status:      string(domain.StatusCancelled),
		PrevStatus:  string(domain.StatusNew),
		Changed:     true,
		ClientName:  "Мария",
		Phone:       "+79990000000",
		CancelledAt: &cancelledAt,
		UpdatedAt:   now,
	}

	changer := new(mockStatusChanger)
	changer.On("Execute", mock.Anything, mock.Anything).Return(written, nil)
	service := NewService(testutil.NewBookingRepo(store), changer, logger.NewNop())

	store.Fail(testutil.OpBookingGet, errors.New("no reads expected"))

	cancelled, err := service.Cancel(context.Background(), id, ownerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.Equal(t, "2025-05-31", cancelled.PickupDate)
	assert.Equal(t, "Мария", cancelled.ClientName)
	assert.Equal(t, &cancelledAt, cancelled.CancelledAt)

	updated, err := service.UpdateStatus(context.Background(), id, adminID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), updated.Status)
}
