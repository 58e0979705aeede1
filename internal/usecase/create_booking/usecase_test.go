package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/lock"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory"
	"github.com/m04kA/SMC-CostumeRentalService/internal/testutil"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/txmanager"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/ptr"
)

var (
	now       = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	eventDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *testutil.Store
	locker    *lock.Local
	cache     *testutil.RecordingCache
	publisher *testutil.RecordingPublisher
	metrics   *testutil.RecordingMetrics
	clock     *testutil.FixedClock
	useCase   *UseCase
}

func newFixture(t *testing.T, policy domain.CapacityPolicy, location *time.Location) *fixture {
	t.Helper()

	clock := testutil.NewFixedClock(now)
	store := testutil.NewStore(clock.Now)
	store.AddCostume(1, "Пират", "S", "M", "L")
	store.SetStock(1, "M", 1)

	f := &fixture{
		store:     store,
		locker:    lock.NewLocal(time.Second),
		cache:     testutil.NewRecordingCache(),
		publisher: &testutil.RecordingPublisher{},
		metrics:   testutil.NewRecordingMetrics(),
		clock:     clock,
	}

	txManager := testutil.NewTxManager(store)
	ledger := inventory.NewService(
		testutil.NewCostumeRepo(store),
		testutil.NewStockRepo(store),
		testutil.NewBookingRepo(store),
		testutil.NewAdminLogRepo(store),
		txManager,
		f.cache,
		f.publisher,
		f.metrics,
		policy,
		logger.NewNop(),
	)

	f.useCase = NewUseCase(
		ledger,
		testutil.NewBookingRepo(store),
		f.locker,
		txManager,
		f.cache,
		f.publisher,
		f.metrics,
		location,
		logger.NewNop(),
	).WithTimeProvider(clock)

	return f
}

func validRequest() *Request {
	return &Request{
		UserTgID:    100,
		CostumeID:   1,
		Size:        "M",
		EventDate:   eventDate,
		ClientName:  "Мария",
		Phone:       "+79990000000",
		ChildName:   ptr.Ptr("Алиса"),
		ChildAge:    ptr.Ptr(6),
		ChildHeight: ptr.Ptr(120),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Positive(t, resp.ID)
	assert.Equal(t, string(domain.StatusNew), resp.Status)
	assert.Equal(t, eventDate, resp.EventDate)
	assert.Equal(t, eventDate.AddDate(0, 0, -1), resp.PickupDate)
	assert.Equal(t, eventDate, resp.ReturnDate)
	assert.Equal(t, "Мария", resp.ClientName)
	assert.Equal(t, 6, *resp.ChildAge)

	assert.Equal(t, 1, f.store.ActiveCount(domain.ReservationKey{CostumeID: 1, Size: "M", Date: eventDate}))
	assert.Equal(t, []string{"1:M"}, f.cache.Invalidated)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeBookingCreated, published[0].Type)
	assert.Equal(t, resp.ID, published[0].BookingID)
	assert.Equal(t, "2025-06-01", published[0].EventDate)

	assert.Equal(t, 1, f.metrics.Admission("ok"))
}

func TestUseCase_Execute_TrimsClientFields(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)
	req := validRequest()
	req.ClientName = "  Мария  "
	req.Phone = " +79990000000 "

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Мария", resp.ClientName)
	assert.Equal(t, "+79990000000", resp.Phone)
}

func TestUseCase_Execute_SecondBookingRejected(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)
	f.store.SetStock(1, "M", 5)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.UserTgID = 200
	_, err = f.useCase.Execute(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrNoCapacity)
	assert.ErrorIs(t, err, ErrNoCapacity)

	assert.Equal(t, 1, f.store.BookingsCount())
	assert.Len(t, f.publisher.Events(), 1)
	assert.Equal(t, 1, f.metrics.Admission("no_capacity"))

	// другая дата свободна
	other := validRequest()
	other.EventDate = eventDate.AddDate(0, 0, 1)
	_, err = f.useCase.Execute(context.Background(), other)
	assert.NoError(t, err)
}

func TestUseCase_Execute_StockPolicy(t *testing.T) {
	f := newFixture(t, domain.PolicyStock, time.UTC)
	f.store.SetStock(1, "M", 2)

	for i := 0; i < 2; i++ {
		_, err := f.useCase.Execute(context.Background(), validRequest())
		require.NoError(t, err)
	}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrNoCapacity)
}

func TestUseCase_Execute_ZeroStock(t *testing.T) {
	f := newFixture(t, domain.PolicyStock, time.UTC)

	req := validRequest()
	req.Size = "L"
	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNoCapacity)
}

func TestUseCase_Execute_CancelledBookingFreesCapacity(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)

	b := domain.NewBooking(300, 1, "M", eventDate, domain.ClientInfo{ClientName: "Иван", Phone: "1"})
	b.Status = domain.StatusCancelled
	f.store.PutBooking(*b)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestUseCase_Execute_Dates(t *testing.T) {
	t.Run("past date is rejected", func(t *testing.T) {
		f := newFixture(t, domain.PolicySingle, time.UTC)
		req := validRequest()
		req.EventDate = time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

		_, err := f.useCase.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrPastDate)
		assert.Zero(t, f.store.BookingsCount())
	})

	t.Run("today is allowed", func(t *testing.T) {
		f := newFixture(t, domain.PolicySingle, time.UTC)
		req := validRequest()
		req.EventDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.useCase.Execute(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("today is taken from booking timezone", func(t *testing.T) {
		msk := time.FixedZone("MSK", 3*60*60)
		f := newFixture(t, domain.PolicySingle, msk)
		// 22:30 UTC 31 мая это уже 1 июня по Москве
		f.clock.Set(time.Date(2025, 5, 31, 22, 30, 0, 0, time.UTC))

		req := validRequest()
		req.EventDate = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
		_, err := f.useCase.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrPastDate)

		req.EventDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		_, err = f.useCase.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{name: "unknown costume", modify: func(r *Request) { r.CostumeID = 42 }, wantErr: domain.ErrNotFound},
		{name: "unknown size", modify: func(r *Request) { r.Size = "XXL" }, wantErr: domain.ErrUnknownSize},
		{name: "missing user", modify: func(r *Request) { r.UserTgID = 0 }, wantErr: domain.ErrInvalidInput},
		{name: "missing size", modify: func(r *Request) { r.Size = "" }, wantErr: domain.ErrInvalidInput},
		{name: "missing date", modify: func(r *Request) { r.EventDate = time.Time{} }, wantErr: domain.ErrInvalidInput},
		{name: "blank name", modify: func(r *Request) { r.ClientName = "   " }, wantErr: domain.ErrInvalidInput},
		{name: "blank phone", modify: func(r *Request) { r.Phone = "" }, wantErr: domain.ErrInvalidInput},
		{name: "child age out of range", modify: func(r *Request) { r.ChildAge = ptr.Ptr(40) }, wantErr: domain.ErrInvalidInput},
		{name: "negative height", modify: func(r *Request) { r.ChildHeight = ptr.Ptr(-1) }, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, domain.PolicySingle, time.UTC)
			req := validRequest()
			tt.modify(req)

			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.store.BookingsCount())
			assert.Empty(t, f.publisher.Events())
		})
	}
}

func TestUseCase_Execute_StorageFailure(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)
	f.store.Fail(testutil.OpBookingCreate, errors.New("connection reset"))

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.True(t, domain.IsRetryable(err))
	assert.Zero(t, f.store.BookingsCount())
	assert.Empty(t, f.cache.Invalidated)
	assert.Empty(t, f.publisher.Events())
	assert.Equal(t, 1, f.metrics.Admission("unavailable"))
}

func TestUseCase_Execute_SideEffectFailuresAreIgnored(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)
	f.cache.Err = errors.New("redis down")
	f.publisher.Err = errors.New("kafka down")

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Positive(t, resp.ID)
}

func TestUseCase_Execute_LockTimeout(t *testing.T) {
	f := newFixture(t, domain.PolicySingle, time.UTC)
	f.locker = lock.NewLocal(20 * time.Millisecond)
	f.useCase.locker = f.locker

	key := domain.ReservationKey{CostumeID: 1, Size: "M", Date: eventDate}
	unlock, err := f.locker.Lock(context.Background(), key.String())
	require.NoError(t, err)
	defer unlock()

	_, err = f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.Zero(t, f.store.BookingsCount())
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// overlapping транзакции не упорядочены между собой, а запись брони отстаёт от проверки
// вместимости: без блокировки ключа все запросы видят пустую дату
func (f *fixture) overlapping(locker Locker) {
	f.useCase.txManager = testutil.NewConcurrentTxManager(f.store)
	f.useCase.locker = locker
	f.store.DelayWrites(30 * time.Millisecond)
}

func admitConcurrently(t *testing.T, f *fixture, requests int) (succeeded, noCapacity int) {
	t.Helper()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	start := make(chan struct{})
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			<-start

			req := validRequest()
			req.UserTgID = userID
			_, err := f.useCase.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrNoCapacity):
				noCapacity++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(1000 + i))
	}
	close(start)
	wg.Wait()
	return succeeded, noCapacity
}

func TestUseCase_Execute_ConcurrentRequestsRespectCapacity(t *testing.T) {
	const (
		stock    = 3
		requests = 20
	)

	f := newFixture(t, domain.PolicyStock, time.UTC)
	f.store.SetStock(1, "M", stock)
	f.overlapping(lock.NewLocal(5 * time.Second))

	succeeded, noCapacity := admitConcurrently(t, f, requests)

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, requests-stock, noCapacity)
	assert.Equal(t, stock, f.store.ActiveCount(domain.ReservationKey{CostumeID: 1, Size: "M", Date: eventDate}))
}

func TestUseCase_Execute_OverbooksWithoutKeyLock(t *testing.T) {
	const (
		stock    = 3
		requests = 20
	)

	f := newFixture(t, domain.PolicyStock, time.UTC)
	f.store.SetStock(1, "M", stock)
	f.overlapping(noopLocker{})

	succeeded, _ := admitConcurrently(t, f, requests)

	assert.Greater(t, succeeded, stock)
	assert.Greater(t, f.store.ActiveCount(domain.ReservationKey{CostumeID: 1, Size: "M", Date: eventDate}), stock)
}

func TestUseCase_Execute_TransactionFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		txManager TransactionManager
		stored    bool
	}{
		{name: "begin fails", txManager: testutil.NewUnreachableTxManager()},
		{name: "commit conflicts", txManager: testutil.NewConflictingTxManager(&testutil.ConflictingDB{}), stored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, domain.PolicySingle, time.UTC)
			f.useCase.txManager = tt.txManager

			_, err := f.useCase.Execute(context.Background(), validRequest())
			require.Error(t, err)

			assert.ErrorIs(t, err, ErrInternal)
			assert.ErrorIs(t, err, domain.ErrUnavailable)
			assert.ErrorIs(t, err, txmanager.ErrTransaction)
			assert.Equal(t, "unavailable", domain.KindOf(err))
			assert.True(t, domain.IsRetryable(err))
			assert.Equal(t, 1, f.metrics.Admission("unavailable"))
			assert.Zero(t, f.cache.InvalidationCount())
			assert.Empty(t, f.publisher.Events())
			if !tt.stored {
				assert.Zero(t, f.store.BookingsCount())
			}
		})
	}
}
