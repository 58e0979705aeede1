// Package testutil хранилище в памяти и заглушки побочных эффектов для тестов сервисов и use case
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	adminLogRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/adminlog"
	bookingRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/booking"
	costumeRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/costume"
	stockRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/stock"
)

// Операции, в которые можно внедрить ошибку через Store.Fail
const (
	OpBookingCreate = "booking.create"
	OpBookingCount  = "booking.count"
	OpBookingUpdate = "booking.update"
	OpBookingGet    = "booking.get"
	OpStockGet      = "stock.get"
	OpStockSet      = "stock.set"
	OpAdminLog      = "adminlog.create"
	OpCostumeGet    = "costume.get"
)

// Store данные всех репозиториев в памяти
// Транзакции выполняются строго по очереди и откатываются к снимку при ошибке
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	costumes map[int64]domain.Costume
	stock    map[domain.StockKey]int
	bookings map[int64]domain.Booking
	logs     []domain.AdminLog

	nextBookingID int64
	nextLogID     int64

	failures   map[string]error
	writeDelay time.Duration
	clock      func() time.Time
}

// NewStore создает пустое хранилище с часами clock
func NewStore(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		costumes: make(map[int64]domain.Costume),
		stock:    make(map[domain.StockKey]int),
		bookings: make(map[int64]domain.Booking),
		failures: make(map[string]error),
		clock:    clock,
	}
}

// AddCostume добавляет костюм в каталог
func (s *Store) AddCostume(id int64, title string, sizes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costumes[id] = domain.Costume{ID: id, Title: title, Sizes: append([]string(nil), sizes...)}
}

// SetStock задаёт остаток размера напрямую, мимо журнала
func (s *Store) SetStock(costumeID int64, size string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[domain.StockKey{CostumeID: costumeID, Size: size}] = count
}

// StockOf текущий остаток размера
func (s *Store) StockOf(costumeID int64, size string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[domain.StockKey{CostumeID: costumeID, Size: size}]
}

// PutBooking кладёт бронирование как есть и возвращает его ID
func (s *Store) PutBooking(b domain.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBookingID++
	b.ID = s.nextBookingID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.clock()
		b.UpdatedAt = b.CreatedAt
	}
	s.bookings[b.ID] = b
	return b.ID
}

// Booking бронирование по ID без учёта внедрённых ошибок
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	return b, ok
}

// ActiveCount число активных броней на ключ
func (s *Store) ActiveCount(key domain.ReservationKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActive(key)
}

// BookingsCount общее число броней
func (s *Store) BookingsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// AdminLogs копия журнала в порядке записи
func (s *Store) AdminLogs() []domain.AdminLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AdminLog(nil), s.logs...)
}

// Fail заставляет операцию op возвращать err, nil снимает ошибку
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// DelayWrites задерживает вставку брони на d: между проверкой вместимости и записью
// успевают пройти конкурирующие запросы
func (s *Store) DelayWrites(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeDelay = d
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) countActive(key domain.ReservationKey) int {
	date := domain.TruncateDate(key.Date)
	count := 0
	for _, b := range s.bookings {
		if b.CostumeID == key.CostumeID && b.Size == key.Size && b.EventDate.Equal(date) && b.IsActive() {
			count++
		}
	}
	return count
}

type snapshot struct {
	costumes      map[int64]domain.Costume
	stock         map[domain.StockKey]int
	bookings      map[int64]domain.Booking
	logs          []domain.AdminLog
	nextBookingID int64
	nextLogID     int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		costumes:      make(map[int64]domain.Costume, len(s.costumes)),
		stock:         make(map[domain.StockKey]int, len(s.stock)),
		bookings:      make(map[int64]domain.Booking, len(s.bookings)),
		logs:          append([]domain.AdminLog(nil), s.logs...),
		nextBookingID: s.nextBookingID,
		nextLogID:     s.nextLogID,
	}
	for k, v := range s.costumes {
		snap.costumes[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costumes = snap.costumes
	s.stock = snap.stock
	s.bookings = snap.bookings
	s.logs = snap.logs
	s.nextBookingID = snap.nextBookingID
	s.nextLogID = snap.nextLogID
}

// TxManager менеджер транзакций поверх Store
type TxManager struct {
	store *Store
}

type txMarker struct{}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// DoSerializable выполняет fn эксклюзивно; вложенный вызов переиспользует внешнюю транзакцию
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// CostumeRepo каталог костюмов в памяти
type CostumeRepo struct {
	store *Store
}

func NewCostumeRepo(store *Store) *CostumeRepo {
	return &CostumeRepo{store: store}
}

func (r *CostumeRepo) GetByID(ctx context.Context, id int64) (*domain.Costume, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.failure(OpCostumeGet); err != nil {
		return nil, fmt.Errorf("%w: %w", costumeRepo.ErrExecQuery, err)
	}

	c, ok := r.store.costumes[id]
	if !ok {
		return nil, costumeRepo.ErrCostumeNotFound
	}
	c.Sizes = append([]string(nil), c.Sizes...)
	return &c, nil
}

func (r *CostumeRepo) List(ctx context.Context) ([]*domain.Costume, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Costume, 0, len(r.store.costumes))
	for _, c := range r.store.costumes {
		c := c
		c.Sizes = append([]string(nil), c.Sizes...)
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title == result[j].Title {
			return result[i].ID < result[j].ID
		}
		return result[i].Title < result[j].Title
	})
	return result, nil
}

// StockRepo остатки в памяти
type StockRepo struct {
	store *Store
}

func NewStockRepo(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) Get(ctx context.Context, key domain.StockKey) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.failure(OpStockGet); err != nil {
		return 0, fmt.Errorf("%w: %w", stockRepo.ErrExecQuery, err)
	}
	return r.store.stock[key], nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, key domain.StockKey) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.failure(OpStockGet); err != nil {
		return 0, fmt.Errorf("%w: %w", stockRepo.ErrExecQuery, err)
	}
	count, ok := r.store.stock[key]
	if !ok {
		r.store.stock[key] = 0
	}
	return count, nil
}

func (r *StockRepo) Set(ctx context.Context, key domain.StockKey, count int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.failure(OpStockSet); err != nil {
		return fmt.Errorf("%w: %w", stockRepo.ErrExecQuery, err)
	}
	if count < 0 {
		return stockRepo.ErrNegativeCount
	}
	r.store.stock[key] = count
	return nil
}

func (r *StockRepo) ListAll(ctx context.Context) ([]domain.StockEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.StockEntry, 0, len(r.store.stock))
	for k, v := range r.store.stock {
		result = append(result, domain.StockEntry{CostumeID: k.CostumeID, Size: k.Size, Count: v})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CostumeID == result[j].CostumeID {
			return result[i].Size < result[j].Size
		}
		return result[i].CostumeID < result[j].CostumeID
	})
	return result, nil
}

// BookingRepo бронирования в памяти
type BookingRepo struct {
	store *Store
}

func NewBookingRepo(store *Store) *BookingRepo {
	return &BookingRepo{store: store}
}

func (r *BookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.store.mu.RLock()
	delay := r.store.writeDelay
	r.store.mu.RUnlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.failure(OpBookingCreate); err != nil {
		return nil, fmt.Errorf("%w: %w", bookingRepo.ErrExecQuery, err)
	}

	r.store.nextBookingID++
	created := *booking
	created.ID = r.store.nextBookingID
	created.CreatedAt = r.store.clock()
	created.UpdatedAt = created.CreatedAt
	r.store.bookings[created.ID] = created

	return &created, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.failure(OpBookingGet); err != nil {
		return nil, fmt.Errorf("%w: %w", bookingRepo.ErrExecQuery, err)
	}

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userTgID int64) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if b.UserTgID == userTgID {
			b := b
			result = append(result, &b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EventDate.Equal(result[j].EventDate) {
			return result[i].ID > result[j].ID
		}
		return result[i].EventDate.After(result[j].EventDate)
	})
	return result, nil
}

func (r *BookingRepo) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if filter.CostumeID != nil && b.CostumeID != *filter.CostumeID {
			continue
		}
		if filter.Size != nil && b.Size != *filter.Size {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.From != nil && b.EventDate.Before(domain.TruncateDate(*filter.From)) {
			continue
		}
		if filter.To != nil && b.EventDate.After(domain.TruncateDate(*filter.To)) {
			continue
		}
		b := b
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	limit := filter.Limit
	if limit == 0 {
		limit = domain.DefaultBookingsLimit
	}
	if uint64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *BookingRepo) CountActive(ctx context.Context, key domain.ReservationKey) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.failure(OpBookingCount); err != nil {
		return 0, fmt.Errorf("%w: %w", bookingRepo.ErrExecQuery, err)
	}
	return r.store.countActive(key), nil
}

func (r *BookingRepo) ActiveDateCounts(ctx context.Context, costumeID int64, size string) ([]domain.DateReservations, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.failure(OpBookingCount); err != nil {
		return nil, fmt.Errorf("%w: %w", bookingRepo.ErrExecQuery, err)
	}

	counts := make(map[time.Time]int)
	for _, b := range r.store.bookings {
		if b.CostumeID == costumeID && b.Size == size && b.IsActive() {
			counts[b.EventDate]++
		}
	}

	result := make([]domain.DateReservations, 0, len(counts))
	for date, count := range counts {
		result = append(result, domain.DateReservations{Date: date, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.failure(OpBookingUpdate); err != nil {
		return fmt.Errorf("%w: %w", bookingRepo.ErrExecQuery, err)
	}

	current, ok := r.store.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	current.Status = booking.Status
	current.CancelledAt = booking.CancelledAt
	current.CompletedAt = booking.CompletedAt
	current.UpdatedAt = r.store.clock()
	r.store.bookings[booking.ID] = current
	return nil
}

// AdminLogRepo журнал администратора в памяти
type AdminLogRepo struct {
	store *Store
}

func NewAdminLogRepo(store *Store) *AdminLogRepo {
	return &AdminLogRepo{store: store}
}

func (r *AdminLogRepo) Create(ctx context.Context, entry *domain.AdminLog) (*domain.AdminLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.failure(OpAdminLog); err != nil {
		return nil, fmt.Errorf("%w: %w", adminLogRepo.ErrExecQuery, err)
	}

	r.store.nextLogID++
	created := *entry
	created.ID = r.store.nextLogID
	created.CreatedAt = r.store.clock()
	r.store.logs = append(r.store.logs, created)
	return &created, nil
}

func (r *AdminLogRepo) List(ctx context.Context, limit uint64) ([]*domain.AdminLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit == 0 {
		limit = domain.DefaultAdminLogsLimit
	}

	result := make([]*domain.AdminLog, 0, len(r.store.logs))
	for i := len(r.store.logs) - 1; i >= 0 && uint64(len(result)) < limit; i-- {
		entry := r.store.logs[i]
		result = append(result, &entry)
	}
	return result, nil
}
