package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
	costumeRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/costume"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory/models"
)

// Service учёт остатков костюмов и занятости размеров по датам
// Занятость не хранится отдельно: она выводится из активных броней
type Service struct {
	costumeRepo  CostumeRepository
	stockRepo    StockRepository
	bookingRepo  BookingRepository
	adminLogRepo AdminLogRepository
	txManager    TransactionManager
	cache        BookedDatesCache
	publisher    EventPublisher
	metrics      Metrics
	policy       domain.CapacityPolicy
	logger       Logger
}

// NewService создает новый экземпляр сервиса учёта остатков
func NewService(
	costumeRepo CostumeRepository,
	stockRepo StockRepository,
	bookingRepo BookingRepository,
	adminLogRepo AdminLogRepository,
	txManager TransactionManager,
	cache BookedDatesCache,
	publisher EventPublisher,
	metrics Metrics,
	policy domain.CapacityPolicy,
	logger Logger,
) *Service {
	return &Service{
		costumeRepo:  costumeRepo,
		stockRepo:    stockRepo,
		bookingRepo:  bookingRepo,
		adminLogRepo: adminLogRepo,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		policy:       policy,
		logger:       logger,
	}
}

// Policy текущая политика вместимости
func (s *Service) Policy() domain.CapacityPolicy {
	return s.policy
}

// Costume получает костюм из каталога
func (s *Service) Costume(ctx context.Context, costumeID int64) (*domain.Costume, error) {
	costume, err := s.costumeRepo.GetByID(ctx, costumeID)
	if err != nil {
		if errors.Is(err, costumeRepo.ErrCostumeNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrCostumeNotFound, costumeID)
		}
		return nil, fmt.Errorf("%w: Costume - repository error: %w", ErrInternal, err)
	}
	return costume, nil
}

// CostumeWithSize получает костюм и проверяет, что размер есть в размерном ряду
func (s *Service) CostumeWithSize(ctx context.Context, costumeID int64, size string) (*domain.Costume, error) {
	costume, err := s.Costume(ctx, costumeID)
	if err != nil {
		return nil, err
	}
	if !costume.HasSize(size) {
		return nil, fmt.Errorf("%w: costume=%d size=%s", ErrUnknownSize, costumeID, size)
	}
	return costume, nil
}

// Capacity настроенный остаток размера (0, если строки нет)
func (s *Service) Capacity(ctx context.Context, costumeID int64, size string) (int, error) {
	count, err := s.stockRepo.Get(ctx, domain.StockKey{CostumeID: costumeID, Size: size})
	if err != nil {
		return 0, fmt.Errorf("%w: Capacity - repository error: %w", ErrInternal, err)
	}
	return count, nil
}

// ReservedCount число активных броней на (костюм, размер, дата)
func (s *Service) ReservedCount(ctx context.Context, key domain.ReservationKey) (int, error) {
	count, err := s.bookingRepo.CountActive(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: ReservedCount - repository error: %w", ErrInternal, err)
	}
	return count, nil
}

// Occupancy остаток, число броней и лимит по политике для ключа
// Внутри транзакции чтение попадает в её снимок
func (s *Service) Occupancy(ctx context.Context, key domain.ReservationKey) (domain.Occupancy, error) {
	stock, err := s.Capacity(ctx, key.CostumeID, key.Size)
	if err != nil {
		return domain.Occupancy{}, err
	}

	reserved, err := s.ReservedCount(ctx, key)
	if err != nil {
		return domain.Occupancy{}, err
	}

	return domain.NewOccupancy(s.policy, stock, reserved), nil
}

// HasCapacity можно ли принять ещё одну бронь на ключ
func (s *Service) HasCapacity(ctx context.Context, key domain.ReservationKey) (bool, error) {
	occupancy, err := s.Occupancy(ctx, key)
	if err != nil {
		return false, err
	}
	return occupancy.HasCapacity(), nil
}

// ReservedDates активные брони размера по датам, по возрастанию даты
func (s *Service) ReservedDates(ctx context.Context, costumeID int64, size string) ([]domain.DateReservations, error) {
	counts, err := s.bookingRepo.ActiveDateCounts(ctx, costumeID, size)
	if err != nil {
		return nil, fmt.Errorf("%w: ReservedDates - repository error: %w", ErrInternal, err)
	}
	return counts, nil
}

// Adjust изменяет остаток размера на delta и возвращает новый остаток
// Строка остатка блокируется на время транзакции, запись в журнал идёт в той же транзакции
func (s *Service) Adjust(ctx context.Context, req *models.AdjustStockRequest) (*models.AdjustStockResponse, error) {
	s.logger.Info("Adjust: costume=%d, size=%s, amount=%d by actor=%d",
		req.CostumeID, req.Size, req.Amount, req.ActorTgID)

	result, err := s.adjust(ctx, req)
	s.metrics.ObserveStockAdjustment(domain.KindOf(err))
	return result, err
}

func (s *Service) adjust(ctx context.Context, req *models.AdjustStockRequest) (*models.AdjustStockResponse, error) {
	if err := validateAdjustRequest(req); err != nil {
		s.logger.Warn("Adjust: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.CostumeWithSize(ctx, req.CostumeID, req.Size); err != nil {
		s.logger.Warn("Adjust: costume=%d, size=%s rejected: %v", req.CostumeID, req.Size, err)
		return nil, err
	}

	key := domain.StockKey{CostumeID: req.CostumeID, Size: req.Size}
	var previous, current int

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		count, err := s.stockRepo.GetForUpdate(txCtx, key)
		if err != nil {
			return fmt.Errorf("%w: Adjust - lock stock: %w", ErrInternal, err)
		}

		next := count + req.Amount
		if next < 0 || next > domain.MaxStockCount {
			return fmt.Errorf("%w: %s has %d, amount %d", ErrOutOfRange, key, count, req.Amount)
		}

		if err := s.stockRepo.Set(txCtx, key, next); err != nil {
			return fmt.Errorf("%w: Adjust - write stock: %w", ErrInternal, err)
		}

		_, err = s.adminLogRepo.Create(txCtx, &domain.AdminLog{
			ActorTgID: req.ActorTgID,
			Action:    domain.ActionStockAdjust,
			Details: map[string]interface{}{
				"costume_id": req.CostumeID,
				"size":       req.Size,
				"amount":     req.Amount,
				"old_count":  count,
				"new_count":  next,
			},
		})
		if err != nil {
			return fmt.Errorf("%w: Adjust - write admin log: %w", ErrInternal, err)
		}

		previous, current = count, next
		return nil
	})
	if !domain.IsClassified(err) {
		err = fmt.Errorf("%w: Adjust - transaction: %w", ErrInternal, err)
	}
	if err != nil {
		if errors.Is(err, domain.ErrOutOfRange) {
			s.logger.Warn("Adjust: %v", err)
		} else {
			s.logger.Error("Adjust: transaction failed for %s: %v", key, err)
		}
		return nil, err
	}

	s.logger.Info("Adjust: %s changed %d -> %d", key, previous, current)

	s.invalidate(ctx, req.CostumeID, req.Size)
	s.publish(ctx, events.Event{
		Type:       events.TypeStockAdjusted,
		CostumeID:  req.CostumeID,
		Size:       req.Size,
		Stock:      &current,
		ActorTgID:  req.ActorTgID,
		OccurredAt: time.Now().UTC(),
	})

	return &models.AdjustStockResponse{
		CostumeID: req.CostumeID,
		Size:      req.Size,
		Count:     current,
	}, nil
}

// ListStock остатки всех костюмов по всем размерам, отсутствующие строки считаются нулём
func (s *Service) ListStock(ctx context.Context) ([]models.CostumeStockResponse, error) {
	costumes, err := s.costumeRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListStock: failed to list costumes: %v", err)
		return nil, fmt.Errorf("%w: ListStock - costumes: %w", ErrInternal, err)
	}

	entries, err := s.stockRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("ListStock: failed to list stock: %v", err)
		return nil, fmt.Errorf("%w: ListStock - stock: %w", ErrInternal, err)
	}

	byCostume := make(map[int64]map[string]int, len(costumes))
	for _, entry := range entries {
		if byCostume[entry.CostumeID] == nil {
			byCostume[entry.CostumeID] = make(map[string]int)
		}
		byCostume[entry.CostumeID][entry.Size] = entry.Count
	}

	result := make([]models.CostumeStockResponse, 0, len(costumes))
	for _, costume := range costumes {
		stock := domain.CostumeStock{Costume: *costume, StockBySize: byCostume[costume.ID]}
		if stock.StockBySize == nil {
			stock.StockBySize = map[string]int{}
		}
		result = append(result, models.FromDomainCostumeStock(stock))
	}

	return result, nil
}

// invalidate сбрасывает кеш календаря размера; ошибка кеша только логируется
func (s *Service) invalidate(ctx context.Context, costumeID int64, size string) {
	if err := s.cache.InvalidateBookedDates(ctx, costumeID, size); err != nil {
		s.logger.Warn("Invalidate: costume=%d, size=%s: %v", costumeID, size, err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Publish: type=%s, key=%s: %v", event.Type, event.Key(), err)
	}
}

func validateAdjustRequest(req *models.AdjustStockRequest) error {
	if req.CostumeID <= 0 {
		return fmt.Errorf("%w: costumeId must be positive", ErrInvalidInput)
	}
	if req.Size == "" {
		return fmt.Errorf("%w: size is required", ErrInvalidInput)
	}
	if req.Amount == 0 {
		return fmt.Errorf("%w: amount must not be zero", ErrInvalidInput)
	}
	return nil
}
