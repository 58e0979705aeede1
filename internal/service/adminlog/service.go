package adminlog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/adminlog/models"
)

// Service чтение журнала действий администратора
type Service struct {
	repo   AdminLogRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса журнала
func NewService(repo AdminLogRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List последние записи журнала, новые первыми
func (s *Service) List(ctx context.Context) ([]models.AdminLogResponse, error) {
	entries, err := s.repo.List(ctx, domain.DefaultAdminLogsLimit)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d admin log entries", len(entries))
	return models.FromDomainAdminLogs(entries), nil
}
