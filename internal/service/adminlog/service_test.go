package adminlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/testutil"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, limit uint64) ([]*domain.AdminLog, error) {
	args := m.Called(ctx, limit)
	if entries := args.Get(0); entries != nil {
		return entries.([]*domain.AdminLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_List_NewestFirst(t *testing.T) {
	clock := testutil.NewFixedClock(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	store := testutil.NewStore(clock.Now)
	repo := testutil.NewAdminLogRepo(store)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.AdminLog{ActorTgID: 900, Action: domain.ActionStockAdjust,
		Details: map[string]interface{}{"amount": 2}})
	require.NoError(t, err)
	clock.Set(clock.Now().Add(time.Minute))
	_, err = repo.Create(ctx, &domain.AdminLog{ActorTgID: 900, Action: domain.ActionBookingStatus})
	require.NoError(t, err)

	svc := NewService(repo, logger.NewNop())
	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.ActionBookingStatus, entries[0].Action)
	assert.NotNil(t, entries[0].Details)
	assert.Empty(t, entries[0].Details)
	assert.Equal(t, domain.ActionStockAdjust, entries[1].Action)
	assert.Equal(t, 2, entries[1].Details["amount"])
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
}

func TestService_List_Empty(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", mock.Anything, uint64(domain.DefaultAdminLogsLimit)).Return([]*domain.AdminLog{}, nil)

	entries, err := NewService(repo, logger.NewNop()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestService_List_RepositoryError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewService(repo, logger.NewNop()).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
