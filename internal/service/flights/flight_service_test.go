package flights

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightDetail), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight, crewIDs []int64) error {
	args := m.Called(ctx, flight, crewIDs)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleFlights() []domain.Flight {
	departure := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return []domain.Flight{
		{
			ID:               4,
			RouteID:          1,
			AirplaneID:       2,
			DepartureTime:    departure,
			ArrivalTime:      departure.Add(2 * time.Hour),
			Airplane:         domain.Airplane{ID: 2, Rows: 20, SeatsInRow: 6},
			TicketsAvailable: 119,
		},
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx).Return(flights, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything)
}

func TestFlightService_List_CacheError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(errors.New("cache error")).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, quietLogger())
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(([]domain.Flight)(nil), errors.New("database error")).Once()

	result, err := service.List(ctx)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestFlightService_GetByID_CapacityView(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, quietLogger())
	ctx := context.Background()

	detail := &domain.FlightDetail{
		Flight: domain.Flight{ID: 4, Airplane: domain.Airplane{Rows: 20, SeatsInRow: 20}},
		TakenPlaces: []domain.Seat{
			{Row: 2, Seat: 1},
			{Row: 1, Seat: 2},
			{Row: 1, Seat: 1},
		},
	}
	mockRepo.On("GetDetail", ctx, int64(4)).Return(detail, nil).Once()

	result, err := service.GetByID(ctx, 4)

	require.NoError(t, err)
	assert.Equal(t, 397, result.TicketsAvailable)
	assert.Equal(t, []domain.Seat{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}, {Row: 2, Seat: 1}}, result.TakenPlaces)
}

func TestFlightService_GetByID_ClampsAtZero(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, quietLogger())
	ctx := context.Background()

	detail := &domain.FlightDetail{
		Flight:      domain.Flight{ID: 4, Airplane: domain.Airplane{Rows: 1, SeatsInRow: 1}},
		TakenPlaces: []domain.Seat{{Row: 1, Seat: 1}, {Row: 5, Seat: 5}},
	}
	mockRepo.On("GetDetail", ctx, int64(4)).Return(detail, nil).Once()

	result, err := service.GetByID(ctx, 4)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TicketsAvailable)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, quietLogger())
	ctx := context.Background()

	mockRepo.On("GetDetail", ctx, int64(999)).Return(nil, domain.ErrNotFound).Once()

	result, err := service.GetByID(ctx, 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, result)
}

func TestFlightService_Create(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()

	departure := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	input := CreateFlightInput{
		RouteID:       1,
		AirplaneID:    2,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(time.Hour),
		CrewIDs:       []int64{3, 4},
	}
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Flight"), []int64{3, 4}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Flight).ID = 11
		}).
		Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(11), flight.ID)
	assert.Equal(t, departure, flight.DepartureTime)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Create_ArrivalBeforeDeparture(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil, quietLogger())
	departure := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for _, arrival := range []time.Time{departure, departure.Add(-time.Minute)} {
		_, err := service.Create(context.Background(), CreateFlightInput{DepartureTime: departure, ArrivalTime: arrival})

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "arrival_time", fieldErr.Field)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_RefreshCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()
	flights := sampleFlights()

	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	assert.NoError(t, service.RefreshCache(ctx))
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Delete(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache, quietLogger())
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(3)).Return(nil).Once()
	mockRepo.On("Delete", ctx, int64(4)).Return(domain.ErrNotFound).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	require.NoError(t, service.Delete(ctx, 3))
	assert.ErrorIs(t, service.Delete(ctx, 4), domain.ErrNotFound)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}
