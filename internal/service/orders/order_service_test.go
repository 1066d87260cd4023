package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/kafka"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Commit(ctx context.Context, order *domain.Order, check repository.CommitCheck) error {
	args := m.Called(ctx, order, check)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatLock(ctx context.Context, flightID int64, seat domain.Seat, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, flightID, seat, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) ReleaseSeatLock(ctx context.Context, flightID int64, seat domain.Seat, token string) error {
	args := m.Called(ctx, flightID, seat, token)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

const flightID = int64(4)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMemoryService() (*OrderService, *memoryOrderRepository) {
	repo := newMemoryOrderRepository(map[int64]domain.Airplane{
		flightID: {ID: 1, Name: "Boeing", Rows: 20, SeatsInRow: 20},
	})
	return NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger())), repo
}

func TestOrderService_CreateOrder_RoundTrip(t *testing.T) {
	service, repo := newMemoryService()

	order, err := service.CreateOrder(context.Background(), 1, []domain.TicketRequest{
		{FlightID: flightID, Row: 1, Seat: 1},
		{FlightID: flightID, Row: 1, Seat: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCommitted, order.Status)
	assert.Len(t, order.Tickets, 2)
	for _, ticket := range order.Tickets {
		assert.Equal(t, order.ID, ticket.OrderID)
	}
	assert.Equal(t, 398, seating.RemainingSeats(repo.seating(flightID)))
}

func TestOrderService_CreateOrder_Empty(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger()))

	order, err := service.CreateOrder(context.Background(), 1, nil)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	repo.AssertNotCalled(t, "Commit")
}

func TestOrderService_CreateOrder_RowBoundaries(t *testing.T) {
	for _, row := range []int{0, 21} {
		service, repo := newMemoryService()

		order, err := service.CreateOrder(context.Background(), 1, []domain.TicketRequest{
			{FlightID: flightID, Row: row, Seat: 1},
		})

		assert.Nil(t, order)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		var verr *domain.OrderValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, verr.Index)
		assert.Equal(t, []string{"row must be in range [1, 20]"}, verr.Fields()["row"])

		orders, tickets := repo.counts()
		assert.Zero(t, orders)
		assert.Zero(t, tickets)
	}
}

func TestOrderService_CreateOrder_Atomic(t *testing.T) {
	service, repo := newMemoryService()

	order, err := service.CreateOrder(context.Background(), 1, []domain.TicketRequest{
		{FlightID: flightID, Row: 1, Seat: 1},
		{FlightID: flightID, Row: 99, Seat: 99},
	})

	assert.Nil(t, order)
	var verr *domain.OrderValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)

	orders, tickets := repo.counts()
	assert.Zero(t, orders)
	assert.Zero(t, tickets)
	assert.Equal(t, 400, seating.RemainingSeats(repo.seating(flightID)))
}

func TestOrderService_CreateOrder_ConcurrentSameSeat(t *testing.T) {
	service, repo := newMemoryService()
	request := []domain.TicketRequest{{FlightID: flightID, Row: 5, Seat: 5}}

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CreateOrder(context.Background(), int64(i+1), request)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrSeatTaken) || errors.Is(err, domain.ErrTransactionConflict), err.Error())
	}
	assert.Equal(t, 1, succeeded)

	_, tickets := repo.counts()
	assert.Equal(t, 1, tickets)
}

func TestOrderService_CreateOrder_SeatTakenEarlier(t *testing.T) {
	service, _ := newMemoryService()
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 3, Seat: 3}})
	require.NoError(t, err)

	_, err = service.CreateOrder(ctx, 2, []domain.TicketRequest{
		{FlightID: flightID, Row: 3, Seat: 4},
		{FlightID: flightID, Row: 3, Seat: 3},
	})

	var verr *domain.OrderValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, map[string][]string{"seat": {"seat already taken"}}, verr.Fields())
}

func TestOrderService_CreateOrder_UnknownFlight(t *testing.T) {
	service, _ := newMemoryService()

	_, err := service.CreateOrder(context.Background(), 1, []domain.TicketRequest{{FlightID: 404, Row: 1, Seat: 1}})

	var verr *domain.OrderValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"flight 404 does not exist"}, verr.Fields()["flight"])
}

func TestOrderService_CreateOrder_StorageSeatConflict(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger()))
	ctx := context.Background()

	conflict := &domain.SeatConflictError{FlightID: flightID, Seat: domain.Seat{Row: 2, Seat: 7}}
	repo.On("Commit", ctx, mock.AnythingOfType("*domain.Order"), mock.Anything).Return(conflict).Once()

	order, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{
		{FlightID: flightID, Row: 2, Seat: 6},
		{FlightID: flightID, Row: 2, Seat: 7},
	})

	assert.Nil(t, order)
	var verr *domain.OrderValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.ErrorIs(t, err, domain.ErrSeatTaken)
	repo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_UnlocatedSeatConflict(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger()))
	ctx := context.Background()

	unlocated := fmt.Errorf("%w: %s", domain.ErrSeatTaken, "")
	repo.On("Commit", ctx, mock.Anything, mock.Anything).Return(unlocated).Once()

	order, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	var verr *domain.OrderValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestOrderService_CreateOrder_SerializationFailure(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger()))
	ctx := context.Background()

	repo.On("Commit", ctx, mock.Anything, mock.Anything).Return(domain.ErrTransactionConflict).Once()

	_, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}})

	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
}

func TestOrderService_CreateOrder_Timeout(t *testing.T) {
	service, repo := newMemoryService()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}})

	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, tickets := repo.counts()
	assert.Zero(t, tickets)
}

func TestOrderService_CreateOrder_LocksPublishesAndInvalidates(t *testing.T) {
	repo := newMemoryOrderRepository(map[int64]domain.Airplane{flightID: {Rows: 10, SeatsInRow: 6}})
	cache := &MockCache{}
	producer := &MockProducer{}
	service := NewOrderService(repo, cache, producer, "orders", time.Minute,
		WithNotificationsTopic("notifications"), WithLogger(quietLogger()))
	ctx := context.Background()

	seat := domain.Seat{Row: 1, Seat: 1}
	cache.On("AcquireSeatLock", ctx, flightID, seat, time.Minute).Return("tok", true, nil).Once()
	cache.On("ReleaseSeatLock", mock.Anything, flightID, seat, "tok").Return(nil).Once()
	cache.On("InvalidateFlights", ctx).Return(nil).Once()
	producer.On("Publish", ctx, "orders", "1", mock.AnythingOfType("kafka.OrderEvent")).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "1", mock.AnythingOfType("kafka.OrderEvent")).Return(nil).Once()

	order, err := service.CreateOrder(ctx, 9, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}})

	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)

	event := producer.Calls[0].Arguments.Get(3).(kafka.OrderEvent)
	assert.Equal(t, EventOrderCreated, event.Type)
	assert.Equal(t, int64(9), event.UserID)
	assert.NotEmpty(t, event.EventID)
}

func TestOrderService_CreateOrder_SeatLockHeld(t *testing.T) {
	repo := newMemoryOrderRepository(map[int64]domain.Airplane{flightID: {Rows: 10, SeatsInRow: 6}})
	cache := &MockCache{}
	service := NewOrderService(repo, cache, nil, "", time.Minute, WithLogger(quietLogger()))
	ctx := context.Background()

	first := domain.Seat{Row: 1, Seat: 1}
	second := domain.Seat{Row: 1, Seat: 2}
	cache.On("AcquireSeatLock", ctx, flightID, first, time.Minute).Return("tok-1", true, nil).Once()
	cache.On("AcquireSeatLock", ctx, flightID, second, time.Minute).Return("", false, nil).Once()
	cache.On("ReleaseSeatLock", mock.Anything, flightID, first, "tok-1").Return(nil).Once()

	order, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{
		{FlightID: flightID, Row: 1, Seat: 1},
		{FlightID: flightID, Row: 1, Seat: 2},
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	_, tickets := repo.counts()
	assert.Zero(t, tickets)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestOrderService_CreateOrder_CacheDown(t *testing.T) {
	repo := newMemoryOrderRepository(map[int64]domain.Airplane{flightID: {Rows: 10, SeatsInRow: 6}})
	cache := &MockCache{}
	producer := &MockProducer{}
	service := NewOrderService(repo, cache, producer, "orders", time.Minute, WithLogger(quietLogger()))
	ctx := context.Background()

	cache.On("AcquireSeatLock", ctx, flightID, domain.Seat{Row: 2, Seat: 2}, time.Minute).Return("", false, errors.New("redis down")).Once()
	cache.On("InvalidateFlights", ctx).Return(errors.New("redis down")).Once()
	producer.On("Publish", ctx, "orders", "1", mock.Anything).Return(errors.New("kafka down")).Once()

	order, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 2, Seat: 2}})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCommitted, order.Status)
	_, tickets := repo.counts()
	assert.Equal(t, 1, tickets)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestOrderService_ListOrders(t *testing.T) {
	service, _ := newMemoryService()
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}})
	require.NoError(t, err)
	_, err = service.CreateOrder(ctx, 2, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 2}})
	require.NoError(t, err)
	_, err = service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 3}})
	require.NoError(t, err)

	orders, err := service.ListOrders(ctx, 1)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 3, orders[0].Tickets[0].Seat)
	assert.Equal(t, 1, orders[1].Tickets[0].Seat)
}

func TestOrderService_GetOrder(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil, nil, "", time.Second, WithLogger(quietLogger()))
	ctx := context.Background()

	stored := &domain.Order{ID: 5, UserID: 1, Status: domain.OrderStatusCommitted}
	repo.On("GetByID", ctx, int64(5)).Return(stored, nil).Twice()
	repo.On("GetByID", ctx, int64(6)).Return(nil, domain.ErrNotFound).Once()

	order, err := service.GetOrder(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, stored, order)

	_, err = service.GetOrder(ctx, 2, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.GetOrder(ctx, 1, 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	repo.AssertExpectations(t)
}

func TestOrderService_DeleteOrder_FreesSeats(t *testing.T) {
	repo := newMemoryOrderRepository(map[int64]domain.Airplane{flightID: {Rows: 20, SeatsInRow: 20}})
	cache := &MockCache{}
	service := NewOrderService(repo, cache, nil, "", time.Minute, WithLogger(quietLogger()))
	ctx := context.Background()

	cache.On("AcquireSeatLock", ctx, flightID, mock.Anything, time.Minute).Return("tok", true, nil)
	cache.On("ReleaseSeatLock", mock.Anything, flightID, mock.Anything, "tok").Return(nil)
	cache.On("InvalidateFlights", ctx).Return(nil)

	order, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{
		{FlightID: flightID, Row: 5, Seat: 5},
		{FlightID: flightID, Row: 5, Seat: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 398, seating.RemainingSeats(repo.seating(flightID)))

	assert.ErrorIs(t, service.DeleteOrder(ctx, 2, order.ID), domain.ErrNotFound)
	require.NoError(t, service.DeleteOrder(ctx, 1, order.ID))

	assert.Equal(t, 400, seating.RemainingSeats(repo.seating(flightID)))
	orders, tickets := repo.counts()
	assert.Zero(t, orders)
	assert.Zero(t, tickets)
	cache.AssertNumberOfCalls(t, "InvalidateFlights", 2)

	_, err = service.CreateOrder(ctx, 2, []domain.TicketRequest{{FlightID: flightID, Row: 5, Seat: 5}})
	assert.NoError(t, err)
}

func TestOrderService_ListTickets(t *testing.T) {
	service, _ := newMemoryService()
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 1, Seat: 1}, {FlightID: flightID, Row: 1, Seat: 2}})
	require.NoError(t, err)
	_, err = service.CreateOrder(ctx, 2, []domain.TicketRequest{{FlightID: flightID, Row: 2, Seat: 1}})
	require.NoError(t, err)
	_, err = service.CreateOrder(ctx, 1, []domain.TicketRequest{{FlightID: flightID, Row: 3, Seat: 1}})
	require.NoError(t, err)

	tickets, err := service.ListTickets(ctx, 1)

	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, 3, tickets[0].Row)
	assert.Equal(t, domain.Seat{Row: 1, Seat: 1}, domain.Seat{Row: tickets[1].Row, Seat: tickets[1].Seat})
	assert.Equal(t, domain.Seat{Row: 1, Seat: 2}, domain.Seat{Row: tickets[2].Row, Seat: tickets[2].Seat})
}
