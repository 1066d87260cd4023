package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/kafka"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const EventOrderCreated = "order_created"

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID int64, tickets []domain.TicketRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	// DeleteOrder cancels an order of userID and frees its seats.
	DeleteOrder(ctx context.Context, userID, orderID int64) error
	ListTickets(ctx context.Context, userID int64) ([]domain.Ticket, error)
}

type Cache interface {
	// AcquireSeatLock returns the lock token when the lock was taken.
	AcquireSeatLock(ctx context.Context, flightID int64, seat domain.Seat, ttl time.Duration) (string, bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, seat domain.Seat, token string) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type OrderService struct {
	orders             repository.OrderRepository
	cache              Cache
	producer           Producer
	ordersTopic        string
	notificationsTopic string
	lockTTL            time.Duration
	log                logrus.FieldLogger
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log logrus.FieldLogger) OrderServiceOption {
	return func(s *OrderService) {
		s.log = log
	}
}

// NewOrderService wires the order commit path. cache and producer may be nil:
// without a cache no seat locks are taken, without a producer no events are sent.
func NewOrderService(
	orders repository.OrderRepository,
	cache Cache,
	producer Producer,
	ordersTopic string,
	lockTTL time.Duration,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:      orders,
		cache:       cache,
		producer:    producer,
		ordersTopic: ordersTopic,
		lockTTL:     lockTTL,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type seatLock struct {
	flightID int64
	seat     domain.Seat
	token    string
}

// CreateOrder validates every ticket against the seating read inside the
// commit transaction and persists the order with all its tickets, or nothing.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, requests []domain.TicketRequest) (*domain.Order, error) {
	if len(requests) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	order := &domain.Order{
		UserID:  userID,
		Status:  domain.OrderStatusPending,
		Tickets: make([]domain.Ticket, len(requests)),
	}
	for i, r := range requests {
		order.Tickets[i] = domain.Ticket{FlightID: r.FlightID, Row: r.Row, Seat: r.Seat}
	}

	var held []seatLock
	defer func() {
		s.releaseSeats(context.WithoutCancel(ctx), held)
	}()

	err := s.orders.Commit(ctx, order, func(current map[int64]domain.FlightSeating) error {
		if err := seating.ValidateOrder(requests, current); err != nil {
			return err
		}
		var lockErr error
		held, lockErr = s.lockSeats(ctx, requests)
		return lockErr
	})
	if err != nil {
		order.Status = domain.OrderStatusAborted
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"tickets": len(requests),
		}).WithError(err).Info("order aborted")
		return nil, translateCommitError(err, requests)
	}
	order.Status = domain.OrderStatusCommitted

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"tickets":  len(order.Tickets),
	}).Info("order committed")

	s.invalidateFlights(ctx)
	if err := s.publish(ctx, order); err != nil {
		s.log.WithField("order_id", order.ID).WithError(err).Warn("failed to publish order event")
	}
	return order, nil
}

// lockSeats takes a short-lived lock per requested seat. A seat locked by a
// concurrent order aborts this one; an unreachable cache only disables locking.
func (s *OrderService) lockSeats(ctx context.Context, requests []domain.TicketRequest) ([]seatLock, error) {
	if s.cache == nil {
		return nil, nil
	}
	held := make([]seatLock, 0, len(requests))
	for _, r := range requests {
		token, ok, err := s.cache.AcquireSeatLock(ctx, r.FlightID, r.Position(), s.lockTTL)
		if err != nil {
			s.log.WithError(err).Warn("seat lock unavailable, relying on database constraints")
			return held, nil
		}
		if !ok {
			return held, fmt.Errorf("flight %d row %d seat %d is being ordered: %w",
				r.FlightID, r.Row, r.Seat, domain.ErrTransactionConflict)
		}
		held = append(held, seatLock{flightID: r.FlightID, seat: r.Position(), token: token})
	}
	return held, nil
}

func (s *OrderService) releaseSeats(ctx context.Context, held []seatLock) {
	for _, l := range held {
		if err := s.cache.ReleaseSeatLock(ctx, l.flightID, l.seat, l.token); err != nil {
			s.log.WithFields(logrus.Fields{
				"flight_id": l.flightID,
				"row":       l.seat.Row,
				"seat":      l.seat.Seat,
			}).WithError(err).Warn("failed to release seat lock")
		}
	}
}

func (s *OrderService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("failed to invalidate flights cache")
	}
}

// translateCommitError reports a seat collision caught by the database the
// same way as one caught by validation. A collision that cannot be tied to a
// request is a retryable conflict.
func translateCommitError(err error, requests []domain.TicketRequest) error {
	var conflict *domain.SeatConflictError
	if errors.As(err, &conflict) {
		for i, r := range requests {
			if r.FlightID == conflict.FlightID && r.Position() == conflict.Seat {
				return &domain.OrderValidationError{
					Index: i,
					Violations: []domain.Violation{{
						Field:   seating.FieldSeat,
						Message: domain.ErrSeatTaken.Error(),
						Kind:    domain.ErrSeatTaken,
					}},
				}
			}
		}
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	var verr *domain.OrderValidationError
	if errors.Is(err, domain.ErrSeatTaken) && !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	return err
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder hides orders of other users behind ErrNotFound.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	if err := s.orders.Delete(ctx, userID, orderID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"user_id":  userID,
	}).Info("order deleted")
	s.invalidateFlights(ctx)
	return nil
}

// ListTickets returns the caller's tickets, newest order first.
func (s *OrderService) ListTickets(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(list))
	for _, o := range list {
		tickets = append(tickets, o.Tickets...)
	}
	return tickets, nil
}

func (s *OrderService) publish(ctx context.Context, order *domain.Order) error {
	if s.producer == nil || s.ordersTopic == "" {
		return nil
	}
	event := kafka.NewOrderEvent(uuid.NewString(), EventOrderCreated, order)
	key := strconv.FormatInt(order.ID, 10)
	if err := s.producer.Publish(ctx, s.ordersTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ OrderUseCase = (*OrderService)(nil)
