package flights

import (
	"context"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	RefreshCache(ctx context.Context) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   logrus.FieldLogger
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, log logrus.FieldLogger) *FlightService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FlightService{repo: repo, cache: cache, log: log}
}

// List serves the flight list from cache when possible. Cache failures fall
// through to the database.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.log.WithError(err).Warn("flights cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.WithError(err).Warn("flights cache write failed")
		}
	}
	return flights, nil
}

// GetByID returns the flight with its capacity view: remaining seats and the
// sold seats ordered by row and seat.
func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := seating.NewSnapshot(detail.ID, detail.Airplane, detail.TakenPlaces)
	detail.TicketsAvailable = seating.RemainingSeats(snapshot)
	detail.TakenPlaces = seating.TakenPlaces(snapshot)
	return detail, nil
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, &domain.FieldError{Field: "arrival_time", Message: "arrival time must be after departure time"}
	}

	flight := &domain.Flight{
		RouteID:       input.RouteID,
		AirplaneID:    input.AirplaneID,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
	}
	if err := s.repo.Create(ctx, flight, input.CrewIDs); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

// Delete removes the flight; its tickets go with it.
func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("flight_id", id).Info("flight deleted")
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("failed to invalidate flights cache")
	}
}

// RefreshCache reloads the flight list into the cache.
func (s *FlightService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	flights, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	return s.cache.SetFlights(ctx, flights)
}

var _ FlightUseCase = (*FlightService)(nil)
