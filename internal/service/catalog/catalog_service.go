// Package catalog manages the reference data flights are built from:
// airports, airplane types, airplanes, crews and routes.
package catalog

import (
	"context"
	"strings"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/sirupsen/logrus"
)

type CatalogUseCase interface {
	CreateAirport(ctx context.Context, airport domain.Airport) (*domain.Airport, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	UpdateAirport(ctx context.Context, airport domain.Airport) (*domain.Airport, error)
	DeleteAirport(ctx context.Context, id int64) error

	CreateAirplaneType(ctx context.Context, t domain.AirplaneType) (*domain.AirplaneType, error)
	ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error)
	GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error)
	UpdateAirplaneType(ctx context.Context, t domain.AirplaneType) (*domain.AirplaneType, error)
	DeleteAirplaneType(ctx context.Context, id int64) error
	CreateAirplane(ctx context.Context, airplane domain.Airplane) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error)
	DeleteAirplane(ctx context.Context, id int64) error

	CreateCrew(ctx context.Context, crew domain.Crew) (*domain.Crew, error)
	ListCrews(ctx context.Context) ([]domain.Crew, error)
	GetCrew(ctx context.Context, id int64) (*domain.Crew, error)
	UpdateCrew(ctx context.Context, crew domain.Crew) (*domain.Crew, error)
	DeleteCrew(ctx context.Context, id int64) error

	CreateRoute(ctx context.Context, sourceID, destinationID int64, distance int) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	UpdateRoute(ctx context.Context, id, sourceID, destinationID int64, distance int) (*domain.Route, error)
	DeleteRoute(ctx context.Context, id int64) error
}

// FlightsCache is the cached flight list. Airports, routes and airplanes are
// part of every list entry, so changing them invalidates it.
type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type CatalogService struct {
	airports  repository.AirportRepository
	airplanes repository.AirplaneRepository
	crews     repository.CrewRepository
	routes    repository.RouteRepository
	cache     FlightsCache
	log       logrus.FieldLogger
}

type CatalogServiceOption func(*CatalogService)

func WithFlightsCache(cache FlightsCache) CatalogServiceOption {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

func WithLogger(log logrus.FieldLogger) CatalogServiceOption {
	return func(s *CatalogService) {
		s.log = log
	}
}

func NewCatalogService(
	airports repository.AirportRepository,
	airplanes repository.AirplaneRepository,
	crews repository.CrewRepository,
	routes repository.RouteRepository,
	opts ...CatalogServiceOption,
) *CatalogService {
	service := &CatalogService{
		airports:  airports,
		airplanes: airplanes,
		crews:     crews,
		routes:    routes,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// changed drops the cached flight list after a write that reaches into it.
func (s *CatalogService) changed(ctx context.Context, err error) error {
	if err != nil || s.cache == nil {
		return err
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("failed to invalidate flights cache")
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &domain.FieldError{Field: field, Message: "this field may not be blank"}
	}
	return nil
}

func validateAirport(airport domain.Airport) error {
	if err := required("name", airport.Name); err != nil {
		return err
	}
	return required("closest_big_city", airport.ClosestBigCity)
}

func (s *CatalogService) CreateAirport(ctx context.Context, airport domain.Airport) (*domain.Airport, error) {
	if err := validateAirport(airport); err != nil {
		return nil, err
	}
	if err := s.airports.CreateAirport(ctx, &airport); err != nil {
		return nil, err
	}
	return &airport, nil
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.ListAirports(ctx)
}

func (s *CatalogService) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.airports.GetAirport(ctx, id)
}

func (s *CatalogService) UpdateAirport(ctx context.Context, airport domain.Airport) (*domain.Airport, error) {
	if err := validateAirport(airport); err != nil {
		return nil, err
	}
	if err := s.changed(ctx, s.airports.UpdateAirport(ctx, &airport)); err != nil {
		return nil, err
	}
	return &airport, nil
}

// DeleteAirport removes the airport with its routes, their flights and the
// tickets sold on them.
func (s *CatalogService) DeleteAirport(ctx context.Context, id int64) error {
	return s.changed(ctx, s.airports.DeleteAirport(ctx, id))
}

func (s *CatalogService) CreateAirplaneType(ctx context.Context, t domain.AirplaneType) (*domain.AirplaneType, error) {
	if err := required("name", t.Name); err != nil {
		return nil, err
	}
	if err := s.airplanes.CreateAirplaneType(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *CatalogService) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	return s.airplanes.ListAirplaneTypes(ctx)
}

func (s *CatalogService) GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	return s.airplanes.GetAirplaneType(ctx, id)
}

func (s *CatalogService) UpdateAirplaneType(ctx context.Context, t domain.AirplaneType) (*domain.AirplaneType, error) {
	if err := required("name", t.Name); err != nil {
		return nil, err
	}
	if err := s.airplanes.UpdateAirplaneType(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *CatalogService) DeleteAirplaneType(ctx context.Context, id int64) error {
	return s.changed(ctx, s.airplanes.DeleteAirplaneType(ctx, id))
}

// CreateAirplane rejects empty grids; every flight sells seats from it.
func (s *CatalogService) CreateAirplane(ctx context.Context, airplane domain.Airplane) (*domain.Airplane, error) {
	if err := required("name", airplane.Name); err != nil {
		return nil, err
	}
	if airplane.Rows < 1 {
		return nil, &domain.FieldError{Field: "rows", Message: "ensure this value is greater than or equal to 1"}
	}
	if airplane.SeatsInRow < 1 {
		return nil, &domain.FieldError{Field: "seats_in_row", Message: "ensure this value is greater than or equal to 1"}
	}
	if err := s.airplanes.CreateAirplane(ctx, &airplane); err != nil {
		return nil, err
	}
	return &airplane, nil
}

func (s *CatalogService) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	return s.airplanes.ListAirplanes(ctx)
}

func (s *CatalogService) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	return s.airplanes.GetAirplane(ctx, id)
}

func (s *CatalogService) DeleteAirplane(ctx context.Context, id int64) error {
	return s.changed(ctx, s.airplanes.DeleteAirplane(ctx, id))
}

func validateCrew(crew domain.Crew) error {
	if err := required("first_name", crew.FirstName); err != nil {
		return err
	}
	return required("last_name", crew.LastName)
}

func (s *CatalogService) CreateCrew(ctx context.Context, crew domain.Crew) (*domain.Crew, error) {
	if err := validateCrew(crew); err != nil {
		return nil, err
	}
	if err := s.crews.CreateCrew(ctx, &crew); err != nil {
		return nil, err
	}
	return &crew, nil
}

func (s *CatalogService) ListCrews(ctx context.Context) ([]domain.Crew, error) {
	return s.crews.ListCrews(ctx)
}

func (s *CatalogService) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	return s.crews.GetCrew(ctx, id)
}

func (s *CatalogService) UpdateCrew(ctx context.Context, crew domain.Crew) (*domain.Crew, error) {
	if err := validateCrew(crew); err != nil {
		return nil, err
	}
	if err := s.crews.UpdateCrew(ctx, &crew); err != nil {
		return nil, err
	}
	return &crew, nil
}

func (s *CatalogService) DeleteCrew(ctx context.Context, id int64) error {
	return s.crews.DeleteCrew(ctx, id)
}

func validateRoute(sourceID, destinationID int64, distance int) error {
	if sourceID == destinationID {
		return &domain.FieldError{Field: "destination", Message: "source and destination must differ"}
	}
	if distance <= 0 {
		return &domain.FieldError{Field: "distance", Message: "distance must be positive"}
	}
	return nil
}

func (s *CatalogService) CreateRoute(ctx context.Context, sourceID, destinationID int64, distance int) (*domain.Route, error) {
	if err := validateRoute(sourceID, destinationID, distance); err != nil {
		return nil, err
	}
	route := &domain.Route{
		Source:      domain.Airport{ID: sourceID},
		Destination: domain.Airport{ID: destinationID},
		Distance:    distance,
	}
	if err := s.routes.CreateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *CatalogService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.routes.ListRoutes(ctx)
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	return s.routes.GetRoute(ctx, id)
}

func (s *CatalogService) UpdateRoute(ctx context.Context, id, sourceID, destinationID int64, distance int) (*domain.Route, error) {
	if err := validateRoute(sourceID, destinationID, distance); err != nil {
		return nil, err
	}
	route := &domain.Route{
		ID:          id,
		Source:      domain.Airport{ID: sourceID},
		Destination: domain.Airport{ID: destinationID},
		Distance:    distance,
	}
	if err := s.changed(ctx, s.routes.UpdateRoute(ctx, route)); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *CatalogService) DeleteRoute(ctx context.Context, id int64) error {
	return s.changed(ctx, s.routes.DeleteRoute(ctx, id))
}

var _ CatalogUseCase = (*CatalogService)(nil)
