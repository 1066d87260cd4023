package repository

import (
	"context"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

type RouteRepository interface {
	CreateRoute(ctx context.Context, route *domain.Route) error
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	UpdateRoute(ctx context.Context, route *domain.Route) error
	DeleteRoute(ctx context.Context, id int64) error
}

type PGRouteRepository struct {
	db DB
}

func NewRouteRepository(db DB) RouteRepository {
	return &PGRouteRepository{db: db}
}

const selectRoute = `SELECT r.id, r.distance,
	s.id, s.name, s.closest_big_city,
	d.id, d.name, d.closest_big_city
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id`

func scanRoute(row pgx.Row, r *domain.Route) error {
	return row.Scan(&r.ID, &r.Distance,
		&r.Source.ID, &r.Source.Name, &r.Source.ClosestBigCity,
		&r.Destination.ID, &r.Destination.Name, &r.Destination.ClosestBigCity)
}

func (r *PGRouteRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	err := r.db.QueryRow(ctx, `INSERT INTO routes (source_id, destination_id, distance) VALUES ($1, $2, $3) RETURNING id`,
		route.Source.ID, route.Destination.ID, route.Distance).Scan(&route.ID)
	if err != nil {
		return mapError(err)
	}
	created, err := r.GetRoute(ctx, route.ID)
	if err != nil {
		return err
	}
	*route = *created
	return nil
}

func (r *PGRouteRepository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Query(ctx, selectRoute+` ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		var route domain.Route
		if err := scanRoute(rows, &route); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *PGRouteRepository) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	var route domain.Route
	if err := scanRoute(r.db.QueryRow(ctx, selectRoute+` WHERE r.id=$1`, id), &route); err != nil {
		return nil, mapError(err)
	}
	return &route, nil
}

// UpdateRoute stores the new endpoints and distance and reloads the airports.
func (r *PGRouteRepository) UpdateRoute(ctx context.Context, route *domain.Route) error {
	if err := execOne(ctx, r.db, `UPDATE routes SET source_id=$2, destination_id=$3, distance=$4 WHERE id=$1`,
		route.ID, route.Source.ID, route.Destination.ID, route.Distance); err != nil {
		return err
	}
	updated, err := r.GetRoute(ctx, route.ID)
	if err != nil {
		return err
	}
	*route = *updated
	return nil
}

func (r *PGRouteRepository) DeleteRoute(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM routes WHERE id=$1`, id)
}

var _ RouteRepository = (*PGRouteRepository)(nil)
