package repository

import (
	"context"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

type AirportRepository interface {
	CreateAirport(ctx context.Context, airport *domain.Airport) error
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	UpdateAirport(ctx context.Context, airport *domain.Airport) error
	// DeleteAirport also removes the routes, flights and tickets that depend on it.
	DeleteAirport(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	db DB
}

func NewAirportRepository(db DB) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (name, closest_big_city) VALUES ($1, $2) RETURNING id`,
		airport.Name, airport.ClosestBigCity).Scan(&airport.ID)
	return mapError(err)
}

func (r *PGAirportRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, closest_big_city FROM airports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRow(ctx, `SELECT id, name, closest_big_city FROM airports WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.ClosestBigCity)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAirportRepository) UpdateAirport(ctx context.Context, airport *domain.Airport) error {
	return execOne(ctx, r.db, `UPDATE airports SET name=$2, closest_big_city=$3 WHERE id=$1`,
		airport.ID, airport.Name, airport.ClosestBigCity)
}

func (r *PGAirportRepository) DeleteAirport(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM airports WHERE id=$1`, id)
}

var _ AirportRepository = (*PGAirportRepository)(nil)
