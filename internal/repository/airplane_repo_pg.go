package repository

import (
	"context"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

type AirplaneRepository interface {
	CreateAirplaneType(ctx context.Context, t *domain.AirplaneType) error
	ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error)
	GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error)
	UpdateAirplaneType(ctx context.Context, t *domain.AirplaneType) error
	DeleteAirplaneType(ctx context.Context, id int64) error
	CreateAirplane(ctx context.Context, airplane *domain.Airplane) error
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error)
	// DeleteAirplane removes the airplane with its flights and their tickets.
	DeleteAirplane(ctx context.Context, id int64) error
}

type PGAirplaneRepository struct {
	db DB
}

func NewAirplaneRepository(db DB) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

func (r *PGAirplaneRepository) CreateAirplaneType(ctx context.Context, t *domain.AirplaneType) error {
	return mapError(r.db.QueryRow(ctx, `INSERT INTO airplane_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID))
}

func (r *PGAirplaneRepository) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM airplane_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.AirplaneType, 0)
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PGAirplaneRepository) GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	var t domain.AirplaneType
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM airplane_types WHERE id=$1`, id).Scan(&t.ID, &t.Name); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *PGAirplaneRepository) UpdateAirplaneType(ctx context.Context, t *domain.AirplaneType) error {
	return execOne(ctx, r.db, `UPDATE airplane_types SET name=$2 WHERE id=$1`, t.ID, t.Name)
}

func (r *PGAirplaneRepository) DeleteAirplaneType(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM airplane_types WHERE id=$1`, id)
}

func (r *PGAirplaneRepository) CreateAirplane(ctx context.Context, a *domain.Airplane) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID).
		Scan(&a.ID, &a.CreatedAt)
	return mapError(err)
}

func (r *PGAirplaneRepository) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, rows, seats_in_row, airplane_type_id, created_at FROM airplanes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.CreatedAt); err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGAirplaneRepository) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	var a domain.Airplane
	err := r.db.QueryRow(ctx, `SELECT id, name, rows, seats_in_row, airplane_type_id, created_at FROM airplanes WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAirplaneRepository) DeleteAirplane(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM airplanes WHERE id=$1`, id)
}

var _ AirplaneRepository = (*PGAirplaneRepository)(nil)
