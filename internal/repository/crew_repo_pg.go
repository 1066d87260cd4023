package repository

import (
	"context"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

type CrewRepository interface {
	CreateCrew(ctx context.Context, crew *domain.Crew) error
	ListCrews(ctx context.Context) ([]domain.Crew, error)
	GetCrew(ctx context.Context, id int64) (*domain.Crew, error)
	UpdateCrew(ctx context.Context, crew *domain.Crew) error
	DeleteCrew(ctx context.Context, id int64) error
}

type PGCrewRepository struct {
	db DB
}

func NewCrewRepository(db DB) CrewRepository {
	return &PGCrewRepository{db: db}
}

func (r *PGCrewRepository) CreateCrew(ctx context.Context, c *domain.Crew) error {
	err := r.db.QueryRow(ctx, `INSERT INTO crews (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		c.FirstName, c.LastName).Scan(&c.ID)
	return mapError(err)
}

func (r *PGCrewRepository) ListCrews(ctx context.Context) ([]domain.Crew, error) {
	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name FROM crews ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		crews = append(crews, c)
	}
	return crews, rows.Err()
}

func (r *PGCrewRepository) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	var c domain.Crew
	err := r.db.QueryRow(ctx, `SELECT id, first_name, last_name FROM crews WHERE id=$1`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *PGCrewRepository) UpdateCrew(ctx context.Context, c *domain.Crew) error {
	return execOne(ctx, r.db, `UPDATE crews SET first_name=$2, last_name=$3 WHERE id=$1`, c.ID, c.FirstName, c.LastName)
}

func (r *PGCrewRepository) DeleteCrew(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM crews WHERE id=$1`, id)
}

var _ CrewRepository = (*PGCrewRepository)(nil)
