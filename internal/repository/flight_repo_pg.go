package repository

import (
	"context"
	"fmt"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	// GetDetail reads the flight, its crew and its sold seats from one
	// snapshot. TakenPlaces holds the sold seats in storage order.
	GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error)
	Create(ctx context.Context, flight *domain.Flight, crewIDs []int64) error
	// Delete removes the flight and every ticket sold on it.
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const selectFlight = `SELECT f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time, f.created_at,
	r.id, r.distance,
	s.id, s.name, s.closest_big_city,
	d.id, d.name, d.closest_big_city,
	a.id, a.name, a.rows, a.seats_in_row, a.airplane_type_id, a.created_at`

const fromFlight = ` FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id`

func flightDest(f *domain.Flight) []any {
	return []any{&f.ID, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt,
		&f.Route.ID, &f.Route.Distance,
		&f.Route.Source.ID, &f.Route.Source.Name, &f.Route.Source.ClosestBigCity,
		&f.Route.Destination.ID, &f.Route.Destination.Name, &f.Route.Destination.ClosestBigCity,
		&f.Airplane.ID, &f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow, &f.Airplane.AirplaneTypeID, &f.Airplane.CreatedAt}
}

// List computes tickets_available in the same statement as the flight rows.
func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, selectFlight+`,
		GREATEST(a.rows * a.seats_in_row - (SELECT count(*) FROM tickets t WHERE t.flight_id = f.id), 0)`+
		fromFlight+` ORDER BY f.departure_time, f.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(append(flightDest(&f), &f.TicketsAvailable)...); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var detail domain.FlightDetail
	if err := tx.QueryRow(ctx, selectFlight+fromFlight+` WHERE f.id=$1`, id).Scan(flightDest(&detail.Flight)...); err != nil {
		return nil, mapError(err)
	}

	crewRows, err := tx.Query(ctx, `SELECT c.id, c.first_name, c.last_name
		FROM flight_crews fc JOIN crews c ON c.id = fc.crew_id
		WHERE fc.flight_id=$1 ORDER BY c.id`, id)
	if err != nil {
		return nil, err
	}
	detail.Crew, err = pgx.CollectRows(crewRows, func(row pgx.CollectableRow) (domain.Crew, error) {
		var c domain.Crew
		err := row.Scan(&c.ID, &c.FirstName, &c.LastName)
		return c, err
	})
	if err != nil {
		return nil, err
	}

	detail.TakenPlaces, err = soldSeats(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &detail, nil
}

func soldSeats(ctx context.Context, q pgx.Tx, flightID int64) ([]domain.Seat, error) {
	rows, err := q.Query(ctx, `SELECT seat_row, seat FROM tickets WHERE flight_id=$1`, flightID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Seat, error) {
		var s domain.Seat
		err := row.Scan(&s.Row, &s.Seat)
		return s, err
	})
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight, crewIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, f.RouteID, f.AirplaneID, f.DepartureTime, f.ArrivalTime).
		Scan(&f.ID, &f.CreatedAt); err != nil {
		return mapError(err)
	}

	for _, crewID := range crewIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO flight_crews (flight_id, crew_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, f.ID, crewID); err != nil {
			return fmt.Errorf("assign crew %d: %w", crewID, mapError(err))
		}
	}

	return tx.Commit(ctx)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM flights WHERE id=$1`, id)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
