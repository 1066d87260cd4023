package repository

import (
	"context"
	"slices"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
	"github.com/jackc/pgx/v5"
)

// CommitCheck inspects the seating of every flight an order touches, read
// inside the commit transaction. A non-nil error aborts the commit.
type CommitCheck func(seating map[int64]domain.FlightSeating) error

type OrderRepository interface {
	// Commit persists the order and all its tickets atomically after check
	// accepts the current seating. On any error nothing is persisted.
	Commit(ctx context.Context, order *domain.Order, check CommitCheck) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Delete removes an order of userID together with its tickets, which
	// frees their seats.
	Delete(ctx context.Context, userID, id int64) error
}

type PGOrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &PGOrderRepository{db: db}
}

// Commit runs at READ COMMITTED. The flight row locks taken first queue
// concurrent orders for the same flight, and every later statement reads a
// fresh snapshot, so the check sees the seats sold by the order that held the
// lock before. Orders for different seats of one flight therefore both commit.
func (r *PGOrderRepository) Commit(ctx context.Context, order *domain.Order, check CommitCheck) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	current, err := lockSeating(ctx, tx, orderFlightIDs(order))
	if err != nil {
		return mapError(err)
	}
	if err := check(current); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`, order.UserID).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return mapError(err)
	}

	for i := range order.Tickets {
		t := &order.Tickets[i]
		t.OrderID = order.ID
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (seat_row, seat, flight_id, order_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			t.Row, t.Seat, t.FlightID, t.OrderID).Scan(&t.ID); err != nil {
			return mapError(err)
		}
	}

	return mapError(tx.Commit(ctx))
}

// lockSeating locks the flight rows in id order, then reads each flight's
// grid and sold seats.
// Unknown flight ids are simply absent from the result.
func lockSeating(ctx context.Context, tx pgx.Tx, flightIDs []int64) (map[int64]domain.FlightSeating, error) {
	rows, err := tx.Query(ctx, `SELECT f.id, a.id, a.name, a.rows, a.seats_in_row, a.airplane_type_id
		FROM flights f JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id = ANY($1)
		ORDER BY f.id
		FOR UPDATE OF f`, flightIDs)
	if err != nil {
		return nil, err
	}
	planes := make(map[int64]domain.Airplane, len(flightIDs))
	for rows.Next() {
		var flightID int64
		var a domain.Airplane
		if err := rows.Scan(&flightID, &a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID); err != nil {
			rows.Close()
			return nil, err
		}
		planes[flightID] = a
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sold := make(map[int64][]domain.Seat, len(planes))
	seatRows, err := tx.Query(ctx, `SELECT flight_id, seat_row, seat FROM tickets WHERE flight_id = ANY($1)`, flightIDs)
	if err != nil {
		return nil, err
	}
	defer seatRows.Close()
	for seatRows.Next() {
		var flightID int64
		var s domain.Seat
		if err := seatRows.Scan(&flightID, &s.Row, &s.Seat); err != nil {
			return nil, err
		}
		sold[flightID] = append(sold[flightID], s)
	}
	if err := seatRows.Err(); err != nil {
		return nil, err
	}

	out := make(map[int64]domain.FlightSeating, len(planes))
	for flightID, plane := range planes {
		out[flightID] = seating.NewSnapshot(flightID, plane, sold[flightID])
	}
	return out, nil
}

func orderFlightIDs(order *domain.Order) []int64 {
	ids := make([]int64, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		ids = append(ids, t.FlightID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT o.id, o.user_id, o.created_at, t.id, t.flight_id, t.seat_row, t.seat
		FROM orders o JOIN tickets t ON t.order_id = o.id
		WHERE o.user_id=$1
		ORDER BY o.created_at DESC, o.id DESC, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		var t domain.Ticket
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &t.ID, &t.FlightID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		t.OrderID = o.ID
		if n := len(orders); n > 0 && orders[n-1].ID == o.ID {
			orders[n-1].Tickets = append(orders[n-1].Tickets, t)
			continue
		}
		o.Status = domain.OrderStatusCommitted
		o.Tickets = []domain.Ticket{t}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT o.id, o.user_id, o.created_at, t.id, t.flight_id, t.seat_row, t.seat
		FROM orders o JOIN tickets t ON t.order_id = o.id
		WHERE o.id=$1
		ORDER BY t.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var order *domain.Order
	for rows.Next() {
		var o domain.Order
		var t domain.Ticket
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &t.ID, &t.FlightID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		if order == nil {
			o.Status = domain.OrderStatusCommitted
			order = &o
		}
		t.OrderID = order.ID
		order.Tickets = append(order.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (r *PGOrderRepository) Delete(ctx context.Context, userID, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM orders WHERE id=$1 AND user_id=$2`, id, userID)
}

var _ OrderRepository = (*PGOrderRepository)(nil)
