package orders

import (
	"context"
	"sync"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/seating"
)

// memoryOrderRepository serialises commits like the flight row locks of the
// commit transaction and rejects duplicate seats like the tickets unique key.
type memoryOrderRepository struct {
	mu      sync.Mutex
	planes  map[int64]domain.Airplane
	tickets []domain.Ticket
	orders  []domain.Order
	nextID  int64
}

func newMemoryOrderRepository(planes map[int64]domain.Airplane) *memoryOrderRepository {
	return &memoryOrderRepository{planes: planes}
}

func (r *memoryOrderRepository) Commit(ctx context.Context, order *domain.Order, check repository.CommitCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := check(r.snapshot()); err != nil {
		return err
	}

	taken := make(map[int64]map[domain.Seat]struct{})
	for _, t := range r.tickets {
		if taken[t.FlightID] == nil {
			taken[t.FlightID] = make(map[domain.Seat]struct{})
		}
		taken[t.FlightID][domain.Seat{Row: t.Row, Seat: t.Seat}] = struct{}{}
	}
	for _, t := range order.Tickets {
		pos := domain.Seat{Row: t.Row, Seat: t.Seat}
		if _, ok := taken[t.FlightID][pos]; ok {
			return &domain.SeatConflictError{FlightID: t.FlightID, Seat: pos}
		}
		if taken[t.FlightID] == nil {
			taken[t.FlightID] = make(map[domain.Seat]struct{})
		}
		taken[t.FlightID][pos] = struct{}{}
	}

	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	for i := range order.Tickets {
		order.Tickets[i].OrderID = order.ID
		order.Tickets[i].ID = int64(len(r.tickets) + i + 1)
	}
	r.tickets = append(r.tickets, order.Tickets...)
	stored := *order
	stored.Status = domain.OrderStatusCommitted
	stored.Tickets = append([]domain.Ticket(nil), order.Tickets...)
	r.orders = append(r.orders, stored)
	return nil
}

func (r *memoryOrderRepository) snapshot() map[int64]domain.FlightSeating {
	sold := make(map[int64][]domain.Seat)
	for _, t := range r.tickets {
		sold[t.FlightID] = append(sold[t.FlightID], domain.Seat{Row: t.Row, Seat: t.Seat})
	}
	out := make(map[int64]domain.FlightSeating, len(r.planes))
	for flightID, plane := range r.planes {
		out[flightID] = seating.NewSnapshot(flightID, plane, sold[flightID])
	}
	return out
}

func (r *memoryOrderRepository) seating(flightID int64) domain.FlightSeating {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()[flightID]
}

func (r *memoryOrderRepository) counts() (orders, tickets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders), len(r.tickets)
}

func (r *memoryOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryOrderRepository) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, o := range r.orders {
		if o.ID == id && o.UserID == userID {
			idx = i
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
	kept := r.tickets[:0]
	for _, t := range r.tickets {
		if t.OrderID != id {
			kept = append(kept, t)
		}
	}
	r.tickets = kept
	return nil
}

var _ repository.OrderRepository = (*memoryOrderRepository)(nil)
