package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCommitted OrderStatus = "COMMITTED"
	OrderStatusAborted   OrderStatus = "ABORTED"
)

type Order struct {
	ID        int64
	UserID    int64
	Status    OrderStatus
	Tickets   []Ticket
	CreatedAt time.Time
}

type Ticket struct {
	ID       int64
	OrderID  int64
	FlightID int64
	Row      int
	Seat     int
}

// TicketRequest is one candidate ticket of an order before it is committed.
type TicketRequest struct {
	FlightID int64
	Row      int
	Seat     int
}

func (t TicketRequest) Position() Seat {
	return Seat{Row: t.Row, Seat: t.Seat}
}
