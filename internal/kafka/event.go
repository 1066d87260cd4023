package kafka

import (
	"time"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

type TicketPayload struct {
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

// OrderEvent is the message published after an order commits.
type OrderEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Tickets   []TicketPayload `json:"tickets"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewOrderEvent(eventID, eventType string, order *domain.Order) OrderEvent {
	tickets := make([]TicketPayload, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		tickets = append(tickets, TicketPayload{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	return OrderEvent{
		EventID:   eventID,
		Type:      eventType,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Tickets:   tickets,
		CreatedAt: order.CreatedAt,
	}
}
