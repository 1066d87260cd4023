package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValeriiaKyr/airport-api-service/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Notifier delivers order confirmations. Delivery is a structured log line;
// a mail or push channel plugs in here.
type Notifier struct {
	log logrus.FieldLogger
}

func NewNotifier(log logrus.FieldLogger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Notify(ctx context.Context, event kafka.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"order_id": event.OrderID,
		"user_id":  event.UserID,
		"tickets":  len(event.Tickets),
	}).Info(Message(event))
	return nil
}

// Message renders the confirmation text for an order event.
func Message(event kafka.OrderEvent) string {
	seats := make([]string, 0, len(event.Tickets))
	for _, t := range event.Tickets {
		seats = append(seats, fmt.Sprintf("flight %d row %d seat %d", t.FlightID, t.Row, t.Seat))
	}
	return fmt.Sprintf("order %d confirmed: %s", event.OrderID, strings.Join(seats, ", "))
}
