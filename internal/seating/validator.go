package seating

import (
	"fmt"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

const (
	FieldFlight = "flight"
	FieldRow    = "row"
	FieldSeat   = "seat"
)

// Validate checks a candidate seat against a flight snapshot. All
// violations are reported, in field order: row range, seat range, uniqueness.
func Validate(s domain.FlightSeating, row, seat int) []domain.Violation {
	var violations []domain.Violation
	if !s.Airplane.ValidRow(row) {
		violations = append(violations, domain.Violation{
			Field:   FieldRow,
			Message: fmt.Sprintf("row must be in range [1, %d]", s.Airplane.Rows),
			Kind:    domain.ErrOutOfRange,
		})
	}
	if !s.Airplane.ValidSeatInRow(seat) {
		violations = append(violations, domain.Violation{
			Field:   FieldSeat,
			Message: fmt.Sprintf("seat must be in range [1, %d]", s.Airplane.SeatsInRow),
			Kind:    domain.ErrOutOfRange,
		})
	}
	if IsSeatTaken(s, row, seat) {
		violations = append(violations, domain.Violation{
			Field:   FieldSeat,
			Message: "seat already taken",
			Kind:    domain.ErrSeatTaken,
		})
	}
	return violations
}

// ValidateOrder runs Validate over the requests in input order. Seats
// accepted earlier in the same order count as taken for later ones, so an
// order cannot claim one seat twice. It stops at the first failing ticket.
// The snapshots in seating are not modified.
func ValidateOrder(requests []domain.TicketRequest, seating map[int64]domain.FlightSeating) error {
	if len(requests) == 0 {
		return domain.ErrEmptyOrder
	}

	tentative := make(map[int64]map[domain.Seat]struct{})
	for i, req := range requests {
		snapshot, ok := seating[req.FlightID]
		if !ok {
			return &domain.OrderValidationError{
				Index: i,
				Violations: []domain.Violation{{
					Field:   FieldFlight,
					Message: fmt.Sprintf("flight %d does not exist", req.FlightID),
					Kind:    domain.ErrNotFound,
				}},
			}
		}

		violations := Validate(withTentative(snapshot, tentative[req.FlightID]), req.Row, req.Seat)
		if len(violations) > 0 {
			return &domain.OrderValidationError{Index: i, Violations: violations}
		}

		if tentative[req.FlightID] == nil {
			tentative[req.FlightID] = make(map[domain.Seat]struct{})
		}
		tentative[req.FlightID][req.Position()] = struct{}{}
	}
	return nil
}

func withTentative(s domain.FlightSeating, extra map[domain.Seat]struct{}) domain.FlightSeating {
	if len(extra) == 0 {
		return s
	}
	taken := make(map[domain.Seat]struct{}, len(s.Taken)+len(extra))
	for seat := range s.Taken {
		taken[seat] = struct{}{}
	}
	for seat := range extra {
		taken[seat] = struct{}{}
	}
	s.Taken = taken
	return s
}
