// Package seating holds the seat allocation rules: grid bounds, remaining
// capacity and ticket validation. Every function here is pure; callers
// supply a domain.FlightSeating snapshot read by the storage layer.
package seating

import (
	"sort"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
)

// NewSnapshot builds a FlightSeating from an airplane and the seats sold so far.
func NewSnapshot(flightID int64, airplane domain.Airplane, sold []domain.Seat) domain.FlightSeating {
	taken := make(map[domain.Seat]struct{}, len(sold))
	for _, s := range sold {
		taken[s] = struct{}{}
	}
	return domain.FlightSeating{FlightID: flightID, Airplane: airplane, Taken: taken}
}

// RemainingSeats is capacity minus sold tickets. It is a display figure and
// never goes below zero, even if the airplane grid shrank after sales.
func RemainingSeats(s domain.FlightSeating) int {
	left := s.Airplane.Capacity() - len(s.Taken)
	if left < 0 {
		return 0
	}
	return left
}

func IsSeatTaken(s domain.FlightSeating, row, seat int) bool {
	_, ok := s.Taken[domain.Seat{Row: row, Seat: seat}]
	return ok
}

// TakenPlaces lists sold seats ordered by row, then seat.
func TakenPlaces(s domain.FlightSeating) []domain.Seat {
	out := make([]domain.Seat, 0, len(s.Taken))
	for seat := range s.Taken {
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Seat < out[j].Seat
	})
	return out
}
