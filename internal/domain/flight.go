package domain

import "time"

type Flight struct {
	ID               int64
	RouteID          int64
	AirplaneID       int64
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Route            Route
	Airplane         Airplane
	TicketsAvailable int
	CreatedAt        time.Time
}

// Seat is a (row, seat) position inside an airplane grid.
type Seat struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// FlightSeating is a consistent snapshot of a flight's grid and the seats
// already sold on it.
type FlightSeating struct {
	FlightID int64
	Airplane Airplane
	Taken    map[Seat]struct{}
}

// FlightDetail is the flight detail view: reference data plus capacity figures.
type FlightDetail struct {
	Flight
	Crew        []Crew
	TakenPlaces []Seat
}
