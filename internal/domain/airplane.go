package domain

import "time"

type AirplaneType struct {
	ID   int64
	Name string
}

// Airplane owns the seat grid that every flight flown by it sells from.
// Rows and seats are numbered from 1.
type Airplane struct {
	ID             int64
	Name           string
	Rows           int
	SeatsInRow     int
	AirplaneTypeID int64
	CreatedAt      time.Time
}

// Capacity is the number of seats in the grid.
func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

// ValidRow reports whether row is inside [1, Rows].
func (a Airplane) ValidRow(row int) bool {
	return row >= 1 && row <= a.Rows
}

// ValidSeatInRow reports whether seat is inside [1, SeatsInRow].
func (a Airplane) ValidSeatInRow(seat int) bool {
	return seat >= 1 && seat <= a.SeatsInRow
}

// IsValidSeat reports whether (row, seat) lies inside the grid.
func (a Airplane) IsValidSeat(row, seat int) bool {
	return a.ValidRow(row) && a.ValidSeatInRow(seat)
}
