package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ValeriiaKyr/airport-api-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	ticketSeatConstraint = "tickets_flight_row_seat_key"
)

// Key (flight_id, seat_row, seat)=(1, 5, 5) already exists.
var ticketKeyDetail = regexp.MustCompile(`=\((\d+), (\d+), (\d+)\)`)

// mapError translates driver errors into domain errors. Errors it does not
// recognise are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == ticketSeatConstraint {
			return seatConflict(pgErr)
		}
		return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, pgErr.Message)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, pgErr.Message)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: referenced record does not exist", domain.ErrInvalidInput)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
	}
	return err
}

func seatConflict(pgErr *pgconn.PgError) error {
	m := ticketKeyDetail.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return fmt.Errorf("%w: %s", domain.ErrSeatTaken, pgErr.Detail)
	}
	flightID, _ := strconv.ParseInt(m[1], 10, 64)
	row, _ := strconv.Atoi(m[2])
	seat, _ := strconv.Atoi(m[3])
	return &domain.SeatConflictError{FlightID: flightID, Seat: domain.Seat{Row: row, Seat: seat}}
}
