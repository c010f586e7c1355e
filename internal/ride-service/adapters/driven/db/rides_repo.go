package db

import (
	"context"
	"errors"

	"ride-sharing/internal/postgres"
	"ride-sharing/internal/ride-service/core/domain/dto"
	"ride-sharing/internal/ride-service/core/domain/model"
	"ride-sharing/internal/ride-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

const Schema = `
CREATE TABLE IF NOT EXISTS rides (
	id UUID PRIMARY KEY,
	rider_user_id UUID NOT NULL,
	rider_username TEXT NOT NULL,
	pickup_location_text TEXT NOT NULL,
	destination_location_text TEXT NOT NULL,
	status TEXT NOT NULL,
	driver_id UUID,
	driver_username TEXT,
	requested_at TIMESTAMPTZ NOT NULL,
	accepted_at TIMESTAMPTZ,
	started_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rides_rider ON rides (rider_user_id);
CREATE INDEX IF NOT EXISTS idx_rides_driver ON rides (driver_id);
`

const rideColumns = `
	id, rider_user_id, rider_username, pickup_location_text,
	destination_location_text, status, driver_id, driver_username,
	requested_at, accepted_at, started_at, completed_at, updated_at
`

type RidesRepo struct {
	db *postgres.DataBase
}

func NewRidesRepo(db *postgres.DataBase) *RidesRepo {
	return &RidesRepo{db: db}
}

func (rr *RidesRepo) Insert(ctx context.Context, ride model.Ride) error {
	query := `
		INSERT INTO rides (id, rider_user_id, rider_username, pickup_location_text,
			destination_location_text, status, requested_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := rr.db.Pool().Exec(ctx, query,
		ride.ID, ride.RiderUserID, ride.RiderUsername, ride.Pickup,
		ride.Destination, ride.Status, ride.RequestedAt, ride.UpdatedAt,
	)
	return err
}

func (rr *RidesRepo) GetByID(ctx context.Context, rideID string) (model.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1;`
	ride, err := scanRide(rr.db.Pool().QueryRow(ctx, query, rideID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ride{}, myerrors.ErrRideNotFound
	}
	return ride, err
}

func (rr *RidesRepo) ListByRider(ctx context.Context, riderUserID string) ([]model.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_user_id = $1
		ORDER BY requested_at DESC;
	`
	return rr.list(ctx, query, riderUserID)
}

func (rr *RidesRepo) ListForDriver(ctx context.Context, driverID string) ([]model.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1 OR (status = 'pending' AND driver_id IS NULL)
		ORDER BY requested_at DESC;
	`
	return rr.list(ctx, query, driverID)
}

func (rr *RidesRepo) ListAll(ctx context.Context) ([]model.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY requested_at DESC;`
	return rr.list(ctx, query)
}

// UpdateStatus is the guarded conditional update: the WHERE clause pins
// the expected current status (and, past accept, the assigned driver),
// so a concurrent or replayed update matches zero rows instead of
// overwriting newer state.
func (rr *RidesRepo) UpdateStatus(ctx context.Context, upd dto.UpdateRideDto) (model.Ride, error) {
	var (
		query string
		args  []any
	)
	switch upd.Status {
	case model.StatusAccepted:
		query = `
			UPDATE rides
			SET driver_id = $1, driver_username = $2, status = 'accepted',
				accepted_at = NOW(), updated_at = NOW()
			WHERE id = $3 AND status = 'pending'
			RETURNING ` + rideColumns + `;`
		args = []any{upd.DriverID, upd.DriverUsername, upd.RideID}
	case model.StatusOngoing:
		query = `
			UPDATE rides
			SET status = 'ongoing', started_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND driver_id = $2 AND status = 'accepted'
			RETURNING ` + rideColumns + `;`
		args = []any{upd.RideID, upd.DriverID}
	case model.StatusCompleted:
		query = `
			UPDATE rides
			SET status = 'completed', completed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND driver_id = $2 AND status IN ('accepted', 'ongoing')
			RETURNING ` + rideColumns + `;`
		args = []any{upd.RideID, upd.DriverID}
	case model.StatusCancelled:
		query = `
			UPDATE rides
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + rideColumns + `;`
		args = []any{upd.RideID}
	default:
		return model.Ride{}, myerrors.ErrInvalidStatus
	}

	ride, err := scanRide(rr.db.Pool().QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ride{}, myerrors.ErrStateConflict
	}
	return ride, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (model.Ride, error) {
	var ride model.Ride
	err := row.Scan(
		&ride.ID, &ride.RiderUserID, &ride.RiderUsername, &ride.Pickup,
		&ride.Destination, &ride.Status, &ride.DriverID, &ride.DriverUsername,
		&ride.RequestedAt, &ride.AcceptedAt, &ride.StartedAt, &ride.CompletedAt,
		&ride.UpdatedAt,
	)
	return ride, err
}

func (rr *RidesRepo) list(ctx context.Context, query string, args ...any) ([]model.Ride, error) {
	rows, err := rr.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []model.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
