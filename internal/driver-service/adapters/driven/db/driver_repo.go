package db

import (
	"context"
	"errors"

	"ride-sharing/internal/driver-service/core/domain/model"
	"ride-sharing/internal/driver-service/core/myerrors"
	"ride-sharing/internal/postgres"

	"github.com/jackc/pgx/v5"
)

const Schema = `
CREATE TABLE IF NOT EXISTS drivers (
	user_id UUID PRIMARY KEY,
	username TEXT NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	current_ride_id UUID,
	vehicle_details JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pending_rides (
	ride_id UUID PRIMARY KEY,
	rider_id UUID NOT NULL,
	rider_username TEXT NOT NULL,
	pickup_location TEXT NOT NULL,
	destination_location TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	requested_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pending_rides_requested ON pending_rides (requested_at);
`

type DriverRepo struct {
	db *postgres.DataBase
}

func NewDriverRepo(db *postgres.DataBase) *DriverRepo {
	return &DriverRepo{db: db}
}

func (dr *DriverRepo) UpsertPendingRide(ctx context.Context, ride model.PendingRide) error {
	query := `
		INSERT INTO pending_rides (ride_id, rider_id, rider_username,
			pickup_location, destination_location, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ride_id) DO NOTHING;
	`
	_, err := dr.db.Pool().Exec(ctx, query,
		ride.RideID, ride.RiderID, ride.RiderUsername,
		ride.Pickup, ride.Destination, ride.Status, ride.RequestedAt,
	)
	return err
}

func (dr *DriverRepo) UpsertDriver(ctx context.Context, userID, username string) error {
	query := `
		INSERT INTO drivers (user_id, username, is_available)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET username = $2, updated_at = NOW();
	`
	_, err := dr.db.Pool().Exec(ctx, query, userID, username)
	return err
}

func (dr *DriverRepo) DeactivateIdleDriver(ctx context.Context, userID string) error {
	query := `
		UPDATE drivers
		SET is_available = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND current_ride_id IS NULL;
	`
	_, err := dr.db.Pool().Exec(ctx, query, userID)
	return err
}

func (dr *DriverRepo) GetDriver(ctx context.Context, userID string) (model.DriverEntry, error) {
	query := `
		SELECT user_id, username, is_available, current_ride_id, vehicle_details, updated_at
		FROM drivers
		WHERE user_id = $1;
	`
	var d model.DriverEntry
	err := dr.db.Pool().QueryRow(ctx, query, userID).Scan(
		&d.UserID, &d.Username, &d.IsAvailable, &d.CurrentRideID, &d.VehicleDetails, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DriverEntry{}, myerrors.ErrDriverNotFound
	}
	if err != nil {
		return model.DriverEntry{}, err
	}
	return d, nil
}

func (dr *DriverRepo) ListPendingRides(ctx context.Context) ([]model.PendingRide, error) {
	// Oldest first: fairness by arrival.
	query := `
		SELECT ride_id, rider_id, rider_username, pickup_location,
			destination_location, status, requested_at
		FROM pending_rides
		WHERE status = 'pending'
		ORDER BY requested_at ASC;
	`
	rows, err := dr.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []model.PendingRide
	for rows.Next() {
		var r model.PendingRide
		err := rows.Scan(
			&r.RideID, &r.RiderID, &r.RiderUsername, &r.Pickup,
			&r.Destination, &r.Status, &r.RequestedAt,
		)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

// AcceptRide locks the driver row, then the pending cache row, and
// commits both mutations or neither. The row locks are what make the
// accept race safe: the second driver blocks on the pending ride's
// lock and finds the row gone once the winner commits.
func (dr *DriverRepo) AcceptRide(ctx context.Context, driverID, rideID string) (string, error) {
	tx, err := dr.db.Pool().Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var (
		username      string
		isAvailable   bool
		currentRideID *string
	)
	err = tx.QueryRow(ctx,
		`SELECT username, is_available, current_ride_id FROM drivers WHERE user_id = $1 FOR UPDATE;`,
		driverID,
	).Scan(&username, &isAvailable, &currentRideID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", myerrors.ErrDriverNotFound
	}
	if err != nil {
		return "", err
	}
	if !isAvailable || currentRideID != nil {
		return "", myerrors.ErrDriverUnavailable
	}

	var lockedRideID string
	err = tx.QueryRow(ctx,
		`SELECT ride_id FROM pending_rides WHERE ride_id = $1 AND status = 'pending' FOR UPDATE;`,
		rideID,
	).Scan(&lockedRideID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", myerrors.ErrRideUnavailable
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE drivers SET is_available = FALSE, current_ride_id = $1, updated_at = NOW() WHERE user_id = $2;`,
		rideID, driverID,
	); err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM pending_rides WHERE ride_id = $1;`,
		rideID,
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return username, nil
}

func (dr *DriverRepo) CompleteRide(ctx context.Context, driverID, rideID string) (string, error) {
	tx, err := dr.db.Pool().Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var (
		username      string
		currentRideID *string
	)
	err = tx.QueryRow(ctx,
		`SELECT username, current_ride_id FROM drivers WHERE user_id = $1 FOR UPDATE;`,
		driverID,
	).Scan(&username, &currentRideID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", myerrors.ErrNotAssigned
	}
	if err != nil {
		return "", err
	}
	if currentRideID == nil || *currentRideID != rideID {
		return "", myerrors.ErrNotAssigned
	}

	if _, err := tx.Exec(ctx,
		`UPDATE drivers SET is_available = TRUE, current_ride_id = NULL, updated_at = NOW() WHERE user_id = $1;`,
		driverID,
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return username, nil
}
