package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/jackc/pgx/v5"
)

const schemaQuery = `
		CREATE TABLE IF NOT EXISTS isochrone_snapshots (
			snapshot_id BIGSERIAL PRIMARY KEY,
			origin TEXT NOT NULL,
			max_duration INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS isochrone_journeys (
			snapshot_id BIGINT NOT NULL REFERENCES isochrone_snapshots (snapshot_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			journey JSONB NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		);
	`

// Migrate creates the snapshot tables when they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaQuery); err != nil {
		return fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return nil
}

// SaveIsochrone stores the journeys of one isochrone result for origin in a single transaction,
// so a half written snapshot is never read back.
func (r *Repository) SaveIsochrone(
	ctx context.Context,
	origin string,
	maxDuration int,
	journeys []models.Journey,
) (err error) {
	snapshotQuery := `
		INSERT INTO isochrone_snapshots (origin, max_duration)
		VALUES ($1, $2)
		RETURNING snapshot_id;
	`
	journeyQuery := `
		INSERT INTO isochrone_journeys (snapshot_id, position, journey)
		VALUES ($1, $2, $3);
	`

	trx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := trx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.ErrorContext(ctx, "Failed to rollback snapshot transaction", "error", rbErr)
			}
		}
	}()

	var snapshotID int64
	if err = trx.QueryRow(ctx, snapshotQuery, origin, maxDuration).Scan(&snapshotID); err != nil {
		return fmt.Errorf("failed to insert isochrone snapshot: %w", err)
	}

	for position, journey := range journeys {
		payload, marshalErr := json.Marshal(journey)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode journey %d: %w", position, marshalErr)
		}
		if _, err = trx.Exec(ctx, journeyQuery, snapshotID, position, payload); err != nil {
			return fmt.Errorf("failed to insert journey %d: %w", position, err)
		}
	}

	if err = trx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	r.log.DebugContext(ctx, "Isochrone snapshot stored", "origin", origin, "snapshot", snapshotID,
		"journeys", len(journeys))

	return nil
}

// LatestIsochrone returns the journeys of the most recent snapshot stored for origin,
// in the order they were received.
func (r *Repository) LatestIsochrone(ctx context.Context, origin string) ([]models.Journey, error) {
	snapshotQuery := `
		SELECT snapshot_id
		FROM isochrone_snapshots
		WHERE origin = $1
		ORDER BY created_at DESC, snapshot_id DESC
		LIMIT 1;
	`
	journeyQuery := `
		SELECT journey
		FROM isochrone_journeys
		WHERE snapshot_id = $1
		ORDER BY position ASC;
	`

	var snapshotID int64
	if err := r.db.QueryRow(ctx, snapshotQuery, origin).Scan(&snapshotID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	rows, err := r.db.Query(ctx, journeyQuery, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot journeys: %w", err)
	}
	defer rows.Close()

	journeys := []models.Journey{}
	for rows.Next() {
		var payload []byte
		if errScan := rows.Scan(&payload); errScan != nil {
			return nil, fmt.Errorf("failed to scan snapshot journey: %w", errScan)
		}

		var journey models.Journey
		if errDecode := json.Unmarshal(payload, &journey); errDecode != nil {
			return nil, fmt.Errorf("failed to decode snapshot journey: %w", errDecode)
		}
		journeys = append(journeys, journey)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Isochrone snapshot restored", "origin", origin, "snapshot", snapshotID,
		"journeys", len(journeys))

	return journeys, nil
}
