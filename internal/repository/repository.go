package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSnapshotNotFound is returned when no isochrone was stored for an origin yet.
var ErrSnapshotNotFound = errors.New("isochrone snapshot not found")

// Database is the subset of *pgxpool.Pool used by Repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	SaveIsochrone(ctx context.Context, origin string, maxDuration int, journeys []models.Journey) error
	LatestIsochrone(ctx context.Context, origin string) ([]models.Journey, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Noop stores nothing. It is used when no database is configured.
type Noop struct{}

// SaveIsochrone implements Interface.
func (Noop) SaveIsochrone(context.Context, string, int, []models.Journey) error { return nil }

// LatestIsochrone implements Interface.
func (Noop) LatestIsochrone(context.Context, string) ([]models.Journey, error) {
	return nil, ErrSnapshotNotFound
}
