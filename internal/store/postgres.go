package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wildvision/observation-store-service/internal/models"
)

// schemaSQL is applied on startup; the service bootstraps its own schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable document collection backed by Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if the database
// is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// Insert persists one observation under a freshly generated identifier.
func (p *PostgresStore) Insert(ctx context.Context, obs models.Observation) (string, error) {
	id := uuid.NewString()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO observations(id, species, gender, quantity, latitude, longitude, user_id, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, id, obs.Species, obs.Gender, obs.Quantity, obs.Latitude, obs.Longitude, obs.UserID, obs.Timestamp)
	if err != nil {
		return "", fmt.Errorf("insert observation: %w", err)
	}

	return id, nil
}

// FindAll returns every observation in a stable order: timestamp ascending,
// id as the tie-break.
func (p *PostgresStore) FindAll(ctx context.Context) ([]models.Observation, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, species, gender, quantity, latitude, longitude, user_id, ts
		FROM observations
		ORDER BY ts ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("find observations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0)
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}

	return out, rows.Err()
}

// FindByID returns the observation matching id in canonical form.
func (p *PostgresStore) FindByID(ctx context.Context, id string) (models.Observation, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.Observation{}, ErrInvalidID
	}

	row := p.pool.QueryRow(ctx, `
		SELECT id, species, gender, quantity, latitude, longitude, user_id, ts
		FROM observations
		WHERE id = $1
	`, parsed.String())

	obs, err := scanObservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Observation{}, ErrNotFound
	}
	if err != nil {
		return models.Observation{}, err
	}

	return obs, nil
}

// DeleteByID removes the observation matching id. Zero rows removed means the
// record no longer exists, which callers see as ErrNotFound.
func (p *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	tag, err := p.pool.Exec(ctx, `DELETE FROM observations WHERE id = $1`, parsed.String())
	if err != nil {
		return fmt.Errorf("delete observation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanObservation(row pgx.Row) (models.Observation, error) {
	var obs models.Observation
	err := row.Scan(
		&obs.ID,
		&obs.Species,
		&obs.Gender,
		&obs.Quantity,
		&obs.Latitude,
		&obs.Longitude,
		&obs.UserID,
		&obs.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Observation{}, err
		}
		return models.Observation{}, fmt.Errorf("scan observation: %w", err)
	}
	return obs, nil
}
