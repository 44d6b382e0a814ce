package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists recommendations in PostgreSQL for deployments that
// outgrow the shared response directory.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			emp_id TEXT NOT NULL,
			response TEXT NOT NULL,
			created TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_emp_created ON recommendations (emp_id, created DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Recommendation) (Recommendation, error) {
	stamp := time.Now()
	if t, err := time.Parse(CreatedLayout, rec.Created); err == nil {
		stamp = t
	}
	id := fmt.Sprintf("%s_%s", stamp.Format("20060102_150405"), uuid.NewString())

	_, err := s.pool.Exec(ctx,
		`INSERT INTO recommendations (id, customer_id, emp_id, response, created)
		 VALUES ($1, $2, $3, $4, $5)`,
		id,
		rec.CustomerID,
		rec.EmpID,
		rec.Response,
		rec.Created,
	)
	if err != nil {
		return Recommendation{}, fmt.Errorf("save recommendation: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, empID string) ([]Recommendation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT customer_id, emp_id, response, created
		 FROM recommendations WHERE emp_id=$1 ORDER BY created DESC`,
		empID,
	)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	results := make([]Recommendation, 0)
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.CustomerID, &r.EmpID, &r.Response, &r.Created); err != nil {
			return nil, fmt.Errorf("scan recommendation row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendation rows: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
