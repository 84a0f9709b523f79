package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const decisionColumns = `decision_id, category, query, budget_max, stability,
	candidates_considered, candidates_after_filter, pick_count,
	spec, result, created_at`

func (s *PostgresStore) SaveDecision(ctx context.Context, d *Decision) error {
	specJSON, _ := json.Marshal(d.Spec)
	resultJSON, _ := json.Marshal(d.Result)

	return s.pool.QueryRow(ctx, `
		INSERT INTO decisions (category, query, budget_max, stability,
			candidates_considered, candidates_after_filter, pick_count, spec, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING decision_id, created_at`,
		d.Category, d.Query, d.BudgetMax, d.Stability,
		d.CandidatesConsidered, d.CandidatesAfterFilter, d.PickCount,
		specJSON, resultJSON,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *PostgresStore) GetDecision(ctx context.Context, id uuid.UUID) (*Decision, error) {
	d := &Decision{}
	var specJSON, resultJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+decisionColumns+`
		FROM decisions WHERE decision_id = $1`, id,
	).Scan(
		&d.ID, &d.Category, &d.Query, &d.BudgetMax, &d.Stability,
		&d.CandidatesConsidered, &d.CandidatesAfterFilter, &d.PickCount,
		&specJSON, &resultJSON, &d.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if specJSON != nil {
		_ = json.Unmarshal(specJSON, &d.Spec)
	}
	if resultJSON != nil {
		_ = json.Unmarshal(resultJSON, &d.Result)
	}
	return d, nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*Decision, error) {
	query := `SELECT decision_id, category, query, budget_max, stability,
		candidates_considered, candidates_after_filter, pick_count,
		'{}'::jsonb, '{}'::jsonb, created_at
		FROM decisions WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, filter.Category)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []*Decision
	for rows.Next() {
		d := &Decision{}
		var specJSON, resultJSON []byte
		if err := rows.Scan(
			&d.ID, &d.Category, &d.Query, &d.BudgetMax, &d.Stability,
			&d.CandidatesConsidered, &d.CandidatesAfterFilter, &d.PickCount,
			&specJSON, &resultJSON, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
