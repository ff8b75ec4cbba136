// Package db provides PostgreSQL access for plan-run artifact storage.
// Persistence is best-effort: the pipeline runs fine without a database.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pipeline step identifiers for stored artifacts
const (
	StepGapReport       = "gap_report"
	StepCandidates      = "candidates"
	StepRecommendations = "recommendations"
	StepLearningPlan    = "learning_plan"
)

// Artifact categories
const (
	CategoryAnalysis    = "analysis"
	CategoryAggregation = "aggregation"
	CategoryMatching    = "matching"
	CategoryPlanning    = "planning"
)

// stepCategories maps each pipeline step to the category recorded with its
// artifact.
var stepCategories = map[string]string{
	StepGapReport:       CategoryAnalysis,
	StepCandidates:      CategoryAggregation,
	StepRecommendations: CategoryMatching,
	StepLearningPlan:    CategoryPlanning,
}

// CategoryForStep returns the artifact category for a pipeline step, or false
// for an unknown step.
func CategoryForStep(step string) (string, bool) {
	category, ok := stepCategories[step]
	return category, ok
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreatePlanRun creates a new plan-run record and returns its ID
func (db *DB) CreatePlanRun(ctx context.Context, targetRole string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO plan_runs (target_role, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		targetRole,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create plan run: %w", err)
	}
	return id, nil
}

// CompletePlanRun marks a plan run as finished with the given status
func (db *DB) CompletePlanRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE plan_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete plan run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a plan run. The artifact category
// is derived from the step; an unknown step is rejected.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	category, ok := CategoryForStep(step)
	if !ok {
		return fmt.Errorf("unknown artifact step %q", step)
	}

	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO plan_artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step.
// A missing artifact returns (nil, nil).
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM plan_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}
